package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	rand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
	distuv "gonum.org/v1/gonum/stat/distuv"
)

var (
	// CLI flags
	endpoint     string
	workersCount int
	requests     int
	interval     string
	key          string
	scenarioPath string
	logLevel     string
)

type submission struct {
	Key        string  `json:"key"`
	Value      float64 `json:"value"`
	OccurredAt string  `json:"occurred_at"`
}

type requestStat struct {
	ok       bool
	duration time.Duration
}

func init() {
	flag.StringVar(&endpoint, "endpoint", "http://127.0.0.1:8080/custom_metrics", "Endpoint to submit metrics to")
	flag.IntVar(&workersCount, "workers", 10, "Number of parallel workers that will submit metrics")
	flag.IntVar(&requests, "requests", 100, "Number of submissions per worker")
	flag.StringVar(&interval, "interval", "10ms", "Wait time between submissions of a single worker, must be a >= 0 Go Duration")
	flag.StringVar(&key, "key", "test-key", "Metric key to submit under")
	flag.StringVar(&scenarioPath, "scenario", "", "Optional YAML scenario file; fields override the flags above")
	flag.StringVar(&logLevel, "logLevel", "info", "Log level: \"trace\", \"debug\", \"info\", \"warn\", \"error\", \"fatal\", \"panic\"")
}

func main() {
	flag.Parse()

	if parsed, err := log.ParseLevel(logLevel); err == nil {
		log.SetLevel(parsed)
	}

	intervalDuration, err := time.ParseDuration(interval)
	if err != nil || intervalDuration < 0 {
		log.Fatal("Invalid interval specified. Make sure it's a duration greater or equal than 0 and parsable by Go library: https://golang.org/pkg/time/#ParseDuration")
	}

	sc := &Scenario{}
	if scenarioPath != "" {
		sc, err = loadScenario(scenarioPath)
		if err != nil {
			log.Fatal(err)
		}
	}
	sc.applyDefaults(endpoint, workersCount, requests, intervalDuration, key)

	scInterval, err := time.ParseDuration(sc.Interval)
	if err != nil || scInterval < 0 {
		log.Fatalf("Invalid interval in scenario: %s", sc.Interval)
	}

	log.Infof("Launching loadgen against %s", sc.Endpoint)
	log.Infof("Configuration: ")
	log.Infof("\tWorkers: %d", sc.Workers)
	log.Infof("\tRequests per worker: %d", sc.RequestsPerWorker)
	log.Infof("\tSubmit interval: %s", sc.Interval)
	log.Infof("\tKeys: %v", sc.Keys)

	statsChan := make(chan requestStat, sc.Workers*sc.RequestsPerWorker)

	var wg sync.WaitGroup
	for w := 0; w < sc.Workers; w++ {
		wg.Add(1)
		go spawnWorker(w, sc, scInterval, statsChan, &wg)
	}

	wg.Wait()
	close(statsChan)

	printSummary(statsChan)
}

func spawnWorker(id int, sc *Scenario, interval time.Duration, statsChan chan<- requestStat, wg *sync.WaitGroup) {
	defer wg.Done()

	valueDistrib := distuv.Gamma{
		Alpha: sc.Value.Alpha,
		Beta:  sc.Value.Beta,
		Src:   rand.NewSource(uint64(time.Now().UnixNano()) + uint64(id)),
	}

	client := &http.Client{Timeout: 10 * time.Second}

	for i := 0; i < sc.RequestsPerWorker; i++ {
		body := submission{
			Key:        sc.Keys[i%len(sc.Keys)],
			Value:      valueDistrib.Rand() * sc.Value.Scale,
			OccurredAt: strconv.FormatInt(time.Now().Unix(), 10),
		}

		payload, err := json.Marshal(body)
		if err != nil {
			log.Errorf("worker-%d: error marshalling submission: %s", id, err)
			statsChan <- requestStat{ok: false}
			continue
		}

		start := time.Now()
		resp, err := client.Post(sc.Endpoint, "application/json", bytes.NewReader(payload))
		elapsed := time.Since(start)

		if err != nil {
			log.Debugf("worker-%d: submission failed: %s", id, err)
			statsChan <- requestStat{ok: false, duration: elapsed}
		} else {
			resp.Body.Close()
			statsChan <- requestStat{ok: resp.StatusCode == http.StatusOK, duration: elapsed}
		}

		if interval > 0 {
			time.Sleep(interval)
		}
	}

	log.Debugf("worker-%d done", id)
}

func printSummary(statsChan <-chan requestStat) {
	var durationsUs []float64
	successful := 0
	failed := 0

	for rs := range statsChan {
		if rs.ok {
			successful++
			durationsUs = append(durationsUs, float64(rs.duration.Microseconds()))
		} else {
			failed++
		}
	}

	total := successful + failed
	if total == 0 {
		log.Warn("No requests were sent")
		return
	}

	log.Infof("Sent %d requests: %d successful, %d failed (%.2f%% success)",
		total, successful, failed, float64(successful)/float64(total)*100)

	if len(durationsUs) == 0 {
		return
	}

	sort.Float64s(durationsUs)

	log.Infof("Latency (us): min=%.0f mean=%.0f p50=%.0f p95=%.0f p99=%.0f max=%.0f",
		durationsUs[0],
		stat.Mean(durationsUs, nil),
		stat.Quantile(0.50, stat.Empirical, durationsUs, nil),
		stat.Quantile(0.95, stat.Empirical, durationsUs, nil),
		stat.Quantile(0.99, stat.Empirical, durationsUs, nil),
		durationsUs[len(durationsUs)-1])
}
