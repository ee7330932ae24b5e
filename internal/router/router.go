package router

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"metrics-intake/internal/domain"
	"metrics-intake/internal/endpoints"
	"metrics-intake/internal/latency"
	"metrics-intake/internal/util"
)

func NewRouter(metricStore domain.MetricStore, tracker *latency.Tracker, webSlogger *util.IntakeLogger) *mux.Router {
	r := mux.NewRouter()

	addRoutes(r, metricStore, tracker, webSlogger)

	r.Use(loggingMiddleware(webSlogger))

	return r
}

func addRoutes(r *mux.Router, metricStore domain.MetricStore, tracker *latency.Tracker, webSlogger *util.IntakeLogger) {

	ingestHandler := &endpoints.Ingest{}
	ingestHandler.Init(metricStore, webSlogger, tracker)

	queryHandler := &endpoints.Query{}
	queryHandler.Init(metricStore, webSlogger)

	statsHandler := &endpoints.Stats{}
	statsHandler.Init(tracker, webSlogger)

	r.HandleFunc("/custom_metrics", ingestHandler.IngestHandler).Methods("POST")
	r.HandleFunc("/custom_metrics/{key}/{limit}/{offset}", queryHandler.GetMetricsHandler).Methods("GET")
	r.HandleFunc("/stats", statsHandler.GetStatsHandler).Methods("GET")

	r.NotFoundHandler = unknownRouteHandler(webSlogger)
}

// Any path outside the registered routes is rejected with a structured
// UNKNOWN_ROUTE body and never touches the store.
func unknownRouteHandler(logger *util.IntakeLogger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.LogEvent(util.LOG_LEVEL_DEBUG, fmt.Sprintf("Unknown route: %s %s", r.Method, r.RequestURI))
		var res endpoints.APIResponse
		res.WriteErrorResponseWithStatusCode(w, endpoints.ErrUnknownRoute, http.StatusNotFound)
	})
}

func NewServer(addr string, handler http.Handler, requestTimeout time.Duration) *http.Server {
	writeTimeout := 10 * time.Second
	if requestTimeout > 0 {
		writeTimeout = requestTimeout
	}

	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  120 * time.Second,
	}
}

func Run(addr string, requestTimeout time.Duration, metricStore domain.MetricStore, tracker *latency.Tracker, webSlogger *util.IntakeLogger) {
	appRouter := NewRouter(metricStore, tracker, webSlogger)

	server := NewServer(addr, appRouter, requestTimeout)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-quit
		println()
		log.Println("Shutting down server...")

		err := gracefulShutdown(server, 25*time.Second)

		if err != nil {
			log.Printf("Server stopped with error: %s", err.Error())
		} else {
			log.Println("Server stopped gracefully.")
		}

		os.Exit(0)
	}()

	log.Printf("Listening on %s", server.Addr)
	log.Fatal(server.ListenAndServe())
}

func gracefulShutdown(server *http.Server, maximumTime time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), maximumTime)
	defer cancel()

	return server.Shutdown(ctx)
}

func loggingMiddleware(logger *util.IntakeLogger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := uuid.NewString()
			w.Header().Set("X-Request-Id", requestID)
			logger.LogEvent(util.LOG_LEVEL_INFO, fmt.Sprintf("Request: %s %s request_id=%s", r.Method, r.RequestURI, requestID))
			next.ServeHTTP(w, r)
		})
	}
}
