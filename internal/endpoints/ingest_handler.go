package endpoints

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"metrics-intake/internal/domain"
	"metrics-intake/internal/latency"
	"metrics-intake/internal/util"
)

// ingestRequest is the loosely-typed wire shape of a submission. Value and
// OccurredAt stay untyped until validation so that a wrong-typed field can be
// told apart from a missing one.
type ingestRequest struct {
	Key        *string     `json:"key"`
	Value      interface{} `json:"value"`
	OccurredAt interface{} `json:"occurred_at"`
}

// IngestResult is the acknowledgement payload: the stored record plus the
// measured receipt-to-ingestion latency in microseconds.
type IngestResult struct {
	Record domain.MetricRecord `json:"record"`
	DurUs  int64               `json:"dur_us"`
}

type Ingest struct {
	Response APIResponse
	logger   *util.IntakeLogger
	store    domain.MetricStore
	tracker  *latency.Tracker
}

func (i *Ingest) Init(store domain.MetricStore, logger *util.IntakeLogger, tracker *latency.Tracker) {
	i.store = store
	i.logger = logger
	i.tracker = tracker
}

func (i *Ingest) IngestHandler(w http.ResponseWriter, r *http.Request) {

	received := time.Now()

	if r.Method != http.MethodPost {
		i.logger.LogEvent(util.LOG_LEVEL_ERROR, "Method Not Allowed. Only POST requests are supported", http.StatusMethodNotAllowed)
		i.Response.WriteErrorResponseWithStatusCode(w, errors.New("method Not Allowed. Only POST requests are supported"), http.StatusMethodNotAllowed)
		return
	}

	var reqBody ingestRequest

	err := json.NewDecoder(r.Body).Decode(&reqBody)
	if err != nil {
		i.logger.LogEvent(util.LOG_LEVEL_DEBUG, "Occured while unmarshalling JSON Body. Err -", err)
		i.Response.WriteErrorResponseWithStatusCode(w, ErrMalformedPayload, http.StatusBadRequest)
		return
	}

	record, err := validateRecord(reqBody)
	if err != nil {
		i.logger.LogEvent(util.LOG_LEVEL_DEBUG, "Submission failed validation. Err -", err)
		i.Response.WriteErrorResponseWithStatusCode(w, err, http.StatusBadRequest)
		return
	}

	err = i.store.StoreMetric(r.Context(), record)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			i.logger.LogEvent(util.LOG_LEVEL_WARN, "Context cancelled before ingestion")
			i.Response.WriteErrorResponseWithStatusCode(w, ErrRequestCancelled, http.StatusRequestTimeout)
			return
		}
		i.logger.LogEvent(util.LOG_LEVEL_ERROR, "Occured while StoreMetric(). Err - ", err)
		i.Response.WriteErrorResponseWithStatusCode(w, ErrIngestionFailure, http.StatusInternalServerError)
		return
	}

	elapsed := time.Since(received)
	durUs := elapsed.Microseconds()

	i.tracker.Observe(elapsed)
	i.logger.LogEvent(util.LOG_LEVEL_INFO, fmt.Sprintf("dur: %d us", durUs))

	i.Response.WriteResultResponse(w, IngestResult{Record: record, DurUs: durUs})
}

// validateRecord turns a decoded submission into a typed MetricRecord or
// fails with ErrMalformedPayload. Accepted occurred_at forms are a numeric
// string (the harness wire format) and an integral JSON number.
func validateRecord(req ingestRequest) (domain.MetricRecord, error) {
	var record domain.MetricRecord

	if req.Key == nil || *req.Key == "" {
		return record, fmt.Errorf("%w: key is required", ErrMalformedPayload)
	}
	if len(*req.Key) > domain.MaxKeyBytes {
		return record, fmt.Errorf("%w: key exceeds %d bytes", ErrMalformedPayload, domain.MaxKeyBytes)
	}

	value, ok := req.Value.(float64)
	if !ok {
		return record, fmt.Errorf("%w: value must be a number", ErrMalformedPayload)
	}

	occurredAt, err := parseOccurredAt(req.OccurredAt)
	if err != nil {
		return record, err
	}

	record.Key = *req.Key
	record.Value = value
	record.OccurredAt = occurredAt
	return record, nil
}

func parseOccurredAt(raw interface{}) (int64, error) {
	switch v := raw.(type) {
	case string:
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: occurred_at must be an integer-parseable string", ErrMalformedPayload)
		}
		return parsed, nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%w: occurred_at must be an integer timestamp", ErrMalformedPayload)
		}
		return int64(v), nil
	default:
		return 0, fmt.Errorf("%w: occurred_at is required", ErrMalformedPayload)
	}
}
