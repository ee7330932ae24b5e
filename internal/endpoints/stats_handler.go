package endpoints

import (
	"errors"
	"net/http"

	"metrics-intake/internal/latency"
	"metrics-intake/internal/util"
)

// Stats exposes the structured latency export so harnesses don't have to
// scrape stdout for timing data.
type Stats struct {
	Response APIResponse
	logger   *util.IntakeLogger
	tracker  *latency.Tracker
}

func (s *Stats) Init(tracker *latency.Tracker, logger *util.IntakeLogger) {
	s.tracker = tracker
	s.logger = logger
}

func (s *Stats) GetStatsHandler(w http.ResponseWriter, r *http.Request) {

	if r.Method != http.MethodGet {
		s.logger.LogEvent(util.LOG_LEVEL_ERROR, "Method Not Allowed. Only GET requests are supported", http.StatusMethodNotAllowed)
		s.Response.WriteErrorResponseWithStatusCode(w, errors.New("method Not Allowed. Only GET requests are supported"), http.StatusMethodNotAllowed)
		return
	}

	s.Response.WriteResultResponse(w, s.tracker.Snapshot())
}
