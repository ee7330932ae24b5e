package endpoints

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"metrics-intake/internal/domain"
	"metrics-intake/internal/util"

	"github.com/gorilla/mux"
)

type Query struct {
	Response APIResponse
	logger   *util.IntakeLogger
	store    domain.MetricStore
}

func (q *Query) Init(store domain.MetricStore, logger *util.IntakeLogger) {
	q.store = store
	q.logger = logger
}

func (q *Query) GetMetricsHandler(w http.ResponseWriter, r *http.Request) {

	if r.Method != http.MethodGet {
		q.logger.LogEvent(util.LOG_LEVEL_ERROR, "Method Not Allowed. Only GET requests are supported", http.StatusMethodNotAllowed)
		q.Response.WriteErrorResponseWithStatusCode(w, errors.New("method Not Allowed. Only GET requests are supported"), http.StatusMethodNotAllowed)
		return
	}

	routeParamValue := mux.Vars(r)

	key := routeParamValue["key"]
	if key == "" {
		q.logger.LogEvent(util.LOG_LEVEL_ERROR, "Missing key in URL")
		q.Response.WriteErrorResponseWithStatusCode(w, ErrInvalidParameters, http.StatusBadRequest)
		return
	}

	limitStr := routeParamValue["limit"]
	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		q.logger.LogEvent(util.LOG_LEVEL_ERROR, "While getting limit from URL. Err - ", err)
		q.Response.WriteErrorResponseWithStatusCode(w, ErrInvalidParameters, http.StatusBadRequest)
		return
	}

	offsetStr := routeParamValue["offset"]
	offset, err := strconv.Atoi(offsetStr)
	if err != nil {
		q.logger.LogEvent(util.LOG_LEVEL_ERROR, "While getting offset from URL. Err - ", err)
		q.Response.WriteErrorResponseWithStatusCode(w, ErrInvalidParameters, http.StatusBadRequest)
		return
	}

	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	fetchedMetrics, err := q.store.GetMetrics(r.Context(), key, limit, offset)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			q.logger.LogEvent(util.LOG_LEVEL_WARN, "Context cancelled")
			q.Response.WriteErrorResponseWithStatusCode(w, ErrRequestCancelled, http.StatusRequestTimeout)
			return
		}
		q.logger.LogEvent(util.LOG_LEVEL_ERROR, "Occured while GetMetrics(). Err - ", err)
		q.Response.WriteErrorResponseWithStatusCode(w, err, http.StatusInternalServerError)
		return
	}

	if len(fetchedMetrics) == 0 {
		q.logger.LogEvent(util.LOG_LEVEL_WARN, "No records for key ", key)
		q.Response.WriteErrorResponseWithStatusCode(w, ErrNoMetricsAvailable, http.StatusNotFound)
		return
	}

	q.Response.WriteResultResponse(w, fetchedMetrics)
}
