package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/devoter-xyz/devoter-contracts-sub000/lib/metrics"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/storage"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/voting"
)

// API Endpoint patterns
const (
	GetEscrowHandlerPattern             = "/escrows/{address}"
	GetItemsHandlerPattern              = "/items"
	GetItemHandlerPattern               = "/items/{id}"
	GetItemStatsHandlerPattern          = "/items/{id}/stats"
	GetAccountVotesHandlerPattern       = "/accounts/{address}/votes"
	GetAccountWithdrawalsHandlerPattern = "/accounts/{address}/withdrawals"
	GetVotingPeriodHandlerPattern       = "/voting-period"
)

// NetworkHandlerAPI serves the read side over HTTP; every handler works off
// the storage snapshot only and never mutates state.
type NetworkHandlerAPI struct {
	storage *storage.LevelDBBackend
	period  *voting.Period
}

func NewNetworkHandlerAPI(st *storage.LevelDBBackend, period *voting.Period) *NetworkHandlerAPI {
	return &NetworkHandlerAPI{
		storage: st,
		period:  period,
	}
}

func (api NetworkHandlerAPI) AddAPIHandlers(router *mux.Router) {
	router.HandleFunc(GetEscrowHandlerPattern, api.GetEscrowHandler).Methods("GET")
	router.HandleFunc(GetItemsHandlerPattern, api.GetItemsHandler).Methods("GET")
	router.HandleFunc(GetItemHandlerPattern, api.GetItemHandler).Methods("GET")
	router.HandleFunc(GetItemStatsHandlerPattern, api.GetItemStatsHandler).Methods("GET")
	router.HandleFunc(GetAccountVotesHandlerPattern, api.GetAccountVotesHandler).Methods("GET")
	router.HandleFunc(GetAccountWithdrawalsHandlerPattern, api.GetAccountWithdrawalsHandler).Methods("GET")
	router.HandleFunc(GetVotingPeriodHandlerPattern, api.GetVotingPeriodHandler).Methods("GET")
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// MeasureAPIRequests reports request counts and latencies per endpoint.
func MeasureAPIRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		begin := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		endpoint := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				endpoint = tpl
			}
		}

		labels := []string{
			"endpoint", endpoint,
			"method", r.Method,
			"status", strconv.Itoa(recorder.status),
		}
		metrics.API.RequestsTotal.With(labels...).Add(1)
		if recorder.status >= 400 {
			metrics.API.RequestErrorsTotal.With(labels...).Add(1)
		}
		metrics.API.RequestDurationSeconds.With(labels...).Observe(time.Since(begin).Seconds())
	})
}
