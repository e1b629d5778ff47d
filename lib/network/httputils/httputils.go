package httputils

import (
	"net/http"

	"github.com/devoter-xyz/devoter-contracts-sub000/lib/errors"
)

// IsEventStream checks request header accept is text/event-stream
func IsEventStream(r *http.Request) bool {
	return r.Header.Get("Accept") == "text/event-stream"
}

var ErrorsToStatus = map[uint]int{
	errors.StorageRecordDoesNotExist.Code: http.StatusNotFound,
	errors.NotAuthorized.Code:             http.StatusForbidden,
	errors.EscrowDoesNotExist.Code:        http.StatusNotFound,
	errors.ItemDoesNotExist.Code:          http.StatusNotFound,
	errors.NoVoteForItem.Code:             http.StatusNotFound,
}

func StatusCode(err error) int {
	if e, ok := err.(*errors.Error); ok {
		if status, found := ErrorsToStatus[e.Code]; found {
			return status
		}
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
