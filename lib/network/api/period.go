package api

import (
	"net/http"

	"github.com/devoter-xyz/devoter-contracts-sub000/lib/network/api/resource"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/network/httputils"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/voting"
)

func (api NetworkHandlerAPI) GetVotingPeriodHandler(w http.ResponseWriter, r *http.Request) {
	window, err := voting.GetWindow(api.storage)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	isOpen, remaining, err := api.period.Status(api.storage)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	if err := httputils.WriteJSON(w, http.StatusOK, resource.NewVotingPeriod(window, isOpen, remaining)); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
