package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/devoter-xyz/devoter-contracts-sub000/lib/network/api/resource"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/network/httputils"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/vote"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/voting"
)

func (api NetworkHandlerAPI) GetAccountVotesHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	address := vars["address"]

	options, err := httputils.NewPageQuery(r)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	window, err := voting.GetWindow(api.storage)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	records, err := vote.GetRecordsByAccount(api.storage, window.Sequence, address, options.ListOptions())
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	var resources []resource.APIResource
	for _, record := range records {
		resources = append(resources, resource.NewVote(record))
	}

	list := resource.ResourceList{Resources: resources, SelfLink: options.SelfLink()}
	if err := httputils.WriteJSON(w, http.StatusOK, list); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (api NetworkHandlerAPI) GetAccountWithdrawalsHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	address := vars["address"]

	options, err := httputils.NewPageQuery(r)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	withdrawals, err := vote.GetWithdrawalsByAccount(api.storage, address, options.ListOptions())
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	var resources []resource.APIResource
	for _, withdrawal := range withdrawals {
		resources = append(resources, resource.NewVoteWithdrawal(withdrawal))
	}

	list := resource.ResourceList{Resources: resources, SelfLink: options.SelfLink()}
	if err := httputils.WriteJSON(w, http.StatusOK, list); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
