package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/devoter-xyz/devoter-contracts-sub000/lib/errors"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/escrow"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/network/api/resource"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/network/httputils"
)

func (api NetworkHandlerAPI) GetEscrowHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	address := vars["address"]

	exists, err := escrow.ExistsRecord(api.storage, address)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}
	if !exists {
		httputils.WriteJSONError(w, errors.EscrowDoesNotExist.Clone().SetData("address", address))
		return
	}

	record, err := escrow.GetRecord(api.storage, address)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	if err := httputils.WriteJSON(w, http.StatusOK, resource.NewEscrow(record)); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
