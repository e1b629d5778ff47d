package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/devoter-xyz/devoter-contracts-sub000/lib/errors"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/network/api/resource"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/network/httputils"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/registry"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/vote"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/voting"
)

func (api NetworkHandlerAPI) GetItemsHandler(w http.ResponseWriter, r *http.Request) {
	options, err := httputils.NewPageQuery(r)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	var resources []resource.APIResource
	iterFunc, closeFunc := registry.GetItemsByCreated(api.storage, options.ListOptions())
	for {
		item, hasNext := iterFunc()
		if !hasNext {
			break
		}
		resources = append(resources, resource.NewItem(item))
	}
	closeFunc()

	list := resource.ResourceList{Resources: resources, SelfLink: options.SelfLink()}
	if err := httputils.WriteJSON(w, http.StatusOK, list); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (api NetworkHandlerAPI) GetItemHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	itemID := vars["id"]

	exists, err := registry.ExistsItem(api.storage, itemID)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}
	if !exists {
		httputils.WriteJSONError(w, errors.ItemDoesNotExist.Clone().SetData("item", itemID))
		return
	}

	item, err := registry.GetItem(api.storage, itemID)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	if err := httputils.WriteJSON(w, http.StatusOK, resource.NewItem(item)); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// GetItemStatsHandler reports the item's aggregate within the current
// window; a window that was never opened reports zeroes under sequence 0.
func (api NetworkHandlerAPI) GetItemStatsHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	itemID := vars["id"]

	exists, err := registry.ExistsItem(api.storage, itemID)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}
	if !exists {
		httputils.WriteJSONError(w, errors.ItemDoesNotExist.Clone().SetData("item", itemID))
		return
	}

	window, err := voting.GetWindow(api.storage)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	stats, err := vote.GetItemStats(api.storage, window.Sequence, itemID)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	if err := httputils.WriteJSON(w, http.StatusOK, resource.NewItemStats(stats)); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
