package handlers

import (
	"net/http"

	"github.com/agentstation/hangar/internal/server/filter"
	"github.com/agentstation/hangar/internal/server/response"
	"github.com/agentstation/hangar/pkg/alias"
	"github.com/agentstation/hangar/pkg/catalog"
	"github.com/agentstation/hangar/pkg/reference"
)

// ReferenceInfo describes the loaded reference data.
type ReferenceInfo struct {
	Version  reference.Version `json:"version"`
	Ships    int               `json:"ships"`
	Pilots   int               `json:"pilots"`
	Upgrades int               `json:"upgrades"`
	Bundles  int               `json:"bundles"`
	Aliases  int               `json:"aliases"`
}

// ItemDetail is an item with the bundles that contain it.
type ItemDetail struct {
	Item    *catalog.Item    `json:"item"`
	Sources []catalog.Source `json:"sources"`
}

// HandleReference handles GET /api/v1/reference.
// @Summary Reference data summary
// @Tags reference
// @Produce json
// @Success 200 {object} response.Response{data=ReferenceInfo}
// @Router /api/v1/reference [get].
func (h *Handlers) HandleReference(w http.ResponseWriter, _ *http.Request) {
	data, err := h.app.Reference()
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, ReferenceInfo{
		Version:  data.Version,
		Ships:    len(data.Store.ItemsOfKind(catalog.KindShip)),
		Pilots:   len(data.Store.ItemsOfKind(catalog.KindPilot)),
		Upgrades: len(data.Store.ItemsOfKind(catalog.KindUpgrade)),
		Bundles:  data.Manifest.Len(),
		Aliases:  data.Aliases.Len(),
	})
}

// HandleListItems handles GET /api/v1/items.
// @Summary List items
// @Description List ships, pilots and upgrades with optional filtering
// @Tags reference
// @Produce json
// @Param kind query string false "ship, pilot or upgrade"
// @Param faction query string false "Faction xws"
// @Param ship query string false "Ship xws (pilots)"
// @Param slot query string false "Upgrade slot"
// @Param name_contains query string false "Substring of name or xws"
// @Param limit query int false "Maximum results" default(100)
// @Param offset query int false "Results to skip" default(0)
// @Success 200 {object} response.Response{data=ListResponse[catalog.Item]}
// @Failure 400 {object} response.Response{error=response.Error}
// @Router /api/v1/items [get].
func (h *Handlers) HandleListItems(w http.ResponseWriter, r *http.Request) {
	f, err := filter.ParseItemFilter(r)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	data, err := h.app.Reference()
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	matched := f.Apply(data.Store.Items())
	response.OK(w, ListResponse[*catalog.Item]{
		Items:  filter.Paginate(matched, f.Page),
		Count:  len(matched),
		Limit:  f.Limit,
		Offset: f.Offset,
	})
}

// HandleGetItem handles GET /api/v1/items/{kind}/{xws}.
// @Summary Get item
// @Description Get one item and the bundles that contain it
// @Tags reference
// @Produce json
// @Param kind path string true "ship, pilot or upgrade"
// @Param xws path string true "Canonical xws id"
// @Success 200 {object} response.Response{data=ItemDetail}
// @Failure 400 {object} response.Response{error=response.Error}
// @Failure 404 {object} response.Response{error=response.Error}
// @Router /api/v1/items/{kind}/{xws} [get].
func (h *Handlers) HandleGetItem(w http.ResponseWriter, r *http.Request) {
	kind, err := catalog.ParseKind(r.PathValue("kind"))
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	data, err := h.app.Reference()
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	id := catalog.NewItemID(kind, r.PathValue("xws"))
	item, err := data.Store.ItemByID(id)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	sources := data.Manifest.Sources(id)
	if sources == nil {
		sources = []catalog.Source{}
	}
	response.OK(w, ItemDetail{Item: item, Sources: sources})
}

// HandleListAliases handles GET /api/v1/aliases.
func (h *Handlers) HandleListAliases(w http.ResponseWriter, r *http.Request) {
	var target catalog.Target
	if t := r.URL.Query().Get("target"); t != "" {
		var err error
		if target, err = catalog.ParseTarget(t); err != nil {
			response.ErrorFromType(w, err)
			return
		}
	}
	page, err := filter.ParsePage(r)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	data, err := h.app.Reference()
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	var matched []alias.Entry
	for _, e := range data.Aliases.Entries() {
		if target == "" || e.Target == target {
			matched = append(matched, e)
		}
	}
	response.OK(w, ListResponse[alias.Entry]{
		Items:  filter.Paginate(matched, page),
		Count:  len(matched),
		Limit:  page.Limit,
		Offset: page.Offset,
	})
}
