package handlers

import (
	"net/http"

	"github.com/agentstation/hangar/internal/server/filter"
	"github.com/agentstation/hangar/internal/server/response"
	"github.com/agentstation/hangar/pkg/catalog"
)

// BundleDetail is a bundle with its total item count.
type BundleDetail struct {
	*catalog.Bundle
	ItemCount int `json:"item_count"`
}

func detail(b *catalog.Bundle) BundleDetail {
	return BundleDetail{Bundle: b, ItemCount: b.ItemCount()}
}

// HandleListBundles handles GET /api/v1/bundles.
// @Summary List bundles
// @Description List products with optional filtering by wave, name or contained item
// @Tags reference
// @Produce json
// @Param wave query int false "Release wave"
// @Param name_contains query string false "Substring of name or SKU"
// @Param contains query string false "Item id (kind:xws) the bundle must contain"
// @Success 200 {object} response.Response{data=ListResponse[BundleDetail]}
// @Failure 400 {object} response.Response{error=response.Error}
// @Router /api/v1/bundles [get].
func (h *Handlers) HandleListBundles(w http.ResponseWriter, r *http.Request) {
	f, err := filter.ParseBundleFilter(r)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	data, err := h.app.Reference()
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	matched := f.Apply(data.Manifest.Bundles())
	page := filter.Paginate(matched, f.Page)
	details := make([]BundleDetail, len(page))
	for i, b := range page {
		details[i] = detail(b)
	}
	response.OK(w, ListResponse[BundleDetail]{
		Items:  details,
		Count:  len(matched),
		Limit:  f.Limit,
		Offset: f.Offset,
	})
}

// HandleGetBundle handles GET /api/v1/bundles/{sku}.
// @Summary Get bundle
// @Tags reference
// @Produce json
// @Param sku path string true "Bundle SKU"
// @Success 200 {object} response.Response{data=BundleDetail}
// @Failure 404 {object} response.Response{error=response.Error}
// @Router /api/v1/bundles/{sku} [get].
func (h *Handlers) HandleGetBundle(w http.ResponseWriter, r *http.Request) {
	data, err := h.app.Reference()
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	b, err := data.Manifest.BundleByID(r.PathValue("sku"))
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, detail(b))
}
