package handlers

import (
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/agentstation/hangar/internal/server/cache"
	"github.com/agentstation/hangar/internal/server/response"
	"github.com/agentstation/hangar/pkg/collection"
	"github.com/agentstation/hangar/pkg/diagnostics"
	"github.com/agentstation/hangar/pkg/errors"
	"github.com/agentstation/hangar/pkg/inventory"
	"github.com/agentstation/hangar/pkg/logging"
)

// CacheHeader reports whether an inventory response came from the cache.
const CacheHeader = "X-Cache"

// InvalidEntry is a collection entry rejected before aggregation.
type InvalidEntry struct {
	Field   string `json:"field"`
	Value   any    `json:"value"`
	Message string `json:"message"`
}

// InventoryResponse is the data of POST /api/v1/inventory.
type InventoryResponse struct {
	Reference   string                   `json:"reference"`
	Summary     inventory.Summary        `json:"summary"`
	Bundles     []inventory.OwnedBundle  `json:"bundles"`
	Lines       []inventory.Line         `json:"lines"`
	Diagnostics []diagnostics.Diagnostic `json:"diagnostics"`
	Invalid     []InvalidEntry           `json:"invalid"`
}

// HandleInventory handles POST /api/v1/inventory.
// @Summary Aggregate a collection
// @Description Expand owned bundles and loose items into per-item totals. The body is a native
// @Description collection (YAML, JSON or TOML) or a YASB export. Unresolved names are reported as
// @Description diagnostics; entries with invalid counts are listed under "invalid".
// @Tags inventory
// @Accept json
// @Accept application/x-yaml
// @Produce json
// @Param format query string false "yaml, json, toml, yasb or auto" default(auto)
// @Param strict query bool false "Respond 422 when any entry is invalid or unresolved"
// @Success 200 {object} response.Response{data=InventoryResponse}
// @Failure 400 {object} response.Response{error=response.Error}
// @Failure 413 {object} response.Response{error=response.Error}
// @Failure 422 {object} response.Response{data=InventoryResponse,error=response.Error}
// @Router /api/v1/inventory [post].
func (h *Handlers) HandleInventory(w http.ResponseWriter, r *http.Request) {
	format, err := requestFormat(r)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	strict := false
	if s := r.URL.Query().Get("strict"); s != "" {
		if strict, err = strconv.ParseBool(s); err != nil {
			response.ErrorFromType(w, errors.NewValidationError("strict", s, "must be a boolean"))
			return
		}
	}

	body, ok := readBody(w, r)
	if !ok {
		return
	}

	data, err := h.app.Reference()
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	logger := logging.FromContext(r.Context())
	key := cache.Key(fmt.Sprintf("inventory:%s:%s", data.Version, format), body)

	var resp *InventoryResponse
	if cached, found := h.cache.Get(key); found {
		resp = cached.(*InventoryResponse)
		w.Header().Set(CacheHeader, "HIT")
	} else {
		resp, err = h.aggregate(body, format)
		if err != nil {
			response.ErrorFromType(w, err)
			return
		}
		resp.Reference = data.Version.String()
		h.cache.Set(key, resp)
		w.Header().Set(CacheHeader, "MISS")
	}

	logger.Debug().
		Int("entries", resp.Summary.Entries).
		Int("lines", resp.Summary.Lines).
		Int("warnings", resp.Summary.Warnings).
		Int("invalid", len(resp.Invalid)).
		Msg("Aggregated collection")

	if strict && (len(resp.Invalid) > 0 || resp.Summary.Warnings > 0) {
		response.JSON(w, http.StatusUnprocessableEntity, response.Response{
			Data: resp,
			Error: &response.Error{
				Code:    "UNPROCESSABLE_ENTITY",
				Message: "Collection has invalid or unresolved entries",
				Details: fmt.Sprintf("%d invalid, %d unresolved", len(resp.Invalid), resp.Summary.Unresolved),
			},
		})
		return
	}
	response.OK(w, resp)
}

func (h *Handlers) aggregate(body []byte, format collection.Format) (*InventoryResponse, error) {
	raw, err := collection.DecodeRaw(body, format)
	if err != nil {
		return nil, err
	}

	// Invalid entries are reported; the valid remainder is still aggregated.
	in, err := collection.Parse(raw)
	invalid := []InvalidEntry{}
	var rejected collection.InvalidEntries
	if errors.As(err, &rejected) {
		for _, v := range rejected {
			invalid = append(invalid, InvalidEntry{Field: v.Field, Value: v.Value, Message: v.Message})
		}
	} else if err != nil {
		return nil, err
	}

	agg, err := h.app.Aggregator()
	if err != nil {
		return nil, err
	}
	result := agg.Aggregate(in)

	return &InventoryResponse{
		Summary:     result.Summary(),
		Bundles:     nonNil(result.Bundles),
		Lines:       nonNil(result.Lines),
		Diagnostics: nonNil(result.Diagnostics),
		Invalid:     invalid,
	}, nil
}

// requestFormat picks the collection format from ?format=, then the
// Content-Type, and falls back to detection.
func requestFormat(r *http.Request) (collection.Format, error) {
	if f := r.URL.Query().Get("format"); f != "" {
		return collection.ParseFormat(f)
	}
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return collection.FormatAuto, nil
	}
	switch mediaType {
	case "application/json":
		return collection.FormatJSON, nil
	case "application/yaml", "application/x-yaml", "text/yaml":
		return collection.FormatYAML, nil
	case "application/toml":
		return collection.FormatTOML, nil
	default:
		return collection.FormatAuto, nil
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
