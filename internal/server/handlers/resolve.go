package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/agentstation/hangar/internal/server/response"
	"github.com/agentstation/hangar/pkg/catalog"
	"github.com/agentstation/hangar/pkg/errors"
)

// ResolveRequest is the body of POST /api/v1/resolve.
type ResolveRequest struct {
	Name   string `json:"name"`
	Target string `json:"target"`
}

// HandleResolve handles POST /api/v1/resolve.
// @Summary Resolve a name
// @Description Resolve one raw name to a canonical id the way collection entries are resolved
// @Tags resolve
// @Accept json
// @Produce json
// @Param request body ResolveRequest true "Name and target (bundle, ship, pilot or upgrade)"
// @Success 200 {object} response.Response{data=alias.Resolution}
// @Failure 400 {object} response.Response{error=response.Error}
// @Router /api/v1/resolve [post].
func (h *Handlers) HandleResolve(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	var req ResolveRequest
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		response.ErrorFromType(w, errors.WrapParse("json", "", err))
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		response.ErrorFromType(w, errors.NewValidationError("name", req.Name, "name is required"))
		return
	}
	target, err := catalog.ParseTarget(req.Target)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	data, err := h.app.Reference()
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	res := data.Resolver.Resolve(req.Name, target)

	h.logger.Debug().
		Str("raw", req.Name).
		Str("target", target.String()).
		Str("status", string(res.Status)).
		Str("id", res.ID()).
		Msg("Resolved name")
	response.OK(w, res)
}

// readBody reads the whole request body. On failure it writes the error
// response and returns false.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			response.JSON(w, http.StatusRequestEntityTooLarge, response.Fail(
				"PAYLOAD_TOO_LARGE", "Request body too large", err.Error()))
			return nil, false
		}
		response.BadRequest(w, "Could not read request body", err.Error())
		return nil, false
	}
	return body, true
}
