package api

import (
	"encoding/json"
	"net/http"

	"github.com/starford/folio/internal/diffmerge"
)

// DiffRequest holds the two snapshots to compare.
type DiffRequest struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// SegmentsRequest carries a segment sequence back for a stateless
// transformation (toggle, accept-all, reject-all, materialize).
type SegmentsRequest struct {
	Segments []diffmerge.Segment `json:"segments"`
	ID       string              `json:"id,omitempty"`
}

func decodeSegments(w http.ResponseWriter, r *http.Request) (*SegmentsRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, 100<<20)
	var req SegmentsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return nil, false
	}
	return &req, true
}

func writeSegments(w http.ResponseWriter, segs []diffmerge.Segment) {
	if segs == nil {
		segs = []diffmerge.Segment{}
	}
	writeJSON(w, http.StatusOK, map[string][]diffmerge.Segment{"segments": segs})
}

// ComputeDiff handles POST /api/diff.
//
//	@Summary	Compare two snapshots into toggleable segments
//	@Tags		diff
//	@Accept		json
//	@Produce	json
//	@Param		body	body	DiffRequest	true	"Snapshots to compare"
//	@Success	200		{object}	map[string][]diffmerge.Segment
//	@Security	BearerAuth
//	@Router		/diff [post]
func (h *Handler) ComputeDiff(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 100<<20)
	var req DiffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	writeSegments(w, diffmerge.Diff(req.Source, req.Target))
}

// ToggleSegment handles POST /api/diff/toggle.
func (h *Handler) ToggleSegment(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSegments(w, r)
	if !ok {
		return
	}
	if req.ID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("id is required"))
		return
	}
	writeSegments(w, diffmerge.Toggle(req.Segments, req.ID))
}

// AcceptAll handles POST /api/diff/accept-all.
func (h *Handler) AcceptAll(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSegments(w, r)
	if !ok {
		return
	}
	writeSegments(w, diffmerge.AcceptAll(req.Segments))
}

// RejectAll handles POST /api/diff/reject-all.
func (h *Handler) RejectAll(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSegments(w, r)
	if !ok {
		return
	}
	writeSegments(w, diffmerge.RejectAll(req.Segments))
}

// Materialize handles POST /api/diff/materialize.
//
//	@Summary	Concatenate the included segments into the next draft
//	@Tags		diff
//	@Accept		json
//	@Produce	json
//	@Success	200	{object}	map[string]string
//	@Security	BearerAuth
//	@Router		/diff/materialize [post]
func (h *Handler) Materialize(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSegments(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"content": diffmerge.Materialize(req.Segments)})
}
