package api

import (
	"net/http"
	"strconv"

	"github.com/starford/folio/internal/lexindex"
)

func repoParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	repo := r.URL.Query().Get("repository")
	if repo == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("repository is required"))
		return "", false
	}
	return repo, true
}

// BuildIndex handles POST /api/index/build.
//
//	@Summary	Rebuild the lexical index for a repository
//	@Tags		index
//	@Produce	json
//	@Param		repository	query	string	true	"Repository path"
//	@Success	200	{object}	lexindex.IndexStats
//	@Security	BearerAuth
//	@Router		/index/build [post]
func (h *Handler) BuildIndex(w http.ResponseWriter, r *http.Request) {
	repo, ok := repoParam(w, r)
	if !ok {
		return
	}
	stats, err := h.svc.BuildIndex(r.Context(), repo)
	if err != nil {
		writeError(w, "build index", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// IndexStatus handles GET /api/index/status.
func (h *Handler) IndexStatus(w http.ResponseWriter, r *http.Request) {
	repo, ok := repoParam(w, r)
	if !ok {
		return
	}
	stats, err := h.svc.IndexStatus(r.Context(), repo)
	if err != nil {
		writeError(w, "index status", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// ClearIndex handles DELETE /api/index.
func (h *Handler) ClearIndex(w http.ResponseWriter, r *http.Request) {
	repo, ok := repoParam(w, r)
	if !ok {
		return
	}
	cleared, err := h.svc.ClearIndex(r.Context(), repo)
	if err != nil {
		writeError(w, "clear index", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"cleared": cleared})
}

// QueryIndex handles GET /api/index/query.
//
//	@Summary	Rank chunks of a repository against a query
//	@Tags		index
//	@Produce	json
//	@Param		repository	query	string	true	"Repository path"
//	@Param		q			query	string	true	"Query string"
//	@Param		top_k		query	int		false	"Max results"
//	@Success	200	{object}	map[string][]lexindex.ChunkHit
//	@Security	BearerAuth
//	@Router		/index/query [get]
func (h *Handler) QueryIndex(w http.ResponseWriter, r *http.Request) {
	repo, ok := repoParam(w, r)
	if !ok {
		return
	}
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	topK, _ := strconv.Atoi(r.URL.Query().Get("top_k"))
	hits, err := h.svc.QueryIndex(r.Context(), repo, q, topK)
	if err != nil {
		writeError(w, "query index", err)
		return
	}
	if hits == nil {
		hits = []lexindex.ChunkHit{}
	}
	writeJSON(w, http.StatusOK, map[string][]lexindex.ChunkHit{"results": hits})
}

// FindRedundancy handles GET /api/index/redundancy.
//
//	@Summary	Score all source pairs of a repository for near-duplicates
//	@Tags		index
//	@Produce	json
//	@Param		repository	query	string	true	"Repository path"
//	@Param		threshold	query	number	false	"Minimum similarity (default 0.8)"
//	@Param		top_k		query	int		false	"Max pairs"
//	@Success	200	{object}	lexindex.RedundancyReport
//	@Security	BearerAuth
//	@Router		/index/redundancy [get]
func (h *Handler) FindRedundancy(w http.ResponseWriter, r *http.Request) {
	repo, ok := repoParam(w, r)
	if !ok {
		return
	}
	threshold := 0.8
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			threshold = v
		}
	}
	topK, _ := strconv.Atoi(r.URL.Query().Get("top_k"))
	report, err := h.svc.FindRedundancy(r.Context(), repo, threshold, topK)
	if err != nil {
		writeError(w, "find redundancy", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
