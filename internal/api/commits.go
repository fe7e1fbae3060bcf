package api

import (
	"encoding/json"
	"net/http"

	"github.com/starford/folio/internal/models"
)

// ListCommits handles GET /api/projects/commits.
//
//	@Summary	List a project's commits, oldest first
//	@Tags		commits
//	@Produce	json
//	@Param		path	query	string	true	"Project path"
//	@Success	200	{object}	map[string][]models.Commit
//	@Security	BearerAuth
//	@Router		/projects/commits [get]
func (h *Handler) ListCommits(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	commits, err := h.svc.ListCommits(r.Context(), path)
	if err != nil {
		writeError(w, "list commits", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]models.Commit{"commits": commits})
}

// AppendCommit handles POST /api/projects/commits.
//
//	@Summary	Snapshot content as the next commit
//	@Tags		commits
//	@Accept		json
//	@Produce	json
//	@Param		path	query	string	true	"Project path"
//	@Success	201	{object}	models.Commit
//	@Security	BearerAuth
//	@Router		/projects/commits [post]
func (h *Handler) AppendCommit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 50<<20)
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	commit, err := h.svc.AppendCommit(r.Context(), path, req.Content)
	if err != nil {
		writeError(w, "append commit", err)
		return
	}
	writeJSON(w, http.StatusCreated, commit)
}

// SaveCommits handles PUT /api/projects/commits (full-log overwrite).
func (h *Handler) SaveCommits(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 100<<20)
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	var req struct {
		Commits []models.Commit `json:"commits"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := h.svc.SaveCommits(r.Context(), path, req.Commits); err != nil {
		writeError(w, "save commits", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteCommit handles DELETE /api/projects/commits.
//
//	@Summary	Delete one commit by id without renumbering the rest
//	@Tags		commits
//	@Produce	json
//	@Param		path	query	string	true	"Project path"
//	@Param		id		query	string	true	"Commit id"
//	@Success	200	{object}	map[string]bool
//	@Security	BearerAuth
//	@Router		/projects/commits [delete]
func (h *Handler) DeleteCommit(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	id := r.URL.Query().Get("id")
	if path == "" || id == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path and id are required"))
		return
	}
	found, err := h.svc.DeleteCommit(r.Context(), path, id)
	if err != nil {
		writeError(w, "delete commit", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": found})
}

// ClearCommits handles DELETE /api/projects/commits/all.
func (h *Handler) ClearCommits(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	if err := h.svc.ClearCommits(r.Context(), path); err != nil {
		writeError(w, "clear commits", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
