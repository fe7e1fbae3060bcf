package api

import (
	"encoding/json"
	"net/http"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/models"
)

// ValidateCreateRequest is the request body for creation validation.
type ValidateCreateRequest struct {
	Parent string          `json:"parent" validate:"required"`
	Name   string          `json:"name" validate:"required"`
	Type   models.NodeType `json:"type" validate:"required"`
}

// ValidateCreateResponse carries a structured validation verdict.
type ValidateCreateResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// NodeType handles GET /api/hierarchy/node-type.
//
//	@Summary	Classify a path as root, repository, or project
//	@Tags		hierarchy
//	@Produce	json
//	@Param		path	query	string	true	"Absolute path"
//	@Success	200		{object}	map[string]string
//	@Security	BearerAuth
//	@Router		/hierarchy/node-type [get]
func (h *Handler) NodeType(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	nt := h.svc.NodeType(r.Context(), path)
	writeJSON(w, http.StatusOK, map[string]models.NodeType{"type": nt})
}

// ValidateCreate handles POST /api/hierarchy/validate.
//
//	@Summary	Validate a node creation request without touching the disk
//	@Tags		hierarchy
//	@Accept		json
//	@Produce	json
//	@Param		body	body	ValidateCreateRequest	true	"Creation request"
//	@Success	200		{object}	ValidateCreateResponse
//	@Security	BearerAuth
//	@Router		/hierarchy/validate [post]
func (h *Handler) ValidateCreate(w http.ResponseWriter, r *http.Request) {
	var req ValidateCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	err := h.svc.ValidateCreate(r.Context(), req.Parent, req.Name, req.Type)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, ValidateCreateResponse{Valid: true})
	case apperr.IsValidation(err):
		writeJSON(w, http.StatusOK, ValidateCreateResponse{Valid: false, Error: err.Error()})
	default:
		writeError(w, "validate create", err)
	}
}

// CreateNode handles POST /api/hierarchy/nodes.
//
//	@Summary	Create a repository or project node
//	@Tags		hierarchy
//	@Accept		json
//	@Produce	json
//	@Param		body	body	ValidateCreateRequest	true	"Creation request"
//	@Success	201		{object}	models.Node
//	@Failure	400		{object}	errResponse
//	@Security	BearerAuth
//	@Router		/hierarchy/nodes [post]
func (h *Handler) CreateNode(w http.ResponseWriter, r *http.Request) {
	var req ValidateCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	node, err := h.svc.CreateNode(r.Context(), req.Parent, req.Name, req.Type)
	if err != nil {
		writeError(w, "create node", err)
		return
	}
	writeJSON(w, http.StatusCreated, node)
}

// HierarchyInfo handles GET /api/hierarchy/info.
//
//	@Summary	Check whether a path lies inside an existing repository or project
//	@Tags		hierarchy
//	@Produce	json
//	@Param		path	query	string	true	"Path to check"
//	@Success	200		{object}	models.HierarchyInfo
//	@Security	BearerAuth
//	@Router		/hierarchy/info [get]
func (h *Handler) HierarchyInfo(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	writeJSON(w, http.StatusOK, h.svc.HierarchyInfo(r.Context(), path))
}

// ListRepositories handles GET /api/repositories.
//
//	@Summary	List repositories under the collection root
//	@Tags		repositories
//	@Produce	json
//	@Success	200	{object}	map[string][]models.Node
//	@Security	BearerAuth
//	@Router		/repositories [get]
func (h *Handler) ListRepositories(w http.ResponseWriter, r *http.Request) {
	repos, err := h.svc.ListRepositories(r.Context())
	if err != nil {
		writeError(w, "list repositories", err)
		return
	}
	if repos == nil {
		repos = []models.Node{}
	}
	writeJSON(w, http.StatusOK, map[string][]models.Node{"repositories": repos})
}

// RenameRepository handles POST /api/repositories/rename.
//
//	@Summary	Rename a repository
//	@Tags		repositories
//	@Accept		json
//	@Produce	json
//	@Success	200	{object}	models.Node
//	@Security	BearerAuth
//	@Router		/repositories/rename [post]
func (h *Handler) RenameRepository(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path    string `json:"path"`
		NewName string `json:"newName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	node, err := h.svc.RenameRepository(r.Context(), req.Path, req.NewName)
	if err != nil {
		writeError(w, "rename repository", err)
		return
	}
	writeJSON(w, http.StatusOK, node)
}

// DeleteRepository handles DELETE /api/repositories.
//
//	@Summary	Delete a repository recursively
//	@Tags		repositories
//	@Param		path	query	string	true	"Repository path"
//	@Success	204		"Repository deleted"
//	@Security	BearerAuth
//	@Router		/repositories [delete]
func (h *Handler) DeleteRepository(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	if err := h.svc.DeleteRepository(r.Context(), path); err != nil {
		writeError(w, "delete repository", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
