package api

import (
	"encoding/json"
	"net/http"

	"github.com/starford/folio/internal/models"
)

// CreateProjectRequest is the request body for creating a project.
type CreateProjectRequest struct {
	Repository string `json:"repository" validate:"required"`
	Name       string `json:"name" validate:"required"`
}

// ListProjects handles GET /api/projects.
//
//	@Summary	List the projects of a repository
//	@Tags		projects
//	@Produce	json
//	@Param		repository	query	string	true	"Repository path"
//	@Success	200	{object}	map[string][]models.ProjectSummary
//	@Security	BearerAuth
//	@Router		/projects [get]
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	repo := r.URL.Query().Get("repository")
	if repo == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("repository is required"))
		return
	}
	projects, err := h.svc.ScanProjects(r.Context(), repo)
	if err != nil {
		writeError(w, "list projects", err)
		return
	}
	if projects == nil {
		projects = []models.ProjectSummary{}
	}
	writeJSON(w, http.StatusOK, map[string][]models.ProjectSummary{"projects": projects})
}

// CreateProject handles POST /api/projects.
//
//	@Summary	Create a project inside a repository
//	@Tags		projects
//	@Accept		json
//	@Produce	json
//	@Param		body	body	CreateProjectRequest	true	"Project to create"
//	@Success	201		{object}	models.Node
//	@Security	BearerAuth
//	@Router		/projects [post]
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	node, err := h.svc.CreateProject(r.Context(), req.Repository, req.Name)
	if err != nil {
		writeError(w, "create project", err)
		return
	}
	writeJSON(w, http.StatusCreated, node)
}

// RenameProject handles POST /api/projects/rename.
func (h *Handler) RenameProject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path    string `json:"path"`
		NewName string `json:"newName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	sum, err := h.svc.RenameProject(r.Context(), req.Path, req.NewName)
	if err != nil {
		writeError(w, "rename project", err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// MoveProject handles POST /api/projects/move.
func (h *Handler) MoveProject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path             string `json:"path"`
		TargetRepository string `json:"targetRepository"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	sum, err := h.svc.MoveProject(r.Context(), req.Path, req.TargetRepository)
	if err != nil {
		writeError(w, "move project", err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// DeleteProject handles DELETE /api/projects.
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	if err := h.svc.DeleteProject(r.Context(), path); err != nil {
		writeError(w, "delete project", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LoadContent handles GET /api/projects/content.
//
//	@Summary	Load the working draft of a project
//	@Tags		projects
//	@Produce	json
//	@Param		path	query	string	true	"Project path"
//	@Success	200	{object}	map[string]string
//	@Security	BearerAuth
//	@Router		/projects/content [get]
func (h *Handler) LoadContent(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	content, err := h.svc.LoadContent(r.Context(), path)
	if err != nil {
		writeError(w, "load content", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"content": content})
}

// SaveContent handles PUT /api/projects/content.
//
//	@Summary	Overwrite the working draft of a project
//	@Tags		projects
//	@Accept		json
//	@Param		path	query	string	true	"Project path"
//	@Success	204		"Draft saved"
//	@Security	BearerAuth
//	@Router		/projects/content [put]
func (h *Handler) SaveContent(w http.ResponseWriter, r *http.Request) {
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
	if err := h.svc.SaveContent(r.Context(), path, req.Content); err != nil {
		writeError(w, "save content", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LoadGraph handles GET /api/projects/graph.
func (h *Handler) LoadGraph(w http.ResponseWriter, r *http.Request) {
	repo := r.URL.Query().Get("repository")
	if repo == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("repository is required"))
		return
	}
	g, err := h.svc.LoadGraph(r.Context(), repo)
	if err != nil {
		writeError(w, "load graph", err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// SaveGraph handles PUT /api/projects/graph.
func (h *Handler) SaveGraph(w http.ResponseWriter, r *http.Request) {
	repo := r.URL.Query().Get("repository")
	if repo == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("repository is required"))
		return
	}
	var g models.ProjectGraph
	if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := h.svc.SaveGraph(r.Context(), repo, g); err != nil {
		writeError(w, "save graph", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
