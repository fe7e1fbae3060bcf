package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/folio/internal/collection"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *collection.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Hierarchy.
	r.Get("/hierarchy/node-type", h.NodeType)
	r.Post("/hierarchy/validate", h.ValidateCreate)
	r.Post("/hierarchy/nodes", h.CreateNode)
	r.Get("/hierarchy/info", h.HierarchyInfo)

	// Repositories.
	r.Get("/repositories", h.ListRepositories)
	r.Post("/repositories/rename", h.RenameRepository)
	r.Delete("/repositories", h.DeleteRepository)

	// Projects, drafts, and commit logs.
	r.Get("/projects", h.ListProjects)
	r.Post("/projects", h.CreateProject)
	r.Post("/projects/rename", h.RenameProject)
	r.Post("/projects/move", h.MoveProject)
	r.Delete("/projects", h.DeleteProject)
	r.Get("/projects/content", h.LoadContent)
	r.Put("/projects/content", h.SaveContent)
	r.Get("/projects/commits", h.ListCommits)
	r.Post("/projects/commits", h.AppendCommit)
	r.Put("/projects/commits", h.SaveCommits)
	r.Delete("/projects/commits", h.DeleteCommit)
	r.Delete("/projects/commits/all", h.ClearCommits)
	r.Get("/projects/graph", h.LoadGraph)
	r.Put("/projects/graph", h.SaveGraph)

	// Lexical index.
	r.Post("/index/build", h.BuildIndex)
	r.Get("/index/status", h.IndexStatus)
	r.Delete("/index", h.ClearIndex)
	r.Get("/index/query", h.QueryIndex)
	r.Get("/index/redundancy", h.FindRedundancy)

	// Diff/merge helpers (stateless).
	r.Post("/diff", h.ComputeDiff)
	r.Post("/diff/toggle", h.ToggleSegment)
	r.Post("/diff/accept-all", h.AcceptAll)
	r.Post("/diff/reject-all", h.RejectAll)
	r.Post("/diff/materialize", h.Materialize)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}

// Handler holds API route handlers.
type Handler struct {
	svc *collection.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *collection.Service) *Handler {
	return &Handler{svc: svc}
}
