package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/teranos/tripgen/logger"
	"github.com/teranos/tripgen/project"
	"github.com/teranos/tripgen/triplet"
	"github.com/teranos/tripgen/typegen/kotlin"
	"github.com/teranos/tripgen/version"
)

// SyncTaskRequest is the body of POST /api/processor/sync/task. Empty
// package names fall back to the server's configured defaults.
type SyncTaskRequest struct {
	Scenarios             []triplet.Scenario `json:"scenarios"`
	DeclarationsPackage   string             `json:"generationPackage"`
	ImplementationPackage string             `json:"implementationPackage"`
}

// respondError logs server-side failures and writes the mapped status.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.LoggerFromContext(r.Context(), s.logger).Errorw("Request failed",
			logger.FieldPath, r.URL.Path,
			logger.FieldError, err,
		)
	}
	writeError(w, status, err.Error())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.Get().Version,
	})
}

func (s *Server) handleSyncTask(w http.ResponseWriter, r *http.Request) {
	var req SyncTaskRequest
	if err := readJSON(w, r, &req); err != nil {
		return
	}

	cfg := s.defaults
	if req.DeclarationsPackage != "" {
		cfg.DeclarationsPackage = req.DeclarationsPackage
	}
	if req.ImplementationPackage != "" {
		cfg.ImplementationPackage = req.ImplementationPackage
	}

	gen, err := kotlin.NewGenerator(cfg, logger.LoggerFromContext(r.Context(), s.logger))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	result, err := gen.SynthesizeBatch(req.Scenarios)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req project.CreateRequest
	if err := readJSON(w, r, &req); err != nil {
		return
	}
	if req.DeclarationsPackage == "" {
		req.DeclarationsPackage = s.defaults.DeclarationsPackage
	}
	if req.ImplementationPackage == "" {
		req.ImplementationPackage = s.defaults.ImplementationPackage
	}

	p, err := s.projects.Store().Create(r.Context(), req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.projects.Store().List(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if projects == nil {
		projects = []*project.Project{}
	}
	writeJSON(w, http.StatusOK, projects)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.projects.Store().Get(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleAddScenario(w http.ResponseWriter, r *http.Request) {
	var sc triplet.Scenario
	if err := readJSON(w, r, &sc); err != nil {
		return
	}
	id := chi.URLParam(r, "projectID")
	if err := s.projects.Store().AddScenario(r.Context(), id, sc); err != nil {
		s.respondError(w, r, err)
		return
	}
	p, err := s.projects.Store().Get(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleProcessSync(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "projectID")
	ctx := logger.WithProjectID(r.Context(), id)
	result, err := s.projects.ProcessSync(ctx, id)
	if err != nil {
		s.respondError(w, r.WithContext(ctx), err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListSources(w http.ResponseWriter, r *http.Request) {
	sources, err := s.projects.Store().ListSources(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"files": sources})
}

