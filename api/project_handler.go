package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/rpupo63/project-showcase-backend/errs"
	"github.com/rpupo63/project-showcase-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

// projectStore is the persistence the endpoint needs; *database.ProjectRepo satisfies it
type projectStore interface {
	FindAllWithAuthor(ctx context.Context) ([]*models.Project, error)
	CreateForAuthor(ctx context.Context, project *models.Project) error
}

type projectHandler struct {
	responder Responder
	logger    zerolog.Logger
	projects  projectStore
	sessions  SessionResolver
	body      bodyValidator
}

func newProjectHandler(projects projectStore, sessions SessionResolver, body bodyValidator) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder: NewResponder(logger),
		logger:    logger,
		projects:  projects,
		sessions:  sessions,
		body:      body,
	}
}

// handle dispatches /api/project on the request method
// @Summary List or create projects
// @Tags Projects
// @Accept json
// @Produce json
// @Success 200 {object} SuccessEnvelope "GET: all projects with their author"
// @Success 201 {object} SuccessEnvelope "POST: created project"
// @Failure 400 {object} ErrorEnvelope "Bad Request - unsupported method"
// @Failure 401 {object} ErrorEnvelope "Unauthorized - no session"
// @Failure 422 {object} ValidationEnvelope "Validation Error"
// @Failure 500 {object} ErrorEnvelope "Internal Error"
// @Router /api/project [get]
// @Router /api/project [post]
func (h projectHandler) handle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.listProjects(w, r)
		case http.MethodPost:
			h.createProject(w, r)
		default:
			h.responder.WriteError(w, errs.BadRequest)
		}
	}
}

func (h projectHandler) listProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.FindAllWithAuthor(r.Context())
	if err != nil {
		h.responder.WriteError(w, errs.NewDatabaseError("find", "projects", err))
		return
	}
	if projects == nil {
		projects = []*models.Project{}
	}

	h.responder.Success(w, "", projects, http.StatusOK)
}

func (h projectHandler) createProject(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.Resolve(w, r)
	if err != nil {
		h.responder.WriteError(w, errs.NewInternalErrorWithCause("resolve session", err))
		return
	}
	if session == nil {
		h.responder.WriteError(w, errs.Unauthorized)
		return
	}

	var req createProjectRequest
	if verr := h.body.decode(w, r, &req); verr != nil {
		h.responder.Validation(w, verr)
		return
	}

	// uuidtext already accepted it
	authorID := uuid.MustParse(req.AuthorID)

	project := &models.Project{
		Title:            req.Title,
		Description:      req.Description,
		GithubRepository: req.GithubRepository,
		Tags:             datatypes.NewJSONSlice(req.tagList()),
		CoverImg:         req.CoverImg,
		AuthorID:         authorID,
	}

	if err := h.projects.CreateForAuthor(r.Context(), project); err != nil {
		h.responder.WriteError(w, errs.NewDatabaseError("create", "project", err))
		return
	}

	h.logger.Info().
		Str("projectID", project.ID.String()).
		Str("authorID", authorID.String()).
		Str("sessionAuthorID", session.AuthorID.String()).
		Msg("project created")

	h.responder.Success(w, "", project, http.StatusCreated)
}
