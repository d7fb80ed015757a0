package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/folioworks/vitae/modules/importer/domain/parse"
	"github.com/folioworks/vitae/modules/importer/domain/session"
	"github.com/folioworks/vitae/modules/importer/services"
	"github.com/folioworks/vitae/pkg/composables"
	"github.com/folioworks/vitae/pkg/httpapi"
	"github.com/folioworks/vitae/pkg/middleware"
)

type ImportAPIController struct {
	imports           *services.ImportService
	basePath          string
	workspaceIDHeader string
	maxUploadSize     int64
}

func NewImportAPIController(imports *services.ImportService, workspaceIDHeader string, maxUploadSize int64) *ImportAPIController {
	if maxUploadSize <= 0 {
		maxUploadSize = 10 << 20
	}
	return &ImportAPIController{
		imports:           imports,
		basePath:          "/import/api",
		workspaceIDHeader: workspaceIDHeader,
		maxUploadSize:     maxUploadSize,
	}
}

func (c *ImportAPIController) Key() string {
	return c.basePath
}

func (c *ImportAPIController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.ResolveWorkspace(c.workspaceIDHeader))
	router.HandleFunc("/uploads", c.Upload).Methods(http.MethodPost)
	router.HandleFunc("/sessions/{id}", c.GetSession).Methods(http.MethodGet)
	router.HandleFunc("/sessions/{id}/decisions", c.UpdateDecisions).Methods(http.MethodPost)
	router.HandleFunc("/sessions/{id}/commit", c.Commit).Methods(http.MethodPost)
	router.HandleFunc("/sessions/{id}/discard", c.Discard).Methods(http.MethodPost)
}

// Upload stages a new import session from the request body. Committing stays
// a separate, explicit call even for quick imports; quick_import=true only
// adds the commit path to the response so the caller can follow up with the
// staged defaults immediately.
func (c *ImportAPIController) Upload(w http.ResponseWriter, r *http.Request) {
	workspaceID, _ := composables.UseWorkspaceID(r.Context())

	body := http.MaxBytesReader(w, r.Body, c.maxUploadSize)
	staged, err := c.imports.Upload(r.Context(), workspaceID, body)
	if err != nil {
		var parseErr *parse.ParseError
		switch {
		case errors.As(err, &parseErr):
			_ = httpapi.WriteError(w, r, http.StatusUnprocessableEntity, "IMPORT_PARSE_FAILED", parseErr.Reason)
		case errors.As(err, new(*http.MaxBytesError)):
			_ = httpapi.WriteError(w, r, http.StatusRequestEntityTooLarge, "IMPORT_TOO_LARGE", "upload exceeds the size limit")
		default:
			_ = httpapi.WriteError(w, r, http.StatusInternalServerError, "IMPORT_INTERNAL", "internal error")
		}
		return
	}

	if quick, _ := strconv.ParseBool(r.URL.Query().Get("quick_import")); quick {
		_ = httpapi.WriteJSON(w, http.StatusCreated, map[string]any{
			"session":    toSessionViewModel(staged),
			"commitPath": c.basePath + "/sessions/" + staged.ID.String() + "/commit",
		})
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, toSessionViewModel(staged))
}

func (c *ImportAPIController) GetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := c.sessionID(w, r)
	if !ok {
		return
	}

	entity, err := c.imports.GetSession(r.Context(), id)
	if err != nil {
		c.writeSessionError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toSessionViewModel(entity))
}

func (c *ImportAPIController) UpdateDecisions(w http.ResponseWriter, r *http.Request) {
	id, ok := c.sessionID(w, r)
	if !ok {
		return
	}

	var body struct {
		Decisions []services.DecisionUpdate `json:"decisions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		_ = httpapi.WriteError(w, r, http.StatusBadRequest, "IMPORT_INVALID_JSON", "invalid json")
		return
	}

	itemErrors, err := c.imports.UpdateDecisions(r.Context(), id, body.Decisions)
	if err != nil {
		c.writeSessionError(w, r, err)
		return
	}

	entity, err := c.imports.GetSession(r.Context(), id)
	if err != nil {
		c.writeSessionError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"session": toSessionViewModel(entity),
		"errors":  itemErrors,
	})
}

func (c *ImportAPIController) Commit(w http.ResponseWriter, r *http.Request) {
	id, ok := c.sessionID(w, r)
	if !ok {
		return
	}

	result, err := c.imports.Commit(r.Context(), id)
	if err != nil {
		c.writeSessionError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, result)
}

func (c *ImportAPIController) Discard(w http.ResponseWriter, r *http.Request) {
	id, ok := c.sessionID(w, r)
	if !ok {
		return
	}

	if err := c.imports.Discard(r.Context(), id); err != nil {
		c.writeSessionError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"sessionId": id.String(),
		"status":    string(session.StatusDiscarded),
	})
}

func (c *ImportAPIController) sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, r, http.StatusBadRequest, "IMPORT_INVALID_ID", "invalid session id")
		return uuid.Nil, false
	}
	return id, true
}

func (c *ImportAPIController) writeSessionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		_ = httpapi.WriteError(w, r, http.StatusNotFound, "IMPORT_SESSION_NOT_FOUND", "import session not found")
	case errors.Is(err, session.ErrInvalidSessionState):
		_ = httpapi.WriteError(w, r, http.StatusConflict, "IMPORT_SESSION_STATE", "import session is not in staging state")
	default:
		_ = httpapi.WriteError(w, r, http.StatusInternalServerError, "IMPORT_INTERNAL", "internal error")
	}
}

type sessionViewModel struct {
	ID          string                    `json:"id"`
	WorkspaceID string                    `json:"workspaceId"`
	Status      string                    `json:"status"`
	Candidates  []session.CandidateRecord `json:"candidates"`
	CreatedAt   string                    `json:"createdAt"`
}

func toSessionViewModel(entity *session.ImportSession) sessionViewModel {
	return sessionViewModel{
		ID:          entity.ID.String(),
		WorkspaceID: entity.WorkspaceID.String(),
		Status:      string(entity.Status),
		Candidates:  entity.Candidates,
		CreatedAt:   entity.CreatedAt.UTC().Format(timeFormat),
	}
}

const timeFormat = "2006-01-02T15:04:05Z07:00"
