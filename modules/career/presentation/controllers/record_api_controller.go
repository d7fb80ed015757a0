package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/folioworks/vitae/modules/career/domain/record"
	"github.com/folioworks/vitae/modules/career/services"
	"github.com/folioworks/vitae/pkg/composables"
	"github.com/folioworks/vitae/pkg/httpapi"
	"github.com/folioworks/vitae/pkg/middleware"
)

type RecordAPIController struct {
	records           *services.RecordService
	basePath          string
	workspaceIDHeader string
	maxPageSize       int
}

func NewRecordAPIController(records *services.RecordService, workspaceIDHeader string, maxPageSize int) *RecordAPIController {
	if maxPageSize <= 0 {
		maxPageSize = 100
	}
	return &RecordAPIController{
		records:           records,
		basePath:          "/career/api",
		workspaceIDHeader: workspaceIDHeader,
		maxPageSize:       maxPageSize,
	}
}

func (c *RecordAPIController) Key() string {
	return c.basePath
}

func (c *RecordAPIController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.ResolveWorkspace(c.workspaceIDHeader))
	router.HandleFunc("/records", c.List).Methods(http.MethodGet)
	router.HandleFunc("/records", c.Create).Methods(http.MethodPost)
	router.HandleFunc("/records/{id}", c.Get).Methods(http.MethodGet)
	router.HandleFunc("/records/{id}", c.Update).Methods(http.MethodPut)
	router.HandleFunc("/records/{id}", c.Delete).Methods(http.MethodDelete)
}

func (c *RecordAPIController) List(w http.ResponseWriter, r *http.Request) {
	workspaceID, _ := composables.UseWorkspaceID(r.Context())

	params := &record.FindParams{}
	if v := strings.TrimSpace(r.URL.Query().Get("type")); v != "" {
		entityType := record.EntityType(v)
		if !entityType.Valid() {
			_ = httpapi.WriteError(w, r, http.StatusBadRequest, "CAREER_INVALID_TYPE", fmt.Sprintf("unknown entity type %q", v))
			return
		}
		params.Type = entityType
	}
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= c.maxPageSize {
			params.Limit = parsed
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("offset")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			params.Offset = parsed
		}
	}

	items, total, err := c.records.GetPaginated(r.Context(), workspaceID, params)
	if err != nil {
		_ = httpapi.WriteError(w, r, http.StatusInternalServerError, "CAREER_INTERNAL", "internal error")
		return
	}

	out := make([]recordViewModel, 0, len(items))
	for _, item := range items {
		out = append(out, toRecordViewModel(item))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"items": out,
		"total": total,
	})
}

func (c *RecordAPIController) Get(w http.ResponseWriter, r *http.Request) {
	workspaceID, _ := composables.UseWorkspaceID(r.Context())
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, r, http.StatusBadRequest, "CAREER_INVALID_ID", "invalid record id")
		return
	}

	entity, err := c.records.GetByID(r.Context(), workspaceID, id)
	if errors.Is(err, record.ErrRecordNotFound) {
		_ = httpapi.WriteError(w, r, http.StatusNotFound, "CAREER_NOT_FOUND", "record not found")
		return
	}
	if err != nil {
		_ = httpapi.WriteError(w, r, http.StatusInternalServerError, "CAREER_INTERNAL", "internal error")
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toRecordViewModel(entity))
}

func (c *RecordAPIController) Create(w http.ResponseWriter, r *http.Request) {
	workspaceID, _ := composables.UseWorkspaceID(r.Context())

	var dto record.CreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		_ = httpapi.WriteError(w, r, http.StatusBadRequest, "CAREER_INVALID_JSON", "invalid json")
		return
	}
	if fieldErrors, ok := dto.Ok(); !ok {
		_ = httpapi.WriteError(w, r, http.StatusUnprocessableEntity, "CAREER_VALIDATION_FAILED", firstError(fieldErrors))
		return
	}

	created, err := c.records.Create(r.Context(), workspaceID, &dto)
	if errors.Is(err, record.ErrUnknownEntityType) {
		_ = httpapi.WriteError(w, r, http.StatusUnprocessableEntity, "CAREER_INVALID_TYPE", err.Error())
		return
	}
	if err != nil {
		_ = httpapi.WriteError(w, r, http.StatusInternalServerError, "CAREER_INTERNAL", "internal error")
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, toRecordViewModel(created))
}

func (c *RecordAPIController) Update(w http.ResponseWriter, r *http.Request) {
	workspaceID, _ := composables.UseWorkspaceID(r.Context())
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, r, http.StatusBadRequest, "CAREER_INVALID_ID", "invalid record id")
		return
	}

	var dto record.UpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		_ = httpapi.WriteError(w, r, http.StatusBadRequest, "CAREER_INVALID_JSON", "invalid json")
		return
	}
	if fieldErrors, ok := dto.Ok(); !ok {
		_ = httpapi.WriteError(w, r, http.StatusUnprocessableEntity, "CAREER_VALIDATION_FAILED", firstError(fieldErrors))
		return
	}

	updated, err := c.records.Update(r.Context(), workspaceID, id, &dto)
	if errors.Is(err, record.ErrRecordNotFound) {
		_ = httpapi.WriteError(w, r, http.StatusNotFound, "CAREER_NOT_FOUND", "record not found")
		return
	}
	if err != nil {
		_ = httpapi.WriteError(w, r, http.StatusInternalServerError, "CAREER_INTERNAL", "internal error")
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toRecordViewModel(updated))
}

func (c *RecordAPIController) Delete(w http.ResponseWriter, r *http.Request) {
	workspaceID, _ := composables.UseWorkspaceID(r.Context())
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, r, http.StatusBadRequest, "CAREER_INVALID_ID", "invalid record id")
		return
	}

	deleted, err := c.records.Delete(r.Context(), workspaceID, id)
	if errors.Is(err, record.ErrRecordNotFound) {
		_ = httpapi.WriteError(w, r, http.StatusNotFound, "CAREER_NOT_FOUND", "record not found")
		return
	}
	if err != nil {
		_ = httpapi.WriteError(w, r, http.StatusInternalServerError, "CAREER_INTERNAL", "internal error")
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toRecordViewModel(deleted))
}

type recordViewModel struct {
	ID          string        `json:"id"`
	WorkspaceID string        `json:"workspaceId"`
	EntityType  string        `json:"entityType"`
	Fields      record.Fields `json:"fields"`
	CreatedAt   string        `json:"createdAt"`
	UpdatedAt   string        `json:"updatedAt"`
}

func toRecordViewModel(entity record.Record) recordViewModel {
	return recordViewModel{
		ID:          entity.ID().String(),
		WorkspaceID: entity.WorkspaceID().String(),
		EntityType:  string(entity.EntityType()),
		Fields:      entity.Fields(),
		CreatedAt:   entity.CreatedAt().UTC().Format(timeFormat),
		UpdatedAt:   entity.UpdatedAt().UTC().Format(timeFormat),
	}
}

const timeFormat = "2006-01-02T15:04:05Z07:00"

func firstError(fieldErrors map[string]string) string {
	for field, message := range fieldErrors {
		return field + ": " + message
	}
	return "validation failed"
}
