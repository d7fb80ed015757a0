package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/folioworks/vitae/modules/career/domain/record"
	"github.com/folioworks/vitae/modules/importer/domain/match"
	"github.com/folioworks/vitae/modules/importer/domain/parse"
	"github.com/folioworks/vitae/modules/importer/infrastructure/staging"
	"github.com/folioworks/vitae/modules/importer/services"
	"github.com/folioworks/vitae/pkg/eventbus"
	"github.com/folioworks/vitae/pkg/kv"
)

const workspaceHeader = "X-Workspace-Id"

type memoryRecordRepo struct {
	mu      sync.Mutex
	records map[uuid.UUID]record.Record
}

func newMemoryRecordRepo() *memoryRecordRepo {
	return &memoryRecordRepo{records: map[uuid.UUID]record.Record{}}
}

func (m *memoryRecordRepo) ListByType(_ context.Context, workspaceID uuid.UUID, t record.EntityType) ([]record.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []record.Record{}
	for _, entity := range m.records {
		if entity.WorkspaceID() == workspaceID && entity.EntityType() == t {
			out = append(out, entity)
		}
	}
	return out, nil
}

func (m *memoryRecordRepo) GetPaginated(_ context.Context, workspaceID uuid.UUID, _ *record.FindParams) ([]record.Record, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []record.Record{}
	for _, entity := range m.records {
		if entity.WorkspaceID() == workspaceID {
			out = append(out, entity)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memoryRecordRepo) GetByID(_ context.Context, workspaceID uuid.UUID, id uuid.UUID) (record.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entity, ok := m.records[id]
	if !ok || entity.WorkspaceID() != workspaceID {
		return record.Record{}, record.ErrRecordNotFound
	}
	return entity, nil
}

func (m *memoryRecordRepo) Create(_ context.Context, entity record.Record) (record.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	created := record.Hydrate(uuid.New(), entity.WorkspaceID(), entity.Fields(), now, now)
	m.records[created.ID()] = created
	return created, nil
}

func (m *memoryRecordRepo) Update(_ context.Context, entity record.Record) (record.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.records[entity.ID()]
	if !ok {
		return record.Record{}, record.ErrRecordNotFound
	}
	updated := record.Hydrate(existing.ID(), existing.WorkspaceID(), entity.Fields(), existing.CreatedAt(), time.Now().UTC())
	m.records[updated.ID()] = updated
	return updated, nil
}

func (m *memoryRecordRepo) Delete(_ context.Context, workspaceID uuid.UUID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entity, ok := m.records[id]
	if !ok || entity.WorkspaceID() != workspaceID {
		return record.ErrRecordNotFound
	}
	delete(m.records, id)
	return nil
}

func newRouter(t *testing.T) (*mux.Router, *memoryRecordRepo) {
	t.Helper()
	memory := kv.NewMemoryStore()
	t.Cleanup(memory.Close)

	repo := newMemoryRecordRepo()
	sessions := staging.NewSessionStore(memory, time.Hour)
	publisher := eventbus.NewEventPublisher(logrus.New())
	committer := services.NewCommitter(sessions, repo, publisher)
	imports := services.NewImportService(parse.NewJSONParser(), match.NewMatcher(), repo, sessions, committer, publisher)

	router := mux.NewRouter()
	NewImportAPIController(imports, workspaceHeader, 1<<20).Register(router)
	return router, repo
}

func doRequest(t *testing.T, router *mux.Router, method, target string, workspaceID uuid.UUID, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if workspaceID != uuid.Nil {
		req.Header.Set(workspaceHeader, workspaceID.String())
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func uploadPayload(t *testing.T, candidates ...map[string]any) string {
	t.Helper()
	doc, err := json.Marshal(map[string]any{"records": candidates})
	require.NoError(t, err)
	return string(doc)
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(bytes.NewReader(recorder.Body.Bytes())).Decode(&body))
	return body
}

func TestImportAPI_UploadStagesSession(t *testing.T) {
	router, _ := newRouter(t)
	workspaceID := uuid.New()

	payload := uploadPayload(t,
		map[string]any{"entityType": "skill", "fields": map[string]any{"name": "Go"}},
		map[string]any{"entityType": "project", "fields": map[string]any{"name": "Weather Bot"}, "sourceRef": "projects.csv:2"},
	)
	recorder := doRequest(t, router, http.MethodPost, "/import/api/uploads", workspaceID, payload)
	require.Equal(t, http.StatusCreated, recorder.Code)

	body := decodeBody(t, recorder)
	require.Equal(t, "staging", body["status"])
	require.Equal(t, workspaceID.String(), body["workspaceId"])
	candidates := body["candidates"].([]any)
	require.Len(t, candidates, 2)
	first := candidates[0].(map[string]any)
	require.Equal(t, "create", first["decision"])
	require.NotEmpty(t, first["id"])
}

func TestImportAPI_UploadParseFailure(t *testing.T) {
	router, _ := newRouter(t)

	recorder := doRequest(t, router, http.MethodPost, "/import/api/uploads", uuid.New(), "{not json")
	require.Equal(t, http.StatusUnprocessableEntity, recorder.Code)

	body := decodeBody(t, recorder)
	require.Equal(t, "IMPORT_PARSE_FAILED", body["code"])
}

func TestImportAPI_UploadRequiresWorkspace(t *testing.T) {
	router, _ := newRouter(t)

	recorder := doRequest(t, router, http.MethodPost, "/import/api/uploads", uuid.Nil, uploadPayload(t))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	body := decodeBody(t, recorder)
	require.Equal(t, "WORKSPACE_REQUIRED", body["code"])
}

func TestImportAPI_QuickImportDoesNotAutoCommit(t *testing.T) {
	router, repo := newRouter(t)
	workspaceID := uuid.New()

	payload := uploadPayload(t,
		map[string]any{"entityType": "skill", "fields": map[string]any{"name": "Go"}},
	)
	recorder := doRequest(t, router, http.MethodPost, "/import/api/uploads?quick_import=true", workspaceID, payload)
	require.Equal(t, http.StatusCreated, recorder.Code)

	// Upload only stages. The response points at the commit endpoint; no
	// commit result is embedded and nothing has been persisted yet.
	body := decodeBody(t, recorder)
	require.NotContains(t, body, "result")
	sessionBody := body["session"].(map[string]any)
	require.Equal(t, "staging", sessionBody["status"])
	commitPath := body["commitPath"].(string)
	require.Equal(t, "/import/api/sessions/"+sessionBody["id"].(string)+"/commit", commitPath)

	stored, _, err := repo.GetPaginated(context.Background(), workspaceID, nil)
	require.NoError(t, err)
	require.Empty(t, stored, "upload must not commit")

	// The explicit follow-up commit applies the staged defaults.
	recorder = doRequest(t, router, http.MethodPost, commitPath, workspaceID, "")
	require.Equal(t, http.StatusOK, recorder.Code)
	result := decodeBody(t, recorder)
	require.EqualValues(t, 1, result["committedCount"])
	require.EqualValues(t, 0, result["mergedCount"])

	stored, _, err = repo.GetPaginated(context.Background(), workspaceID, nil)
	require.NoError(t, err)
	require.Len(t, stored, 1)
}

func TestImportAPI_GetMissingSession(t *testing.T) {
	router, _ := newRouter(t)

	recorder := doRequest(t, router, http.MethodGet, "/import/api/sessions/"+uuid.NewString(), uuid.New(), "")
	require.Equal(t, http.StatusNotFound, recorder.Code)

	body := decodeBody(t, recorder)
	require.Equal(t, "IMPORT_SESSION_NOT_FOUND", body["code"])
}

func TestImportAPI_InvalidSessionID(t *testing.T) {
	router, _ := newRouter(t)

	recorder := doRequest(t, router, http.MethodGet, "/import/api/sessions/not-a-uuid", uuid.New(), "")
	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestImportAPI_DecisionLifecycle(t *testing.T) {
	router, _ := newRouter(t)
	workspaceID := uuid.New()

	payload := uploadPayload(t,
		map[string]any{"entityType": "skill", "fields": map[string]any{"name": "Go"}},
	)
	recorder := doRequest(t, router, http.MethodPost, "/import/api/uploads", workspaceID, payload)
	require.Equal(t, http.StatusCreated, recorder.Code)

	staged := decodeBody(t, recorder)
	sessionID := staged["id"].(string)
	candidateID := staged["candidates"].([]any)[0].(map[string]any)["id"].(string)

	decisions := fmt.Sprintf(`{"decisions":[{"candidateId":%q,"decision":"skip"}]}`, candidateID)
	recorder = doRequest(t, router, http.MethodPost, "/import/api/sessions/"+sessionID+"/decisions", workspaceID, decisions)
	require.Equal(t, http.StatusOK, recorder.Code)

	body := decodeBody(t, recorder)
	updated := body["session"].(map[string]any)
	require.Equal(t, "skip", updated["candidates"].([]any)[0].(map[string]any)["decision"])

	recorder = doRequest(t, router, http.MethodPost, "/import/api/sessions/"+sessionID+"/commit", workspaceID, "")
	require.Equal(t, http.StatusOK, recorder.Code)
	result := decodeBody(t, recorder)
	require.EqualValues(t, 1, result["skippedCount"])
	require.EqualValues(t, 0, result["committedCount"])

	// Terminal sessions reject further commits and decision updates.
	recorder = doRequest(t, router, http.MethodPost, "/import/api/sessions/"+sessionID+"/commit", workspaceID, "")
	require.Equal(t, http.StatusConflict, recorder.Code)
	conflict := decodeBody(t, recorder)
	require.Equal(t, "IMPORT_SESSION_STATE", conflict["code"])

	recorder = doRequest(t, router, http.MethodPost, "/import/api/sessions/"+sessionID+"/decisions", workspaceID, decisions)
	require.Equal(t, http.StatusConflict, recorder.Code)
}

func TestImportAPI_Discard(t *testing.T) {
	router, repo := newRouter(t)
	workspaceID := uuid.New()

	payload := uploadPayload(t,
		map[string]any{"entityType": "skill", "fields": map[string]any{"name": "Go"}},
	)
	recorder := doRequest(t, router, http.MethodPost, "/import/api/uploads", workspaceID, payload)
	require.Equal(t, http.StatusCreated, recorder.Code)
	sessionID := decodeBody(t, recorder)["id"].(string)

	recorder = doRequest(t, router, http.MethodPost, "/import/api/sessions/"+sessionID+"/discard", workspaceID, "")
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, "discarded", decodeBody(t, recorder)["status"])

	recorder = doRequest(t, router, http.MethodPost, "/import/api/sessions/"+sessionID+"/commit", workspaceID, "")
	require.Equal(t, http.StatusConflict, recorder.Code)

	stored, _, err := repo.GetPaginated(context.Background(), workspaceID, nil)
	require.NoError(t, err)
	require.Empty(t, stored)
}
