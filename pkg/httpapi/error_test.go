package httpapi

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/folioworks/vitae/pkg/composables"
)

func TestWriteError_EchoesRequestID(t *testing.T) {
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/records", nil)
	req = req.WithContext(composables.WithRequestID(req.Context(), "req-42"))

	require.NoError(t, WriteError(recorder, req, 404, "NOT_FOUND", "record not found"))
	require.Equal(t, 404, recorder.Code)
	require.Equal(t, "application/json", recorder.Header().Get("Content-Type"))

	var envelope ErrorEnvelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	require.Equal(t, "NOT_FOUND", envelope.Code)
	require.Equal(t, "record not found", envelope.Message)
	require.Equal(t, "req-42", envelope.Meta["request_id"])
}

func TestWriteError_NoRequestIDOmitsMeta(t *testing.T) {
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/records", nil)

	require.NoError(t, WriteError(recorder, req, 400, "BAD_REQUEST", "invalid id"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.NotContains(t, body, "meta")
}
