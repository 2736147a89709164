package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookTestEndpoint(t *testing.T) {
	handler := NewWebhookHandler(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/hikvision/webhook/test", nil)
	rec := httptest.NewRecorder()
	handler.Test(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWebhookIgnoresNonAccessEvents(t *testing.T) {
	handler := NewWebhookHandler(nil, nil)

	// Video tampering alert (major 2): acknowledged, never applied.
	body := `{"ipAddress":"10.0.0.10","dateTime":"2025-12-08T09:00:00+05:00",
		"AccessControllerEvent":{"majorEventType":2,"subEventType":1,"employeeNoString":"1001"}}`

	req := httptest.NewRequest(http.MethodPost, "/hikvision/webhook", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Receive(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWebhookIgnoresHeartbeat(t *testing.T) {
	handler := NewWebhookHandler(nil, nil)

	body := `{"ipAddress":"10.0.0.10","dateTime":"2025-12-08T09:00:00+05:00"}`

	req := httptest.NewRequest(http.MethodPost, "/hikvision/webhook", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Receive(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWebhookRejectsGarbage(t *testing.T) {
	handler := NewWebhookHandler(nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/hikvision/webhook", strings.NewReader("not json at all"))
	rec := httptest.NewRecorder()
	handler.Receive(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExtractJSONObjectFromMultipart(t *testing.T) {
	raw := []byte("--boundary\r\nContent-Type: application/json\r\n\r\n" +
		`{"ipAddress":"10.0.0.10","AccessControllerEvent":{"majorEventType":5}}` +
		"\r\n--boundary--")

	got := extractJSONObject(raw)
	require.NotNil(t, got)
	assert.Equal(t, byte('{'), got[0])
	assert.Equal(t, byte('}'), got[len(got)-1])
	assert.Contains(t, string(got), `"majorEventType":5`)
}

func TestExtractJSONObjectNone(t *testing.T) {
	assert.Nil(t, extractJSONObject([]byte("plain text")))
}
