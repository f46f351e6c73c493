package messaging

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamops/streammanager/internal/domain"
)

func newTestRouter(repo *fakeQueueRepo, source *fakeSubscriberSource) chi.Router {
	r := chi.NewRouter()
	NewHandler(newTestMessagingService(repo, source)).RegisterRoutes(r)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandler_SendMessage(t *testing.T) {
	repo := newFakeQueueRepo()
	r := newTestRouter(repo, &fakeSubscriberSource{subs: []domain.Subscriber{*testSubscriber()}})

	rec := doJSON(t, r, http.MethodPost, "/send-message", map[string]string{
		"subscriberId": "sub-1",
		"messageType":  "recordatorio",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result SendResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, "Mensaje enviado exitosamente a MARIA GARCIA", result.Message)
	require.NotNil(t, result.MessageLog)
	assert.Equal(t, domain.MessageStatusSent, result.MessageLog.Status)

	assert.Len(t, repo.items, 1)
}

func TestHandler_SendMessage_UnknownSubscriber(t *testing.T) {
	r := newTestRouter(newFakeQueueRepo(), &fakeSubscriberSource{})

	rec := doJSON(t, r, http.MethodPost, "/send-message", map[string]string{
		"subscriberId": "missing",
		"messageType":  "recordatorio",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_SendMessage_InvalidType(t *testing.T) {
	r := newTestRouter(newFakeQueueRepo(), &fakeSubscriberSource{subs: []domain.Subscriber{*testSubscriber()}})

	rec := doJSON(t, r, http.MethodPost, "/send-message", map[string]string{
		"subscriberId": "sub-1",
		"messageType":  "spam",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_SendMessage_MissingFields(t *testing.T) {
	r := newTestRouter(newFakeQueueRepo(), &fakeSubscriberSource{})

	rec := doJSON(t, r, http.MethodPost, "/send-message", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
