package subscribers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamops/streammanager/internal/domain"
)

func newTestRouter(t *testing.T, repo *fakeRepo) chi.Router {
	t.Helper()
	svc := newTestService(repo, time.Date(2025, 8, 13, 12, 0, 0, 0, time.UTC))
	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r)
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

func TestHandler_CreateAndList(t *testing.T) {
	r := newTestRouter(t, &fakeRepo{})

	rec := doJSON(t, r, http.MethodPost, "/subscribers", map[string]string{
		"service":        "NETFLIX",
		"name":           "Akiro",
		"phone":          "963755815",
		"email":          "akiro60@gmail.com",
		"expirationDate": "2025-08-23",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created domain.Subscriber
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "AKIRO", created.Name)
	assert.Equal(t, 10, created.DaysRemaining)
	assert.Equal(t, domain.SubscriberStatusActive, created.Status)

	rec = doJSON(t, r, http.MethodGet, "/subscribers", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list ListSubscribersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Total)
	require.Len(t, list.Subscribers, 1)
	assert.Equal(t, created.ID, list.Subscribers[0].ID)
}

func TestHandler_Create_ValidationError(t *testing.T) {
	r := newTestRouter(t, &fakeRepo{})

	rec := doJSON(t, r, http.MethodPost, "/subscribers", map[string]string{
		"service":        "NETFLIX",
		"name":           "Akiro",
		"phone":          "963755815",
		"email":          "not-an-email",
		"expirationDate": "2025-08-23",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation error")
}

func TestHandler_Create_MissingExpirationDate(t *testing.T) {
	r := newTestRouter(t, &fakeRepo{})

	rec := doJSON(t, r, http.MethodPost, "/subscribers", map[string]string{
		"service": "NETFLIX",
		"name":    "Akiro",
		"phone":   "963755815",
		"email":   "akiro60@gmail.com",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "expirationDate")
}

func TestHandler_Get_NotFound(t *testing.T) {
	r := newTestRouter(t, &fakeRepo{})

	rec := doJSON(t, r, http.MethodGet, "/subscribers/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_UpdateAndDelete(t *testing.T) {
	repo := &fakeRepo{}
	r := newTestRouter(t, repo)

	rec := doJSON(t, r, http.MethodPost, "/subscribers", map[string]string{
		"service":        "SPOTIFY",
		"name":           "Jorge",
		"phone":          "984936373",
		"email":          "jorge34@gmail.com",
		"expirationDate": "2025-09-02",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created domain.Subscriber
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(t, r, http.MethodPut, "/subscribers/"+created.ID, map[string]string{
		"expirationDate": "2025-08-15",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated domain.Subscriber
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "JORGE", updated.Name)
	assert.Equal(t, 2, updated.DaysRemaining)
	assert.Equal(t, domain.SubscriberStatusExpiring, updated.Status)

	rec = doJSON(t, r, http.MethodDelete, "/subscribers/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "deleted successfully")

	rec = doJSON(t, r, http.MethodDelete, "/subscribers/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_Stats(t *testing.T) {
	repo := &fakeRepo{subs: []domain.Subscriber{
		{ID: "1", ExpirationDate: domain.NewDate(2025, 8, 23)}, // 10 days
		{ID: "2", ExpirationDate: domain.NewDate(2025, 8, 18)}, // 5 days
		{ID: "3", ExpirationDate: domain.NewDate(2025, 8, 1)},  // expired
	}}
	r := newTestRouter(t, repo)

	rec := doJSON(t, r, http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, Stats{Total: 3, Expiring: 1, Active: 1, Expired: 1, Revenue: 30}, stats)
}

func TestHandler_ListServices(t *testing.T) {
	r := newTestRouter(t, &fakeRepo{})

	rec := doJSON(t, r, http.MethodGet, "/services", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ServicesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.StreamingServices(), resp.Services)
}
