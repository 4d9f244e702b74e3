package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailpipe/internal/apperrors"
	"mailpipe/internal/handler"
	"mailpipe/internal/model"
	"mailpipe/internal/router"
	"mailpipe/internal/service"
)

type fakeDispatch struct {
	// capture
	gotTake int

	// behavior
	accepted   service.Accepted
	enqueueErr error
	statusRec  model.StatusRecord
	statusErr  error
	recentRecs []model.StatusRecord
	recentErr  error
}

var _ service.DispatchService = (*fakeDispatch)(nil)

func (f *fakeDispatch) Enqueue(_ context.Context, msg *model.EmailMessage) (service.Accepted, error) {
	if f.enqueueErr != nil {
		return service.Accepted{}, f.enqueueErr
	}
	if msg != nil {
		if err := msg.Validate(); err != nil {
			return service.Accepted{}, apperrors.Validation(err)
		}
	}
	return f.accepted, nil
}

func (f *fakeDispatch) Status(_ context.Context, id string) (model.StatusRecord, error) {
	return f.statusRec, f.statusErr
}

func (f *fakeDispatch) Recent(_ context.Context, take int) ([]model.StatusRecord, error) {
	f.gotTake = take
	return f.recentRecs, f.recentErr
}

type fakeHealth struct {
	readyErr error
}

var _ service.HealthService = (*fakeHealth)(nil)

func (f *fakeHealth) Liveness(_ context.Context) error  { return nil }
func (f *fakeHealth) Readiness(_ context.Context) error { return f.readyErr }

func newTestRouter(t *testing.T, svc service.DispatchService) http.Handler {
	t.Helper()

	l := slog.Default()
	return router.NewRouter(handler.NewEmailHandler(svc, l), handler.NewHealthHandler(&fakeHealth{}, l))
}

func TestEmailHandler_Enqueue_OK(t *testing.T) {
	t.Parallel()

	svc := &fakeDispatch{accepted: service.Accepted{ID: "msg-1", Status: model.StatusQueued}}
	mux := newTestRouter(t, svc)

	body := `{"to":["a@x.com"],"subject":"hi"}`
	req := httptest.NewRequest(http.MethodPost, "/email/enqueue", strings.NewReader(body))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var got service.Accepted
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "msg-1", got.ID)
	assert.Equal(t, model.StatusQueued, got.Status)
}

func TestEmailHandler_Enqueue_FreeFormRecipient(t *testing.T) {
	t.Parallel()

	svc := &fakeDispatch{accepted: service.Accepted{ID: "msg-2", Status: model.StatusQueued}}
	mux := newTestRouter(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/email/enqueue", strings.NewReader(`{"to":["ops-team"],"subject":"hi"}`))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestEmailHandler_Enqueue_EmptyRecipients(t *testing.T) {
	t.Parallel()

	mux := newTestRouter(t, &fakeDispatch{})

	req := httptest.NewRequest(http.MethodPost, "/email/enqueue", strings.NewReader(`{"subject":"hi"}`))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestEmailHandler_Enqueue_MalformedBody(t *testing.T) {
	t.Parallel()

	mux := newTestRouter(t, &fakeDispatch{})

	req := httptest.NewRequest(http.MethodPost, "/email/enqueue", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestEmailHandler_Enqueue_PublishError(t *testing.T) {
	t.Parallel()

	svc := &fakeDispatch{enqueueErr: apperrors.Publish(errors.New("broker down"))}
	mux := newTestRouter(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/email/enqueue", strings.NewReader(`{"to":["a@x.com"]}`))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestEmailHandler_Enqueue_StorageError(t *testing.T) {
	t.Parallel()

	svc := &fakeDispatch{enqueueErr: apperrors.Storage(errors.New("connection refused"))}
	mux := newTestRouter(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/email/enqueue", strings.NewReader(`{"to":["a@x.com"]}`))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestEmailHandler_Status_Found(t *testing.T) {
	t.Parallel()

	svc := &fakeDispatch{statusRec: model.StatusRecord{ID: "msg-1", Status: model.StatusSent}}
	mux := newTestRouter(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/email/status/msg-1", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var got model.StatusRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, model.StatusSent, got.Status)
}

func TestEmailHandler_Status_NotFound(t *testing.T) {
	t.Parallel()

	svc := &fakeDispatch{statusErr: apperrors.ErrNotFound}
	mux := newTestRouter(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/email/status/unknown", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestEmailHandler_Recent_ClampsTake(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		query    string
		wantTake int
	}{
		{name: "default", query: "", wantTake: 20},
		{name: "clamped high", query: "?take=500", wantTake: 200},
		{name: "clamped low", query: "?take=0", wantTake: 1},
		{name: "negative", query: "?take=-3", wantTake: 1},
		{name: "garbage falls back to default", query: "?take=abc", wantTake: 20},
		{name: "in range", query: "?take=42", wantTake: 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := &fakeDispatch{}
			mux := newTestRouter(t, svc)

			req := httptest.NewRequest(http.MethodGet, "/email/recent"+tt.query, nil)
			rr := httptest.NewRecorder()
			mux.ServeHTTP(rr, req)

			require.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, tt.wantTake, svc.gotTake)
		})
	}
}

func TestEmailHandler_Recent_EmptyIsJSONArray(t *testing.T) {
	t.Parallel()

	mux := newTestRouter(t, &fakeDispatch{})

	req := httptest.NewRequest(http.MethodGet, "/email/recent", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rr.Body.String()))
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	mux := newTestRouter(t, &fakeDispatch{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}
