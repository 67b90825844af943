package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/ledger"
	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/storage/memory"
)

type testServer struct {
	t      *testing.T
	router http.Handler
}

func newTestServer(t *testing.T) *testServer {
	l := ledger.NewLedger(memory.NewMemoryLedgerStore())
	return &testServer{t: t, router: NewRouter(NewHandler(l), zerolog.Nop())}
}

func (s *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (s *testServer) openSession(date string) string {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/sessions", map[string]string{"corporation": "acme", "branch": "B1", "teller": "ana"})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	id := decode[SessionView](s.t, rec).ID

	rec = s.do(http.MethodPost, "/sessions/"+id+"/date", map[string]string{"date": date})
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())
	return id
}

func (s *testServer) setField(id, field, value string) *httptest.ResponseRecorder {
	return s.do(http.MethodPut, "/sessions/"+id+"/fields/"+field, map[string]string{"value": value})
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	rec := srv.do(http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestSessionLifecycle(t *testing.T) {
	srv := newTestServer(t)
	id := srv.openSession("2024-05-01")

	for _, e := range [][2]string{
		{"beginning_balance", "1,000.00"},
		{"rescate_jewelry", "500"},
		{"empeno_jew_new", "200"},
	} {
		rec := srv.setField(id, e[0], e[1])
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec := srv.setField(id, "cash_count", "1295")
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[SessionView](t, rec)
	assert.Equal(t, ledger.StatusShort, view.Evaluation.Status)
	assert.False(t, view.Evaluation.CanPost)
	require.NotEmpty(t, view.Evaluation.Blockers)
	assert.Equal(t, "variance_detected", view.Evaluation.Blockers[0].Code)
	assert.Contains(t, view.Evaluation.Blockers[0].Message, "SHORT by 5.00")

	rec = srv.do(http.MethodPost, "/sessions/"+id+"/post", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "variance_detected", decode[ErrorResponse](t, rec).Error)

	rec = srv.setField(id, "cash_count", "1300")
	require.Equal(t, http.StatusOK, rec.Code)
	view = decode[SessionView](t, rec)
	assert.True(t, view.Evaluation.CanPost)
	assert.Equal(t, "1300", view.Evaluation.EndingBalance.String())

	rec = srv.do(http.MethodPost, "/sessions/"+id+"/post", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	posted := decode[postResponse](t, rec)
	require.NotNil(t, posted.Entry)
	assert.Equal(t, "2024-05-01", posted.Entry.DateString())
	assert.True(t, posted.Session.Posted)

	rec = srv.do(http.MethodPost, "/sessions/"+id+"/post", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = srv.do(http.MethodPost, "/sessions/"+id+"/advance", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view = decode[SessionView](t, rec)
	assert.Equal(t, "2024-05-02", view.Date)
	assert.Equal(t, ledger.ModeContinuityPending, view.Mode)
	require.NotNil(t, view.Previous)

	rec = srv.setField(id, "beginning_balance", "1300")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "not_editable", decode[ErrorResponse](t, rec).Error)

	rec = srv.do(http.MethodPost, "/sessions/"+id+"/load-previous", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view = decode[SessionView](t, rec)
	assert.True(t, view.AutoFilled)
	assert.Equal(t, "1300.00", view.BeginningBalance)

	rec = srv.do(http.MethodGet, "/entries?corporation=acme&branch=B1&from=2024-05-01&to=2024-05-31", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	entries := decode[map[string][]json.RawMessage](t, rec)
	assert.Len(t, entries["entries"], 1)

	rec = srv.do(http.MethodGet, "/audit?corporation=acme&branch=B1&from=2024-05-01&to=2024-05-31", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"clean":true`)
}

func TestSetField_Errors(t *testing.T) {
	srv := newTestServer(t)
	id := srv.openSession("2024-05-01")

	rec := srv.setField(id, "lottery", "10")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "unknown_field", decode[ErrorResponse](t, rec).Error)

	rec = srv.setField(id, "interest", "abc")
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[SessionView](t, rec)
	assert.Equal(t, "abc", view.Amounts["interest"])
}

func TestSetExchange(t *testing.T) {
	srv := newTestServer(t)
	id := srv.openSession("2024-05-01")

	rec := srv.do(http.MethodPut, "/sessions/"+id+"/exchange", map[string]any{
		"lines": []map[string]any{{"currency": "USD", "quantity": 100, "rate": "56.10"}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	view := decode[SessionView](t, rec)
	require.Len(t, view.ExchangeLines, 1)
	assert.Equal(t, "5610", view.ExchangeLines[0].Total.String())

	rec = srv.do(http.MethodPut, "/sessions/"+id+"/exchange", map[string]any{
		"lines": []map[string]any{{"currency": "dollars", "quantity": 1, "rate": "1"}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "invalid_numeric_input", decode[ErrorResponse](t, rec).Error)
}

func TestSessionRequests(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(http.MethodGet, "/sessions/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(http.MethodPost, "/sessions", map[string]string{"corporation": "acme"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(http.MethodPost, "/sessions", map[string]string{"corporation": "acme", "branch": "B1"})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[SessionView](t, rec).ID

	rec = srv.setField(id, "cash_count", "10")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "no_date_selected", decode[ErrorResponse](t, rec).Error)

	rec = srv.do(http.MethodPost, "/sessions/"+id+"/date", map[string]string{"date": "05/01/2024"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(http.MethodPost, "/sessions/"+id+"/advance", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "not_posted", decode[ErrorResponse](t, rec).Error)

	rec = srv.do(http.MethodDelete, "/sessions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = srv.do(http.MethodGet, "/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListEntries_BadRange(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(http.MethodGet, "/entries?corporation=acme", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(http.MethodGet, "/audit?corporation=acme&branch=B1&from=2024-06-01&to=2024-05-01", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCatalog(t *testing.T) {
	srv := newTestServer(t)
	rec := srv.do(http.MethodGet, "/catalog", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"rescate_jewelry"`)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusConflict, statusFor("entry_already_exists"))
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor("continuity_violation"))
	assert.Equal(t, http.StatusServiceUnavailable, statusFor("continuity_unresolved"))
	assert.Equal(t, http.StatusServiceUnavailable, statusFor("storage_failure"))
	assert.Equal(t, http.StatusInternalServerError, statusFor("internal"))
}
