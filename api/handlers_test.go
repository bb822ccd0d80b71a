/*
handlers_test.go - Tests for API handlers

Tests for:
- Agent inspection endpoints (list, detail, mailbox, journal)
- Clock endpoints (time, tick)
*/
package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/settlement-engine/api"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return api.NewRouter(api.NewHandler(nil))
}

func do(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func loadScenario(t *testing.T, router http.Handler, id string) {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/api/scenarios/load", api.LoadScenarioRequest{ScenarioID: id})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func tick(t *testing.T, router http.Handler, n int) {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/api/tick", api.TickRequest{Ticks: n})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

// =============================================================================
// CLOCK ENDPOINTS
// =============================================================================

func TestGetTime_StartsAtZero(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/time", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decode[api.TimeDTO](t, rec).Time)
}

func TestTick_AdvancesClock(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/tick", api.TickRequest{Ticks: 3})

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[api.TickResponse](t, rec)
	assert.Equal(t, 3, resp.Ticks)
	assert.Equal(t, 3, resp.Time)
}

func TestTick_EmptyBodyDefaultsToOne(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/tick", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[api.TickResponse](t, rec).Time)
}

// =============================================================================
// AGENT ENDPOINTS
// =============================================================================

func TestListAgents_EmptySimulation(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/agents", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]api.AgentDTO](t, rec))
}

func TestListAgents_AfterScenarioLoad(t *testing.T) {
	router := newTestRouter(t)
	loadScenario(t, router, "interbank")

	rec := do(t, router, http.MethodGet, "/api/agents", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	agents := decode[[]api.AgentDTO](t, rec)
	require.Len(t, agents, 2)
	assert.Equal(t, "bank_a", agents[0].Name)
	assert.Equal(t, 400.0, agents[0].Cash)
	assert.Equal(t, 500.0, agents[0].Equity) // 400 cash + 100 loan asset
	assert.Equal(t, "bank_b", agents[1].Name)
	assert.Equal(t, 200.0, agents[1].Equity) // 300 cash - 100 loan liability
}

func TestGetAgent_NotFound(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/agents/nobody", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "agent not found", decode[api.ErrorResponse](t, rec).Error)
}

func TestGetAgent_BalanceSheet(t *testing.T) {
	router := newTestRouter(t)
	loadScenario(t, router, "interbank")

	rec := do(t, router, http.MethodGet, "/api/agents/bank_b", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[api.AgentDetailDTO](t, rec)
	assert.Equal(t, "bank_b", detail.BalanceSheet.Owner)
	assert.Equal(t, "100.00", detail.BalanceSheet.TotalLiabilities.StringFixed(2))
	assert.Equal(t, "200.00", detail.BalanceSheet.Equity.StringFixed(2))
	require.Len(t, detail.BalanceSheet.Liabilities, 1)
	assert.Equal(t, "loan", detail.BalanceSheet.Liabilities[0].Account)
}

func TestGetMailbox_TracksObligationLifecycle(t *testing.T) {
	router := newTestRouter(t)
	loadScenario(t, router, "interbank")

	// Tick 0: request sent, delivered unopened.
	tick(t, router, 1)
	mb := decode[api.MailboxDTO](t, do(t, router, http.MethodGet, "/api/agents/bank_b/mailbox", nil))
	require.Len(t, mb.Unopened, 1)
	assert.Equal(t, "bank_b", mb.Unopened[0].From)
	assert.Equal(t, "bank_a", mb.Unopened[0].To)
	assert.Equal(t, 2, mb.Unopened[0].TimeToPay)

	// Tick 1: promoted to the inbox.
	tick(t, router, 1)
	mb = decode[api.MailboxDTO](t, do(t, router, http.MethodGet, "/api/agents/bank_b/mailbox", nil))
	require.Len(t, mb.Inbox, 1)
	assert.Empty(t, mb.Unopened)

	// Tick 2: settled and pruned.
	tick(t, router, 1)
	mb = decode[api.MailboxDTO](t, do(t, router, http.MethodGet, "/api/agents/bank_b/mailbox", nil))
	assert.Empty(t, mb.Inbox)
}

func TestGetJournal_RecordsBookings(t *testing.T) {
	router := newTestRouter(t)
	loadScenario(t, router, "interbank")
	tick(t, router, 3)

	rec := do(t, router, http.MethodGet, "/api/agents/bank_b/journal", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	entries := decode[[]api.JournalEntryDTO](t, rec)
	require.NotEmpty(t, entries)
	// Load-time cash plus the loan booking come first.
	assert.Equal(t, int64(1), entries[0].Seq)
	// The repayment booking hits the loan liability at tick 2.
	last := entries[len(entries)-1]
	assert.Equal(t, 2, last.Tick)
	assert.Equal(t, "Loan", last.Debit)
	assert.Equal(t, "cash", last.Credit)
	assert.Equal(t, 100.0, last.Amount)
}

func TestGetJournal_UnknownAgent(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/agents/nobody/journal", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
