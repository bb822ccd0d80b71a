/*
scenarios_test.go - Tests for demo scenario loaders

Tests for:
- Scenario listing and selection
- End-to-end behavior of each loaded scenario
*/
package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/settlement-engine/api"
)

func TestListScenarios(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/scenarios", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]api.ScenarioDTO](t, rec)
	require.Len(t, list, 3)
	assert.Equal(t, "interbank", list[0].ID)
}

func TestLoadScenario_Unknown(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/scenarios/load", api.LoadScenarioRequest{ScenarioID: "nope"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCurrentScenario_TracksLoads(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/scenarios/current", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null\n", rec.Body.String())

	loadScenario(t, router, "goods-chain")

	rec = do(t, router, http.MethodGet, "/api/scenarios/current", nil)
	assert.Equal(t, "goods-chain", decode[api.ScenarioDTO](t, rec).ID)
}

func TestLoadScenario_ReplacesSimulation(t *testing.T) {
	router := newTestRouter(t)
	loadScenario(t, router, "interbank")
	tick(t, router, 5)

	loadScenario(t, router, "goods-chain")

	rec := do(t, router, http.MethodGet, "/api/time", nil)
	assert.Equal(t, 0, decode[api.TimeDTO](t, rec).Time)

	agents := decode[[]api.AgentDTO](t, do(t, router, http.MethodGet, "/api/agents", nil))
	require.Len(t, agents, 4)
	assert.Equal(t, "trader_1", agents[0].Name)
}

func TestInterbankScenario_SettlesAtMaturity(t *testing.T) {
	// The borrower repays 100 at tick 2; after three ticks the lender
	// holds the cash and neither side carries the obligation.
	router := newTestRouter(t)
	loadScenario(t, router, "interbank")
	tick(t, router, 3)

	agents := decode[[]api.AgentDTO](t, do(t, router, http.MethodGet, "/api/agents", nil))
	require.Len(t, agents, 2)
	assert.Equal(t, 500.0, agents[0].Cash)
	assert.Equal(t, 200.0, agents[1].Cash)

	for _, name := range []string{"bank_a", "bank_b"} {
		mb := decode[api.MailboxDTO](t, do(t, router, http.MethodGet, "/api/agents/"+name+"/mailbox", nil))
		assert.Empty(t, mb.Inbox, name)
		assert.Empty(t, mb.Outbox, name)
	}
}

func TestGoodsChainScenario_GrainTravels(t *testing.T) {
	router := newTestRouter(t)
	loadScenario(t, router, "goods-chain")

	// One hop per tick: after three ticks the grain sits with trader_4.
	tick(t, router, 3)

	detail := decode[api.AgentDetailDTO](t, do(t, router, http.MethodGet, "/api/agents/trader_4", nil))
	require.Len(t, detail.BalanceSheet.Goods, 1)
	assert.Equal(t, "grain", detail.BalanceSheet.Goods[0].Account)
	assert.Equal(t, "6.00", detail.BalanceSheet.Goods[0].Balance.StringFixed(2)) // 3 units at 2.0

	first := decode[api.AgentDetailDTO](t, do(t, router, http.MethodGet, "/api/agents/trader_1", nil))
	assert.Equal(t, "0.00", first.BalanceSheet.Equity.StringFixed(2))
}

func TestDefaultScenario_ReceivableWrittenOff(t *testing.T) {
	// The borrower dies at tick 2 without paying; the lender's pending
	// receivable disappears from its outbox.
	router := newTestRouter(t)
	loadScenario(t, router, "default")

	tick(t, router, 2)
	mb := decode[api.MailboxDTO](t, do(t, router, http.MethodGet, "/api/agents/bank_a/mailbox", nil))
	require.Len(t, mb.Outbox, 1)

	tick(t, router, 1)
	agents := decode[[]api.AgentDTO](t, do(t, router, http.MethodGet, "/api/agents", nil))
	assert.False(t, agents[1].Alive)

	mb = decode[api.MailboxDTO](t, do(t, router, http.MethodGet, "/api/agents/bank_a/mailbox", nil))
	assert.Empty(t, mb.Outbox)
}
