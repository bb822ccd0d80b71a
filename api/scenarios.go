/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate a fresh simulation with
	agents, contracts, and behaviors demonstrating the engine. Loading a
	scenario replaces the handler's current simulation entirely.

AVAILABLE SCENARIOS:

	interbank:   Lender requests repayment of a loan; borrower settles
	             when the obligation matures
	goods-chain: A parcel of grain passed down a chain of traders, one
	             hop per tick
	default:     A borrower defaults mid-flight; the receivable is
	             written off

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "interbank"}

ADDING NEW SCENARIOS:
 1. Add to the 'scenarios' slice with ID, name, description
 2. Create loader function: loadXxxScenario(h)
 3. Add case to LoadScenario

SEE ALSO:
  - handlers.go: ListScenarios, LoadScenario handlers
  - sim: the Agent and Simulation types scenarios assemble
*/
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/warp/settlement-engine/accounting"
	"github.com/warp/settlement-engine/accounting/journal"
	"github.com/warp/settlement-engine/messaging"
	"github.com/warp/settlement-engine/sim"
)

// =============================================================================
// LOAN CONTRACT
// =============================================================================

// Loan is a fixed-principal loan between two agents: an asset of the
// lender, a liability of the borrower.
type Loan struct {
	lender    *sim.Agent
	borrower  *sim.Agent
	principal float64
}

// NewLoan creates a loan and books it on both parties' ledgers.
func NewLoan(lender, borrower *sim.Agent, principal float64) *Loan {
	ln := &Loan{lender: lender, borrower: borrower, principal: principal}
	lender.Add(ln)
	borrower.Add(ln)
	return ln
}

func (ln *Loan) AssetParty() accounting.Party      { return ln.lender }
func (ln *Loan) LiabilityParty() accounting.Party  { return ln.borrower }
func (ln *Loan) Valuation(accounting.Side) float64 { return ln.principal }
func (ln *Loan) Name() string                      { return "Loan" }
func (ln *Loan) Kind() string                      { return "loan" }

// RequestPayment creates a repayment obligation carrying a settle
// action: when fulfilled, the borrower books the payment against the
// loan account and wires the cash.
func (ln *Loan) RequestPayment(amount float64, leadTime int) (*messaging.Obligation, error) {
	o, err := messaging.NewObligation(ln, amount, leadTime)
	if err != nil {
		return nil, err
	}
	o.SetFulfilAction(func(o *messaging.Obligation) {
		if err := ln.borrower.MainLedger().PayLiability(o.Amount(), ln); err != nil {
			slog.Warn("loan repayment failed", "borrower", ln.borrower.Name(), "error", err)
			return
		}
		ln.borrower.SendCash(ln.lender, o.Amount())
		o.SetFulfilled()
	})
	return o, nil
}

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "interbank",
		Name:        "Interbank Loan",
		Description: "Lender requests repayment; borrower settles at maturity",
	},
	{
		ID:          "goods-chain",
		Name:        "Goods Chain",
		Description: "Grain passed down a chain of traders, one hop per tick",
	},
	{
		ID:          "default",
		Name:        "Borrower Default",
		Description: "Borrower dies mid-flight; the receivable is written off",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, s := range scenarios {
		if s.ID == h.currentScenario {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario replaces the current simulation with a fresh one built
// by the named loader.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.load(req.ScenarioID); err != nil {
		writeError(w, http.StatusNotFound, err.Error(), nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "loaded",
		"scenario": req.ScenarioID,
	})
}

// Load loads a scenario by ID outside an HTTP request, typically from
// a startup flag.
func (h *Handler) Load(id string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.load(id)
}

func (h *Handler) load(id string) error {
	h.sim = sim.New()
	h.journals = make(map[string]*journal.Memory)

	switch id {
	case "interbank":
		h.loadInterbankScenario()
	case "goods-chain":
		h.loadGoodsChainScenario()
	case "default":
		h.loadDefaultScenario()
	default:
		return fmt.Errorf("unknown scenario: %s", id)
	}

	h.currentScenario = id
	return nil
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

// newAgent creates an agent in the handler's simulation with journal
// tracking attached.
func (h *Handler) newAgent(name string) *sim.Agent {
	a := sim.NewAgent(name, h.sim)
	h.track(a)
	return a
}

// loadInterbankScenario: bank_a lent bank_b 100 before the run starts.
// At tick 0 the lender requests repayment with a lead time of 2; the
// borrower settles matured requests every tick.
func (h *Handler) loadInterbankScenario() {
	lender := h.newAgent("bank_a")
	borrower := h.newAgent("bank_b")

	lender.AddCash(400)
	borrower.AddCash(300)
	loan := NewLoan(lender, borrower, 100)

	lender.SetAction(func(self *sim.Agent) {
		if self.Time() != 0 {
			return
		}
		o, err := loan.RequestPayment(100, 2)
		if err != nil {
			slog.Warn("payment request failed", "error", err)
			return
		}
		self.SendObligation(borrower, o)
	})
	borrower.SetAction(func(self *sim.Agent) {
		self.Mailbox().FulfilMaturedRequests()
	})

	lender.MainLedger().SetInitialValuations()
	borrower.MainLedger().SetInitialValuations()
}

// loadGoodsChainScenario: trader_1 starts with 3 grain; every trader
// hands its grain to the next one down the line.
func (h *Handler) loadGoodsChainScenario() {
	names := []string{"trader_1", "trader_2", "trader_3", "trader_4"}
	agents := make([]*sim.Agent, len(names))
	for i, name := range names {
		agents[i] = h.newAgent(name)
	}

	agents[0].MainLedger().Create("grain", 3, 2.0)

	for i := 0; i < len(agents)-1; i++ {
		next := agents[i+1]
		agents[i].SetAction(func(self *sim.Agent) {
			qty := self.MainLedger().Inventory().Quantity("grain")
			if qty <= 0 {
				return
			}
			if err := self.Give(next, "grain", qty); err != nil {
				slog.Warn("handoff failed", "trader", self.Name(), "error", err)
			}
		})
	}

	for _, a := range agents {
		a.MainLedger().SetInitialValuations()
	}
}

// loadDefaultScenario: like interbank, but the borrower never settles
// and dies at tick 2, leaving the lender to write off the receivable.
func (h *Handler) loadDefaultScenario() {
	lender := h.newAgent("bank_a")
	borrower := h.newAgent("shaky_corp")

	lender.AddCash(200)
	loan := NewLoan(lender, borrower, 150)

	lender.SetAction(func(self *sim.Agent) {
		if self.Time() != 0 {
			return
		}
		o, err := loan.RequestPayment(150, 4)
		if err != nil {
			slog.Warn("payment request failed", "error", err)
			return
		}
		self.SendObligation(borrower, o)
	})
	borrower.SetAction(func(self *sim.Agent) {
		if self.Time() == 2 {
			self.SetAlive(false)
		}
	})

	lender.MainLedger().SetInitialValuations()
	borrower.MainLedger().SetInitialValuations()
}
