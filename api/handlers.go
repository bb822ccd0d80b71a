/*
handlers.go - HTTP API handlers for simulation inspection and control

PURPOSE:
  Exposes a running simulation via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to the engine.

ENDPOINTS:
  Agents:
    GET    /api/agents                 List all agents
    GET    /api/agents/{name}          Balance sheet and summary
    GET    /api/agents/{name}/mailbox  Mailbox state
    GET    /api/agents/{name}/journal  Booking journal

  Clock:
    GET    /api/time                   Current tick
    POST   /api/tick                   Advance one or more ticks

  Scenarios:
    GET    /api/scenarios              List demo scenarios
    GET    /api/scenarios/current      Currently loaded scenario
    POST   /api/scenarios/load         Load a demo scenario

ARCHITECTURE:
  Handler owns the Simulation plus one in-memory journal per agent.
  Scenario loading replaces the whole simulation; the engine itself is
  single-threaded, so every handler runs under the Handler mutex.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Unknown agent or scenario
  - 500: Internal errors

SECURITY NOTE:
  No authentication middleware. All endpoints are public; this is a
  development and demo surface.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/warp/settlement-engine/accounting/journal"
	"github.com/warp/settlement-engine/messaging"
	"github.com/warp/settlement-engine/report"
	"github.com/warp/settlement-engine/sim"
	"github.com/warp/settlement-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	mu  sync.Mutex
	sim *sim.Simulation

	// One inspection journal per agent, attached at scenario load.
	journals map[string]*journal.Memory

	// Optional durable journal export; may be nil.
	Durable *sqlite.Store

	currentScenario string
}

// NewHandler creates a handler around an empty simulation. Load a
// scenario (or attach agents through Simulation) before serving
// anything useful.
func NewHandler(durable *sqlite.Store) *Handler {
	return &Handler{
		sim:      sim.New(),
		journals: make(map[string]*journal.Memory),
		Durable:  durable,
	}
}

// Simulation returns the handler's current simulation.
func (h *Handler) Simulation() *sim.Simulation {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sim
}

// track attaches the inspection journal (and durable export, when
// configured) to a newly created agent.
func (h *Handler) track(a *sim.Agent) {
	m := journal.NewMemory()
	h.journals[a.Name()] = m
	if h.Durable != nil {
		a.MainLedger().SetRecorder(journal.Tee(m, h.Durable.Recorder(a.Name())))
		return
	}
	a.MainLedger().SetRecorder(m)
}

// =============================================================================
// AGENT ENDPOINTS
// =============================================================================

// ListAgents returns a summary of every registered agent.
func (h *Handler) ListAgents(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	agents := h.sim.Agents()
	out := make([]AgentDTO, 0, len(agents))
	for _, a := range agents {
		out = append(out, toAgentDTO(a))
	}
	writeJSON(w, http.StatusOK, out)
}

// GetAgent returns one agent's summary plus its full balance sheet.
func (h *Handler) GetAgent(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	a := h.sim.Agent(chi.URLParam(r, "name"))
	if a == nil {
		writeError(w, http.StatusNotFound, "agent not found", nil)
		return
	}

	writeJSON(w, http.StatusOK, AgentDetailDTO{
		AgentDTO:     toAgentDTO(a),
		BalanceSheet: report.BalanceSheet(a.Name(), a.MainLedger()),
	})
}

// GetMailbox returns an agent's mailbox queues and totals.
func (h *Handler) GetMailbox(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	a := h.sim.Agent(chi.URLParam(r, "name"))
	if a == nil {
		writeError(w, http.StatusNotFound, "agent not found", nil)
		return
	}

	mb := a.Mailbox()
	writeJSON(w, http.StatusOK, MailboxDTO{
		Unopened:      toObligationDTOs(mb.Unopened()),
		Inbox:         toObligationDTOs(mb.Inbox()),
		Outbox:        toObligationDTOs(mb.Outbox()),
		MaturedTotal:  mb.MaturedObligationsTotal(),
		PendingTotal:  mb.PendingObligationsTotal(),
		IncomingTotal: mb.PendingPaymentsToMeTotal(),
	})
}

// GetJournal returns an agent's booking journal in record order.
func (h *Handler) GetJournal(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	name := chi.URLParam(r, "name")
	if h.sim.Agent(name) == nil {
		writeError(w, http.StatusNotFound, "agent not found", nil)
		return
	}

	out := []JournalEntryDTO{}
	if m := h.journals[name]; m != nil {
		for _, e := range m.All() {
			out = append(out, JournalEntryDTO{
				Seq:    e.Seq,
				Tick:   e.Tick,
				Debit:  e.Debit,
				Credit: e.Credit,
				Amount: e.Amount,
				Memo:   e.Memo,
			})
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// =============================================================================
// CLOCK ENDPOINTS
// =============================================================================

// GetTime returns the current tick.
func (h *Handler) GetTime(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	writeJSON(w, http.StatusOK, TimeDTO{Time: h.sim.Time()})
}

// Tick advances the simulation. Body is optional; default is one tick.
func (h *Handler) Tick(w http.ResponseWriter, r *http.Request) {
	var req TickRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body", err)
			return
		}
	}
	if req.Ticks <= 0 {
		req.Ticks = 1
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for i := 0; i < req.Ticks; i++ {
		if err := h.sim.RunTick(); err != nil {
			writeError(w, http.StatusInternalServerError, "tick failed", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, TickResponse{Ticks: req.Ticks, Time: h.sim.Time()})
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toAgentDTO(a *sim.Agent) AgentDTO {
	return AgentDTO{
		Name:   a.Name(),
		Alive:  a.IsAlive(),
		Cash:   a.Cash(),
		Equity: a.MainLedger().EquityValuation(),
	}
}

func toObligationDTOs(obs []*messaging.Obligation) []ObligationDTO {
	out := make([]ObligationDTO, 0, len(obs))
	for _, o := range obs {
		out = append(out, ObligationDTO{
			From:          o.From().Name(),
			To:            o.To().Name(),
			Amount:        o.Amount(),
			TimeToOpen:    o.TimeToOpen(),
			TimeToPay:     o.TimeToPay(),
			TimeToReceive: o.TimeToReceive(),
			Due:           o.IsDue(),
			Fulfilled:     o.IsFulfilled(),
		})
	}
	return out
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
