/*
agent.go - Agent base type

PURPOSE:
  The common substrate for model agents: a name, an alive flag, one
  Ledger, one Mailbox, and a back-reference to the Simulation. Model
  behaviors (trading strategies, bartering, liquidity management) embed
  or wrap Agent; the engine only relies on the Party view.
*/
package sim

import (
	"github.com/warp/settlement-engine/accounting"
	"github.com/warp/settlement-engine/messaging"
)

// Agent is one participant in a simulation. Implements messaging.Party.
type Agent struct {
	name    string
	sim     *Simulation
	alive   bool
	ledger  *accounting.Ledger
	mailbox *messaging.Mailbox
	action  func(*Agent)
}

// NewAgent creates an agent bound to a simulation and registers it.
func NewAgent(name string, s *Simulation) *Agent {
	a := &Agent{
		name:   name,
		sim:    s,
		alive:  true,
		ledger: accounting.NewLedger(),
	}
	a.mailbox = messaging.NewMailbox(a)
	a.ledger.SetClock(s)
	s.Register(a)
	return a
}

func (a *Agent) Name() string                   { return a.name }
func (a *Agent) IsAlive() bool                  { return a.alive }
func (a *Agent) MainLedger() *accounting.Ledger { return a.ledger }
func (a *Agent) Mailbox() *messaging.Mailbox    { return a.mailbox }
func (a *Agent) Simulation() *Simulation        { return a.sim }
func (a *Agent) Clock() messaging.Clock         { return a.sim }
func (a *Agent) Time() int                      { return a.sim.Time() }

// SetAction installs the agent's per-tick behavior, run during the
// action phase before the postbox flush. Drivers that call agents
// directly may leave it unset.
func (a *Agent) SetAction(fn func(*Agent)) { a.action = fn }

// Act runs the installed behavior, if any. Dead agents do nothing.
func (a *Agent) Act() {
	if a.alive && a.action != nil {
		a.action(a)
	}
}

// SetAlive marks the agent alive or defaulted. A defaulted agent's
// outstanding obligations are written off by counterparties on their
// next mailbox step.
func (a *Agent) SetAlive(alive bool) { a.alive = alive }

// Cash returns the agent's cash holding.
func (a *Agent) Cash() float64 { return a.ledger.Cash() }

// AddCash books cash in.
func (a *Agent) AddCash(amount float64) error { return a.ledger.AddCash(amount) }

// Add routes a contract to the correct side of the ledger based on
// which party this agent is. Contracts where the agent is no party are
// ignored.
func (a *Agent) Add(c accounting.Contract) {
	switch {
	case c.AssetParty() == accounting.Party(a):
		a.ledger.AddAsset(c)
	case c.LiabilityParty() == accounting.Party(a):
		a.ledger.AddLiability(c)
	}
}

// Step runs the mailbox state transition. Dead agents stop processing;
// their pending obligations are written off by counterparties.
func (a *Agent) Step() {
	if a.alive {
		a.mailbox.Step()
	}
}

// =============================================================================
// SENDING - everything goes through the deferred postbox
// =============================================================================

// Send queues an arbitrary message for end-of-tick delivery.
func (a *Agent) Send(recipient messaging.Party, msg messaging.Message) {
	a.sim.Postbox().Send(recipient, msg)
}

// SendObligation queues an obligation for the recipient and mirrors it
// in this agent's outbox until the counterparty fulfils it.
func (a *Agent) SendObligation(recipient messaging.Party, o *messaging.Obligation) {
	a.sim.Postbox().Send(recipient, o)
	a.mailbox.AddToOutbox(o)
}

// SendCash queues a plain cash transfer.
func (a *Agent) SendCash(recipient messaging.Party, amount float64) {
	a.sim.Postbox().Send(recipient, messaging.CashMessage{Amount: amount})
}

// SendNote queues a free-form note.
func (a *Agent) SendNote(recipient messaging.Party, topic, body string) {
	a.sim.Postbox().Send(recipient, messaging.Note{Sender: a, Topic: topic, Body: body})
}

// Give transfers a quantity of a good: destroys it locally at its booked
// valuation and queues a GoodsMessage carrying that valuation for the
// recipient.
func (a *Agent) Give(recipient messaging.Party, good string, amount float64) error {
	unitValue := a.ledger.GoodValuation(good)
	if err := a.ledger.Destroy(good, amount, unitValue); err != nil {
		return err
	}
	a.sim.Postbox().Send(recipient, messaging.GoodsMessage{
		Good:      good,
		Amount:    amount,
		UnitValue: unitValue,
	})
	return nil
}
