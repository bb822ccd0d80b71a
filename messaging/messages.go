/*
Package messaging implements the deferred, time-gated message protocol
between agents: obligations (promises to pay), goods and cash transfers,
and plain notes.

PURPOSE:
  Agents never mutate each other's state directly. Everything an agent
  sends during tick T goes into a shared deferred postbox, is flushed to
  the recipient's mailbox at the end of the tick, and becomes visible to
  the recipient no earlier than tick T+1. The one-tick latency is what
  makes results independent of the order agents are iterated in.

MESSAGE UNION:
  Message is a closed sum over *Obligation, GoodsMessage, CashMessage and
  Note, dispatched with a type switch at delivery time. No reflection, no
  open registry.

SEE ALSO:
  - obligation.go: the obligation lifecycle
  - mailbox.go: the per-agent state machine
  - postbox.go: the deferred delivery queue
*/
package messaging

import (
	"errors"

	"github.com/warp/settlement-engine/accounting"
)

// ErrNotAParty is returned when a contract party does not participate in
// the messaging protocol (it implements accounting.Party only).
var ErrNotAParty = errors.New("contract party is not a messaging party")

// Clock supplies the current simulation tick.
type Clock interface {
	Time() int
}

// Party is the view of an agent the messaging layer needs. Implemented
// by sim.Agent.
type Party interface {
	accounting.Party

	// MainLedger is where delivered goods and cash are booked.
	MainLedger() *accounting.Ledger

	// Clock resolves the current tick, shared by all agents of one
	// simulation.
	Clock() Clock

	// Mailbox is where deliveries land.
	Mailbox() *Mailbox
}

// =============================================================================
// MESSAGE UNION
// =============================================================================

// Message is the closed union of everything that can flow through the
// postbox. The marker method keeps the set closed at compile time.
type Message interface {
	isMessage()
}

// GoodsMessage transfers a quantity of a physical good, booked into the
// recipient's ledger at the sender's valuation on delivery.
type GoodsMessage struct {
	Good      string
	Amount    float64
	UnitValue float64
}

// CashMessage transfers plain cash.
type CashMessage struct {
	Amount float64
}

// Note is a free-form message with no ledger effect.
type Note struct {
	Sender Party
	Topic  string
	Body   string
}

func (GoodsMessage) isMessage() {}
func (CashMessage) isMessage()  {}
func (Note) isMessage()         {}
func (*Obligation) isMessage()  {}
