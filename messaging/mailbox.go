/*
mailbox.go - Per-agent delivery state machine

PURPOSE:
  Holds an agent's obligations in three stages (unopened, inbox, outbox)
  plus received notes, and advances them once per tick.

STEP ORDER (fixed; the order is what makes runs deterministic):
  1. Drop fulfilled obligations from inbox and outbox.
  2. Drop outbox obligations whose debtor is no longer alive - the
     uncollectible-receivable write-off on counterparty default.
  3. Promote unopened obligations that have arrived into the inbox.

INVARIANT:
  An obligation is in exactly one of {unopened, inbox} at any time. The
  outbox mirrors the agent's own issued obligations until the
  counterparty fulfils them or the debtor defaults.

DELIVERY:
  Receive dispatches on the message union: obligations queue as
  unopened; goods and cash have no open/due distinction and are booked
  into the owner's ledger immediately; notes queue for the model to read.
*/
package messaging

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Mailbox is the per-agent holding area for inbound and outbound
// obligations and messages.
type Mailbox struct {
	owner Party

	unopened []*Obligation
	inbox    []*Obligation
	outbox   []*Obligation
	notes    []Note
}

func NewMailbox(owner Party) *Mailbox {
	return &Mailbox{owner: owner}
}

// =============================================================================
// DELIVERY
// =============================================================================

// Receive delivers one message. Called by the postbox flush, never
// directly by other agents.
func (m *Mailbox) Receive(msg Message) error {
	switch v := msg.(type) {
	case *Obligation:
		m.unopened = append(m.unopened, v)
	case GoodsMessage:
		return m.owner.MainLedger().Create(v.Good, v.Amount, v.UnitValue)
	case CashMessage:
		return m.owner.MainLedger().AddCash(v.Amount)
	case Note:
		m.notes = append(m.notes, v)
	default:
		return fmt.Errorf("unknown message type %T", msg)
	}
	return nil
}

// AddToOutbox records an obligation this agent issued, pending the
// counterparty's fulfilment.
func (m *Mailbox) AddToOutbox(o *Obligation) {
	m.outbox = append(m.outbox, o)
}

// =============================================================================
// PER-TICK STATE TRANSITION
// =============================================================================

// Step advances the state machine one tick. See the fixed order above.
func (m *Mailbox) Step() {
	m.inbox = keep(m.inbox, func(o *Obligation) bool {
		return !o.fulfilled
	})
	m.outbox = keep(m.outbox, func(o *Obligation) bool {
		return !o.fulfilled && o.from.IsAlive()
	})

	arrived := keep(m.unopened, (*Obligation).HasArrived)
	m.unopened = keep(m.unopened, func(o *Obligation) bool {
		return !o.HasArrived()
	})
	m.inbox = append(m.inbox, arrived...)
}

func keep(obligations []*Obligation, pred func(*Obligation) bool) []*Obligation {
	var out []*Obligation
	for _, o := range obligations {
		if pred(o) {
			out = append(out, o)
		}
	}
	return out
}

// =============================================================================
// AGGREGATE QUERIES - read-only reductions
// =============================================================================

// MaturedObligationsTotal sums unfulfilled obligations due this tick.
func (m *Mailbox) MaturedObligationsTotal() float64 {
	out := 0.0
	for _, o := range m.inbox {
		if o.IsDue() && !o.fulfilled {
			out += o.amount
		}
	}
	return out
}

// PendingObligationsTotal sums every unfulfilled obligation in the inbox.
func (m *Mailbox) PendingObligationsTotal() float64 {
	out := 0.0
	for _, o := range m.inbox {
		if !o.fulfilled {
			out += o.amount
		}
	}
	return out
}

// PendingPaymentsToMeTotal sums fulfilled outbox entries - payments the
// counterparty has confirmed but this agent has not yet received.
func (m *Mailbox) PendingPaymentsToMeTotal() float64 {
	out := 0.0
	for _, o := range m.outbox {
		if o.fulfilled {
			out += o.amount
		}
	}
	return out
}

// FulfilAllRequests runs the settlement action of every unfulfilled
// inbox obligation.
func (m *Mailbox) FulfilAllRequests() {
	for _, o := range m.inbox {
		if !o.fulfilled {
			o.Fulfil()
		}
	}
}

// FulfilMaturedRequests runs the settlement action of every unfulfilled
// obligation due this tick.
func (m *Mailbox) FulfilMaturedRequests() {
	for _, o := range m.inbox {
		if o.IsDue() && !o.fulfilled {
			o.Fulfil()
		}
	}
}

// =============================================================================
// ACCESSORS
// =============================================================================

func (m *Mailbox) Unopened() []*Obligation { return m.unopened }
func (m *Mailbox) Inbox() []*Obligation    { return m.inbox }
func (m *Mailbox) Outbox() []*Obligation   { return m.outbox }

// Notes returns received notes and clears the queue.
func (m *Mailbox) Notes() []Note {
	out := m.notes
	m.notes = nil
	return out
}

// =============================================================================
// INSPECTION
// =============================================================================

func (m *Mailbox) String() string {
	if len(m.unopened) == 0 && len(m.inbox) == 0 && len(m.outbox) == 0 {
		return "mailbox is empty"
	}
	var b strings.Builder
	section := func(label string, obligations []*Obligation) {
		if len(obligations) == 0 {
			return
		}
		fmt.Fprintf(&b, "%s:\n", label)
		for _, o := range obligations {
			fmt.Fprintf(&b, "  %s pays %s %.2f on tick %d, to arrive by tick %d\n",
				o.from.Name(), o.to.Name(), o.amount, o.timeToPay, o.timeToReceive)
		}
	}
	section("unopened", m.unopened)
	section("inbox", m.inbox)
	section("outbox", m.outbox)
	return strings.TrimRight(b.String(), "\n")
}

// PrintMailbox writes the mailbox contents to stdout.
func (m *Mailbox) PrintMailbox() {
	m.Fprint(os.Stdout)
}

func (m *Mailbox) Fprint(w io.Writer) {
	fmt.Fprintln(w, m.String())
}
