package messaging

import (
	"errors"
	"testing"

	"github.com/warp/settlement-engine/accounting"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

type fakeClock struct{ now int }

func (c *fakeClock) Time() int { return c.now }

type stubAgent struct {
	name    string
	alive   bool
	ledger  *accounting.Ledger
	clock   *fakeClock
	mailbox *Mailbox
}

func newStubAgent(name string, clock *fakeClock) *stubAgent {
	a := &stubAgent{name: name, alive: true, ledger: accounting.NewLedger(), clock: clock}
	a.mailbox = NewMailbox(a)
	return a
}

func (a *stubAgent) Name() string                   { return a.name }
func (a *stubAgent) IsAlive() bool                  { return a.alive }
func (a *stubAgent) MainLedger() *accounting.Ledger { return a.ledger }
func (a *stubAgent) Clock() Clock                   { return a.clock }
func (a *stubAgent) Mailbox() *Mailbox              { return a.mailbox }

type stubLoan struct {
	lender, borrower *stubAgent
}

func (ln *stubLoan) AssetParty() accounting.Party      { return ln.lender }
func (ln *stubLoan) LiabilityParty() accounting.Party  { return ln.borrower }
func (ln *stubLoan) Valuation(accounting.Side) float64 { return 0 }
func (ln *stubLoan) Name() string                      { return "Loan" }
func (ln *stubLoan) Kind() string                      { return "loan" }

func newPair(clock *fakeClock) (lender, borrower *stubAgent, loan *stubLoan) {
	lender = newStubAgent("lender", clock)
	borrower = newStubAgent("borrower", clock)
	return lender, borrower, &stubLoan{lender: lender, borrower: borrower}
}

// =============================================================================
// OBLIGATION TIMING
// =============================================================================

func TestObligation_TimingFromLeadTime(t *testing.T) {
	// GIVEN: an obligation created at tick 0 with lead time 2
	// THEN: opens at 1, due at 2, received at 3
	clock := &fakeClock{}
	_, _, loan := newPair(clock)

	o, err := NewObligation(loan, 100, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.TimeToOpen() != 1 || o.TimeToPay() != 2 || o.TimeToReceive() != 3 {
		t.Errorf("wrong timing: open=%d pay=%d receive=%d",
			o.TimeToOpen(), o.TimeToPay(), o.TimeToReceive())
	}
	if o.From().Name() != "borrower" || o.To().Name() != "lender" {
		t.Errorf("parties mixed up: from=%s to=%s", o.From().Name(), o.To().Name())
	}
}

func TestObligation_LeadTimeZero_Rejected(t *testing.T) {
	clock := &fakeClock{}
	_, _, loan := newPair(clock)

	_, err := NewObligation(loan, 100, 0)

	if !errors.Is(err, accounting.ErrInvalidLeadTime) {
		t.Fatalf("expected ErrInvalidLeadTime, got %v", err)
	}
}

func TestObligation_DueAndArrivalWindows(t *testing.T) {
	clock := &fakeClock{}
	_, _, loan := newPair(clock)
	o, _ := NewObligation(loan, 100, 2)

	clock.now = 1
	if !o.HasArrived() || o.IsDue() {
		t.Error("tick 1: should have arrived, not be due")
	}
	clock.now = 2
	if o.HasArrived() || !o.IsDue() {
		t.Error("tick 2: should be due, arrival window passed")
	}
	clock.now = 3
	if o.IsDue() {
		t.Error("tick 3: due window is a single tick")
	}
}

func TestObligation_FulfilledTransitionsOnce(t *testing.T) {
	clock := &fakeClock{}
	_, _, loan := newPair(clock)
	o, _ := NewObligation(loan, 100, 1)

	if o.IsFulfilled() {
		t.Fatal("new obligation must be unfulfilled")
	}
	o.SetFulfilled()
	o.SetFulfilled()
	if !o.IsFulfilled() {
		t.Fatal("obligation must stay fulfilled")
	}
}

func TestObligation_FulfilRunsAttachedAction(t *testing.T) {
	clock := &fakeClock{}
	_, _, loan := newPair(clock)
	o, _ := NewObligation(loan, 100, 1)

	// Without an action, Fulfil is a no-op: the core never pays.
	o.Fulfil()
	if o.IsFulfilled() {
		t.Fatal("bare Fulfil must not mark the obligation paid")
	}

	ran := false
	o.SetFulfilAction(func(ob *Obligation) {
		ran = true
		ob.SetFulfilled()
	})
	o.Fulfil()
	if !ran || !o.IsFulfilled() {
		t.Error("attached action should run and settle")
	}
}

// =============================================================================
// MAILBOX STATE MACHINE
// =============================================================================

func TestMailbox_PromoteOnlyArrived(t *testing.T) {
	clock := &fakeClock{}
	lender, _, loan := newPair(clock)
	early, _ := NewObligation(loan, 10, 1) // opens at 1
	clock.now = 1
	late, _ := NewObligation(loan, 20, 3) // opens at 2

	lender.mailbox.Receive(early)
	lender.mailbox.Receive(late)

	lender.mailbox.Step() // at tick 1
	if len(lender.mailbox.Inbox()) != 1 || lender.mailbox.Inbox()[0] != early {
		t.Fatalf("expected only the arrived obligation in inbox, got %d", len(lender.mailbox.Inbox()))
	}
	if len(lender.mailbox.Unopened()) != 1 {
		t.Fatalf("expected the later obligation to stay unopened")
	}

	clock.now = 2
	lender.mailbox.Step()
	if len(lender.mailbox.Inbox()) != 2 || len(lender.mailbox.Unopened()) != 0 {
		t.Error("second obligation should promote at its open tick")
	}
}

func TestMailbox_PruneFulfilled(t *testing.T) {
	clock := &fakeClock{}
	lender, borrower, loan := newPair(clock)
	o, _ := NewObligation(loan, 10, 1)

	lender.mailbox.Receive(o)
	borrower.mailbox.AddToOutbox(o)
	clock.now = 1
	lender.mailbox.Step()
	borrower.mailbox.Step()

	o.SetFulfilled()
	clock.now = 2
	lender.mailbox.Step()
	borrower.mailbox.Step()

	if len(lender.mailbox.Inbox()) != 0 {
		t.Error("fulfilled obligation must leave the inbox")
	}
	if len(borrower.mailbox.Outbox()) != 0 {
		t.Error("fulfilled obligation must leave the outbox")
	}
}

func TestMailbox_DefaultWriteOff(t *testing.T) {
	// GIVEN: an issued obligation pending in the creditor's outbox
	// WHEN: the debtor is marked not-alive before the step
	// THEN: the outbox entry is written off
	clock := &fakeClock{}
	_, borrower, loan := newPair(clock)
	o, _ := NewObligation(loan, 10, 2)
	borrower.mailbox.AddToOutbox(o)

	borrower.alive = false
	borrower.mailbox.Step()

	if len(borrower.mailbox.Outbox()) != 0 {
		t.Error("obligations from a defaulted debtor must be dropped")
	}
}

func TestMailbox_ReceiveGoods_BooksImmediately(t *testing.T) {
	clock := &fakeClock{}
	lender, _, _ := newPair(clock)

	if err := lender.mailbox.Receive(GoodsMessage{Good: "wheat", Amount: 5, UnitValue: 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := lender.ledger.Inventory().Quantity("wheat"); got != 5 {
		t.Errorf("expected 5 wheat booked, got %v", got)
	}
	if got := lender.ledger.GoodValuation("wheat"); got != 2 {
		t.Errorf("expected unit value 2, got %v", got)
	}
}

func TestMailbox_ReceiveCash_BooksImmediately(t *testing.T) {
	clock := &fakeClock{}
	lender, _, _ := newPair(clock)

	lender.mailbox.Receive(CashMessage{Amount: 75})

	if got := lender.ledger.Cash(); got != 75 {
		t.Errorf("expected 75 cash, got %v", got)
	}
}

func TestMailbox_Notes_QueueAndDrain(t *testing.T) {
	clock := &fakeClock{}
	lender, borrower, _ := newPair(clock)

	lender.mailbox.Receive(Note{Sender: borrower, Topic: "greeting", Body: "hello"})

	notes := lender.mailbox.Notes()
	if len(notes) != 1 || notes[0].Topic != "greeting" {
		t.Fatalf("expected one greeting note, got %v", notes)
	}
	if len(lender.mailbox.Notes()) != 0 {
		t.Error("Notes must drain the queue")
	}
}

// =============================================================================
// AGGREGATE QUERIES
// =============================================================================

func TestMailbox_Totals(t *testing.T) {
	clock := &fakeClock{}
	lender, borrower, loan := newPair(clock)

	due, _ := NewObligation(loan, 100, 1)  // opens at 1, due at 1
	later, _ := NewObligation(loan, 50, 5) // opens at 1, due at 5
	lender.mailbox.Receive(due)
	lender.mailbox.Receive(later)
	borrower.mailbox.AddToOutbox(due)
	borrower.mailbox.AddToOutbox(later)

	clock.now = 1
	lender.mailbox.Step()

	if got := lender.mailbox.MaturedObligationsTotal(); got != 100 {
		t.Errorf("expected matured total 100, got %v", got)
	}
	if got := lender.mailbox.PendingObligationsTotal(); got != 150 {
		t.Errorf("expected pending total 150 (both arrived), got %v", got)
	}

	due.SetFulfilled()
	if got := borrower.mailbox.PendingPaymentsToMeTotal(); got != 100 {
		t.Errorf("expected confirmed incoming 100, got %v", got)
	}
}

// =============================================================================
// POSTBOX
// =============================================================================

func TestPostbox_FlushDeliversFIFOAndClears(t *testing.T) {
	clock := &fakeClock{}
	lender, _, loan := newPair(clock)
	first, _ := NewObligation(loan, 1, 1)
	second, _ := NewObligation(loan, 2, 1)

	pb := NewPostbox()
	pb.Send(lender, first)
	pb.Send(lender, second)

	if err := pb.Flush(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pb.Len() != 0 {
		t.Error("flush must clear the queue")
	}
	unopened := lender.mailbox.Unopened()
	if len(unopened) != 2 || unopened[0] != first || unopened[1] != second {
		t.Error("deliveries must preserve send order")
	}
}

func TestPostbox_MessagesInvisibleUntilFlush(t *testing.T) {
	clock := &fakeClock{}
	lender, _, loan := newPair(clock)
	o, _ := NewObligation(loan, 1, 1)

	pb := NewPostbox()
	pb.Send(lender, o)

	if len(lender.mailbox.Unopened()) != 0 {
		t.Fatal("queued message must not be visible before the flush")
	}
	pb.Flush()
	if len(lender.mailbox.Unopened()) != 1 {
		t.Fatal("queued message must be visible after the flush")
	}
}
