/*
obligation.go - A time-bound promise to pay

LIFECYCLE:
  Created -> Unopened -> Inbox -> Fulfilled (terminal)
                                  Defaulted-Dropped (terminal, outbox only)

TIMING:
  Created at tick T with lead time n (n >= 1):
    timeToOpen    = T + 1      visible to the counterparty from T+1
    timeToPay     = T + n      due date
    timeToReceive = T + n + 1  when the payment lands

  The constructor rejects lead times that would make the obligation due
  before it can be opened.

FULFILMENT:
  The core tracks state and never auto-pays. Models attach the settlement
  action (the bookings that move the cash) via SetFulfilAction; the action
  is responsible for calling SetFulfilled after value actually moved.
*/
package messaging

import "github.com/warp/settlement-engine/accounting"

// Obligation is a promise by the contract's liability party to pay the
// asset party an amount by a deadline.
type Obligation struct {
	amount float64

	from Party // liability party: who pays
	to   Party // asset party: who collects

	clock Clock

	timeToOpen    int
	timeToPay     int
	timeToReceive int

	fulfilled bool
	fulfil    func(*Obligation)
}

// NewObligation derives an obligation from a contract. The payer is the
// contract's liability party, the collector its asset party; both must
// participate in the messaging protocol. The clock is shared by all
// agents of one simulation and is resolved through the payer.
func NewObligation(c accounting.Contract, amount float64, leadTime int) (*Obligation, error) {
	from, ok := c.LiabilityParty().(Party)
	if !ok {
		return nil, ErrNotAParty
	}
	to, ok := c.AssetParty().(Party)
	if !ok {
		return nil, ErrNotAParty
	}

	clock := from.Clock()
	now := clock.Time()
	o := &Obligation{
		amount:        amount,
		from:          from,
		to:            to,
		clock:         clock,
		timeToOpen:    now + 1,
		timeToPay:     now + leadTime,
		timeToReceive: now + leadTime + 1,
	}
	if o.timeToPay < o.timeToOpen {
		return nil, accounting.ErrInvalidLeadTime
	}
	return o, nil
}

func (o *Obligation) Amount() float64          { return o.amount }
func (o *Obligation) SetAmount(amount float64) { o.amount = amount }

// From returns the liability party (the payer).
func (o *Obligation) From() Party { return o.from }

// To returns the asset party (the collector).
func (o *Obligation) To() Party { return o.to }

func (o *Obligation) TimeToOpen() int    { return o.timeToOpen }
func (o *Obligation) TimeToPay() int     { return o.timeToPay }
func (o *Obligation) TimeToReceive() int { return o.timeToReceive }

// HasArrived reports whether the obligation opens this tick.
func (o *Obligation) HasArrived() bool { return o.clock.Time() == o.timeToOpen }

// IsDue reports whether the obligation is due this tick.
func (o *Obligation) IsDue() bool { return o.clock.Time() == o.timeToPay }

func (o *Obligation) IsFulfilled() bool { return o.fulfilled }

// SetFulfilled marks the obligation paid. Transitions once; marking an
// already-fulfilled obligation is a no-op.
func (o *Obligation) SetFulfilled() { o.fulfilled = true }

// SetFulfilAction attaches the settlement action run by Fulfil. The
// action must call SetFulfilled itself once value has moved.
func (o *Obligation) SetFulfilAction(fn func(*Obligation)) { o.fulfil = fn }

// Fulfil runs the attached settlement action, if any. Without one this
// is a no-op: the core never pays on its own.
func (o *Obligation) Fulfil() {
	if o.fulfil != nil {
		o.fulfil(o)
	}
}
