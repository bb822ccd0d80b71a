/*
postbox.go - Shared deferred-delivery queue

PURPOSE:
  Buffers every (recipient, message) pair produced during a tick and
  delivers them only when flushed, after all agents have acted. A message
  created during tick T is therefore never visible to its recipient
  within tick T, no matter the order agents run in.

CONCURRENCY:
  Send is mutex-guarded so a driver may run agents' action phases in
  parallel; the flush itself runs once per tick, single-threaded, in
  FIFO order.
*/
package messaging

import "sync"

// Delivery is one queued (recipient, message) pair.
type Delivery struct {
	Recipient Party
	Message   Message
}

// Postbox is the simulation-global deferred queue. One per simulation,
// owned by it, drained exactly once per tick before any mailbox steps.
type Postbox struct {
	mu    sync.Mutex
	queue []Delivery
}

func NewPostbox() *Postbox {
	return &Postbox{}
}

// Send queues a message for end-of-tick delivery. Safe for concurrent
// use.
func (p *Postbox) Send(recipient Party, msg Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queue = append(p.queue, Delivery{Recipient: recipient, Message: msg})
}

// Len returns the number of queued deliveries.
func (p *Postbox) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// Flush delivers every queued message to its recipient's mailbox in
// send order, then clears the queue. The first delivery error aborts the
// flush; the remaining queue is preserved for inspection.
func (p *Postbox) Flush() error {
	p.mu.Lock()
	pending := p.queue
	p.queue = nil
	p.mu.Unlock()

	for i, d := range pending {
		if err := d.Recipient.Mailbox().Receive(d.Message); err != nil {
			p.mu.Lock()
			p.queue = append(pending[i+1:], p.queue...)
			p.mu.Unlock()
			return err
		}
	}
	return nil
}
