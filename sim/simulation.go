/*
Package sim owns the simulation clock, the shared deferred postbox, and
the Agent base type.

PURPOSE:
  One Simulation instance per run, explicitly handed to every Agent at
  construction - there is no ambient global. A tick consists of:

    1. every agent acts (model code), enqueueing messages into the
       postbox or mutating its own ledger,
    2. the postbox is flushed into recipients' mailboxes,
    3. every agent's mailbox runs its per-tick state transition,
    4. the clock advances by one.

  Steps 1 and 3 touch only agent-local state (cross-agent effects go
  through the postbox), so a driver may parallelize them; the postbox
  append is already concurrency-safe.

SEE ALSO:
  - messaging: the postbox and mailbox protocol
  - agent.go: the Agent base type
*/
package sim

import (
	"log/slog"

	"github.com/warp/settlement-engine/messaging"
)

// Simulation is the global tick counter and deferred postbox, plus an
// optional registry of agents for drivers and inspection.
type Simulation struct {
	time    int
	postbox *messaging.Postbox
	agents  []*Agent
}

func New() *Simulation {
	return &Simulation{postbox: messaging.NewPostbox()}
}

// Time returns the current tick.
func (s *Simulation) Time() int { return s.time }

// AdvanceTime moves the clock forward one tick. Called exactly once per
// tick, after all mailbox steps.
func (s *Simulation) AdvanceTime() { s.time++ }

// Postbox returns the shared deferred-delivery queue.
func (s *Simulation) Postbox() *messaging.Postbox { return s.postbox }

// ProcessPostbox drains the deferred queue into recipients' mailboxes.
// Runs exactly once per tick, before any mailbox step.
func (s *Simulation) ProcessPostbox() error {
	return s.postbox.Flush()
}

// Register adds an agent to the registry. Agents created through
// NewAgent register themselves.
func (s *Simulation) Register(a *Agent) {
	s.agents = append(s.agents, a)
}

// Agents returns the registered agents in registration order.
func (s *Simulation) Agents() []*Agent { return s.agents }

// Agent looks up a registered agent by name.
func (s *Simulation) Agent(name string) *Agent {
	for _, a := range s.agents {
		if a.Name() == name {
			return a
		}
	}
	return nil
}

// RunTick performs one full tick for all registered agents: action
// phase, postbox flush, mailbox steps, clock advance. Agents without an
// installed action are driven externally and only get their mailbox
// stepped.
func (s *Simulation) RunTick() error {
	for _, a := range s.agents {
		a.Act()
	}
	if err := s.ProcessPostbox(); err != nil {
		return err
	}
	for _, a := range s.agents {
		a.Step()
	}
	s.AdvanceTime()
	slog.Debug("tick complete", "time", s.time, "agents", len(s.agents))
	return nil
}
