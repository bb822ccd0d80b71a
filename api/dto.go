/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal engine types from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data
  carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - report: the Statement embedded in agent detail responses
*/
package api

import (
	"github.com/warp/settlement-engine/report"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// AgentDTO is the list-view summary of one agent.
type AgentDTO struct {
	Name   string  `json:"name"`
	Alive  bool    `json:"alive"`
	Cash   float64 `json:"cash"`
	Equity float64 `json:"equity"`
}

// AgentDetailDTO is the full inspection view of one agent.
type AgentDetailDTO struct {
	AgentDTO
	BalanceSheet report.Statement `json:"balance_sheet"`
}

// ObligationDTO is one obligation as seen from a mailbox.
type ObligationDTO struct {
	From          string  `json:"from"`
	To            string  `json:"to"`
	Amount        float64 `json:"amount"`
	TimeToOpen    int     `json:"time_to_open"`
	TimeToPay     int     `json:"time_to_pay"`
	TimeToReceive int     `json:"time_to_receive"`
	Due           bool    `json:"due"`
	Fulfilled     bool    `json:"fulfilled"`
}

// MailboxDTO is the full mailbox state of one agent.
type MailboxDTO struct {
	Unopened      []ObligationDTO `json:"unopened"`
	Inbox         []ObligationDTO `json:"inbox"`
	Outbox        []ObligationDTO `json:"outbox"`
	MaturedTotal  float64         `json:"matured_total"`
	PendingTotal  float64         `json:"pending_total"`
	IncomingTotal float64         `json:"incoming_total"`
}

// JournalEntryDTO is one booking from an agent's journal.
type JournalEntryDTO struct {
	Seq    int64   `json:"seq"`
	Tick   int     `json:"tick"`
	Debit  string  `json:"debit,omitempty"`
	Credit string  `json:"credit,omitempty"`
	Amount float64 `json:"amount"`
	Memo   string  `json:"memo"`
}

// TimeDTO reports the simulation clock.
type TimeDTO struct {
	Time int `json:"time"`
}

// TickRequest asks the engine to advance. Zero ticks defaults to one.
type TickRequest struct {
	Ticks int `json:"ticks"`
}

// TickResponse reports the clock after the advance.
type TickResponse struct {
	Ticks int `json:"ticks"`
	Time  int `json:"time"`
}

// ScenarioDTO describes one loadable demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
