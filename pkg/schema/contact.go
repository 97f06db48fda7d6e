package schema

import "time"

// Stage is a contact's position in the sales funnel. Any stage can be set
// directly; the funnel is not a strictly linear chain.
type Stage string

const (
	StageLead        Stage = "LEAD"
	StageContacted   Stage = "CONTACTED"
	StageProposal    Stage = "PROPOSAL"
	StageNegotiation Stage = "NEGOTIATION"
	StageWon         Stage = "WON"
	StageLost        Stage = "LOST"
)

// Stages lists every funnel stage in pipeline order.
var Stages = []Stage{StageLead, StageContacted, StageProposal, StageNegotiation, StageWon, StageLost}

// Valid reports whether s is one of the known funnel stages.
func (s Stage) Valid() bool {
	switch s {
	case StageLead, StageContacted, StageProposal, StageNegotiation, StageWon, StageLost:
		return true
	}
	return false
}

// Closed reports whether the stage is terminal for pipeline accounting.
func (s Stage) Closed() bool {
	return s == StageWon || s == StageLost
}

// Priority ranks a contact for follow-up.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Contact is a CRM deal/ticket record.
type Contact struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Company      string    `json:"company"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Value        float64   `json:"value"`
	Stage        Stage     `json:"stage"`
	LastActivity time.Time `json:"lastActivity"`
	Notes        string    `json:"notes"`
	TicketID     string    `json:"ticketId,omitempty"`
	Priority     Priority  `json:"priority,omitempty"`
}
