package events

import "time"

// LeadCreatedV1 is published once per saved lead.
type LeadCreatedV1 struct {
	LeadID    string    `json:"lead_id"`
	Service   string    `json:"service"`
	Price     string    `json:"price"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func (LeadCreatedV1) EventType() string { return "leads.lead.created.v1" }
