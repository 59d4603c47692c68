// Package events publishes ledger mutations to AMQP so the audit worker
// can record them out of process. Publishing is fire-and-forget from the
// API's point of view: a broker outage never blocks a mutation.
package events

import (
	"encoding/json"
	"time"
)

// Mutation operations.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Entities a mutation can touch.
const (
	EntityTransaction = "transaction"
	EntityAccount     = "account"
	EntityCard        = "card"
	EntityWallet      = "wallet"
	EntityLoan        = "loan"
	EntityInvestment  = "investment"
	EntityBudget      = "budget"
	EntityTaxonomy    = "taxonomy"
)

// MutationEvent identifies one ledger mutation. The worker records it in
// the audit trail; the snapshot itself travels through storage, not here.
type MutationEvent struct {
	Entity     string    `json:"entity"`
	Op         string    `json:"op"`
	EntityID   string    `json:"entityId"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NewMutationEvent stamps a mutation with the current time.
func NewMutationEvent(entity, op, entityID string) *MutationEvent {
	return &MutationEvent{
		Entity:     entity,
		Op:         op,
		EntityID:   entityID,
		OccurredAt: time.Now().UTC(),
	}
}

// ToJSON converts the event to JSON bytes.
func (m *MutationEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// MutationEventFromJSON decodes an event from JSON bytes.
func MutationEventFromJSON(data []byte) (*MutationEvent, error) {
	var msg MutationEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
