package core

import (
	"encoding/json"
	"time"
)

// Event is the interface for all committed settlement events.
// One event is appended to the ordered log per committed state transition.
type Event interface {
	eventMarker()

	// EventType returns the stable identifier persisted with the event.
	EventType() string
}

// JobCreated is emitted when a contract is funded.
type JobCreated struct {
	ContractID string `json:"contract_id"`
	JobID      string `json:"job_id"`
	Client     string `json:"client"`
	Freelancer string `json:"freelancer"`
	Amount     int64  `json:"amount"`
}

func (*JobCreated) eventMarker()      {}
func (*JobCreated) EventType() string { return "job_created" }

// JobCompleted is emitted when the client marks the job completed.
type JobCompleted struct {
	ContractID string `json:"contract_id"`
}

func (*JobCompleted) eventMarker()      {}
func (*JobCompleted) EventType() string { return "job_completed" }

// PaymentReleased is emitted when custody is disbursed on the happy path.
type PaymentReleased struct {
	ContractID      string `json:"contract_id"`
	FreelancerShare int64  `json:"freelancer_share"`
	Fee             int64  `json:"fee"`
}

func (*PaymentReleased) eventMarker()      {}
func (*PaymentReleased) EventType() string { return "payment_released" }

// DisputeCreated is emitted when either party opens a dispute.
type DisputeCreated struct {
	ContractID string `json:"contract_id"`
	Initiator  string `json:"initiator"`
}

func (*DisputeCreated) eventMarker()      {}
func (*DisputeCreated) EventType() string { return "dispute_created" }

// DisputeResolved is emitted when the owner splits custody between the parties.
type DisputeResolved struct {
	ContractID       string `json:"contract_id"`
	ClientAmount     int64  `json:"client_amount"`
	FreelancerAmount int64  `json:"freelancer_amount"`
}

func (*DisputeResolved) eventMarker()      {}
func (*DisputeResolved) EventType() string { return "dispute_resolved" }

// FeeChanged is emitted when the owner updates the platform fee.
type FeeChanged struct {
	BasisPoints int64 `json:"basis_points"`
}

func (*FeeChanged) eventMarker()      {}
func (*FeeChanged) EventType() string { return "fee_changed" }

// EventRecord is the persisted, totally ordered form of an event.
// Seq is assigned by the store and is strictly increasing in commit order.
type EventRecord struct {
	Seq        uint64    `gorm:"primaryKey;autoIncrement"`
	ContractID string    `gorm:"index;size:36"`
	Type       string    `gorm:"size:40;not null"`
	Payload    []byte    `gorm:"type:bytes"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

// NewEventRecord converts an event into its persisted form.
func NewEventRecord(e Event) (*EventRecord, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}

	rec := &EventRecord{Type: e.EventType(), Payload: payload}
	switch ev := e.(type) {
	case *JobCreated:
		rec.ContractID = ev.ContractID
	case *JobCompleted:
		rec.ContractID = ev.ContractID
	case *PaymentReleased:
		rec.ContractID = ev.ContractID
	case *DisputeCreated:
		rec.ContractID = ev.ContractID
	case *DisputeResolved:
		rec.ContractID = ev.ContractID
	}
	return rec, nil
}
