package domain

import (
	"crypto/rand"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Transport request errors
var (
	ErrTransportRequestNotFound = errors.New("transport request not found")
	ErrInvalidStatus            = errors.New("invalid transport status")
	ErrInvalidTransition        = errors.New("invalid status transition")
	ErrNotRequestOwner          = errors.New("transport request belongs to another transporter")
)

// Status represents the transporter-facing status of a shipment
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusDelivered Status = "delivered"
)

// IsValid checks if the status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected, StatusDelivered:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transitions are expected
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusRejected
}

// CanTransitionTo reports whether the shipment may move from s to next.
// delivered is reachable from any non-terminal state; a jump straight
// from pending is allowed but callers should audit it separately.
func (s Status) CanTransitionTo(next Status) bool {
	switch next {
	case StatusAccepted:
		return s == StatusPending
	case StatusRejected:
		return s == StatusPending || s == StatusAccepted
	case StatusDelivered:
		// delivered -> delivered is an idempotent resubmission
		return s != StatusRejected
	default:
		return false
	}
}

// SenderStatus returns the sender-side projection of a transport status.
// The sender collections never see "accepted" or "rejected" directly:
// acceptance means the goods are moving, rejection reverts the request
// to awaiting-assignment.
func (s Status) SenderStatus() SenderStatus {
	switch s {
	case StatusAccepted:
		return SenderStatusInProgress
	case StatusRejected:
		return SenderStatusPending
	case StatusDelivered:
		return SenderStatusDelivered
	default:
		return SenderStatusPending
	}
}

// Address represents a structured postal record
type Address struct {
	Street      string `bson:"street" json:"street"`
	City        string `bson:"city" json:"city"`
	Region      string `bson:"region,omitempty" json:"region,omitempty"`
	PostalCode  string `bson:"postalCode,omitempty" json:"postalCode,omitempty"`
	Country     string `bson:"country" json:"country"`
	ContactName string `bson:"contactName,omitempty" json:"contactName,omitempty"`
	Phone       string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// TransportRequest represents the transporter-facing record of one shipment job
type TransportRequest struct {
	ID                     primitive.ObjectID `bson:"_id,omitempty"`
	ShortID                string             `bson:"shortId"`
	RequestID              string             `bson:"requestId"`
	SenderID               string             `bson:"senderId"`
	SenderType             SenderType         `bson:"senderType"`
	ReceiverID             string             `bson:"receiverId"`
	ReceiverType           string             `bson:"receiverType"`
	TransporterID          string             `bson:"transporterId"`
	TransporterName        string             `bson:"transporterName"`
	Status                 Status             `bson:"status"`
	DepartureAddress       Address            `bson:"departureAddress"`
	ArrivalAddress         Address            `bson:"arrivalAddress"`
	EstimatedDeliveryDates []time.Time        `bson:"estimatedDeliveryDates"`
	ActualDeliveryDate     *time.Time         `bson:"actualDeliveryDate,omitempty"`
	TrackingNumber         string             `bson:"trackingNumber,omitempty"`
	ContractID             string             `bson:"contractId,omitempty"`
	ShippingCost           float64            `bson:"shippingCost,omitempty"`
	CreatedAt              time.Time          `bson:"createdAt"`
	UpdatedAt              time.Time          `bson:"updatedAt"`
	DomainEvents           []DomainEvent      `bson:"-"`
}

// NewTransportRequest creates a new TransportRequest aggregate in pending state
func NewTransportRequest(requestID, senderID string, senderType SenderType, receiverID, receiverType, transporterID, transporterName string) (*TransportRequest, error) {
	if !senderType.IsValid() {
		return nil, ErrUnknownSenderType
	}

	now := time.Now().UTC()
	tr := &TransportRequest{
		ShortID:                NewShortID(),
		RequestID:              requestID,
		SenderID:               senderID,
		SenderType:             senderType,
		ReceiverID:             receiverID,
		ReceiverType:           receiverType,
		TransporterID:          transporterID,
		TransporterName:        transporterName,
		Status:                 StatusPending,
		EstimatedDeliveryDates: make([]time.Time, 0),
		CreatedAt:              now,
		UpdatedAt:              now,
		DomainEvents:           make([]DomainEvent, 0),
	}

	tr.AddDomainEvent(&TransportRequestCreatedEvent{
		ShortID:       tr.ShortID,
		RequestID:     requestID,
		SenderType:    string(senderType),
		TransporterID: transporterID,
		CreatedAt:     now,
	})

	return tr, nil
}

// IsOwnedBy reports whether the given transporter owns this request
func (t *TransportRequest) IsOwnedBy(transporterID string) bool {
	return t.TransporterID == transporterID
}

// ApplyStatus moves the request to the new status. actualDeliveryDate is
// set exactly once, on the first delivered transition; the supplied value
// wins over the transition time when present.
func (t *TransportRequest) ApplyStatus(status Status, actualDeliveryDate *time.Time) error {
	if !status.IsValid() {
		return ErrInvalidStatus
	}
	if !t.Status.CanTransitionTo(status) {
		return ErrInvalidTransition
	}

	oldStatus := t.Status
	now := time.Now().UTC()

	if status == StatusDelivered && t.ActualDeliveryDate == nil {
		delivered := now
		if actualDeliveryDate != nil {
			delivered = actualDeliveryDate.UTC()
		}
		t.ActualDeliveryDate = &delivered
	}

	t.Status = status
	t.UpdatedAt = now

	if oldStatus != status {
		t.AddDomainEvent(&TransportStatusChangedEvent{
			ShortID:       t.ShortID,
			RequestID:     t.RequestID,
			SenderType:    string(t.SenderType),
			TransporterID: t.TransporterID,
			OldStatus:     string(oldStatus),
			NewStatus:     string(status),
			ChangedAt:     now,
		})
	}

	return nil
}

// AddDomainEvent adds a domain event
func (t *TransportRequest) AddDomainEvent(event DomainEvent) {
	t.DomainEvents = append(t.DomainEvents, event)
}

// ClearDomainEvents clears all domain events
func (t *TransportRequest) ClearDomainEvents() {
	t.DomainEvents = make([]DomainEvent, 0)
}

const shortIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewShortID generates a stable short identifier for a transport request:
// the letter "t" followed by 8 lowercase alphanumerics.
func NewShortID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails when the OS entropy source is broken
		panic(err)
	}

	id := make([]byte, 9)
	id[0] = 't'
	for i, b := range buf {
		id[i+1] = shortIDAlphabet[int(b)%len(shortIDAlphabet)]
	}
	return string(id)
}
