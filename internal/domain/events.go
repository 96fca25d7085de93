package domain

import "time"

// DomainEvent interface for domain events
type DomainEvent interface {
	EventType() string
	OccurredAt() time.Time
}

// Event type names
const (
	EventTypeRequestCreated  = "transport.request.created"
	EventTypeStatusChanged   = "transport.status.changed"
	EventTypeRequestArchived = "transport.request.archived"
)

// TransportRequestCreatedEvent is raised when a new transport request is created
type TransportRequestCreatedEvent struct {
	ShortID       string    `json:"shortId"`
	RequestID     string    `json:"requestId"`
	SenderType    string    `json:"senderType"`
	TransporterID string    `json:"transporterId"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (e *TransportRequestCreatedEvent) EventType() string     { return EventTypeRequestCreated }
func (e *TransportRequestCreatedEvent) OccurredAt() time.Time { return e.CreatedAt }

// TransportStatusChangedEvent is raised when a transport request changes status
type TransportStatusChangedEvent struct {
	ShortID       string    `json:"shortId"`
	RequestID     string    `json:"requestId"`
	SenderType    string    `json:"senderType"`
	TransporterID string    `json:"transporterId"`
	OldStatus     string    `json:"oldStatus"`
	NewStatus     string    `json:"newStatus"`
	ChangedAt     time.Time `json:"changedAt"`
}

func (e *TransportStatusChangedEvent) EventType() string     { return EventTypeStatusChanged }
func (e *TransportStatusChangedEvent) OccurredAt() time.Time { return e.ChangedAt }

// RequestArchivedEvent is raised when a terminated request is written to history
type RequestArchivedEvent struct {
	RequestID          string    `json:"requestId"`
	TransportRequestID string    `json:"transportRequestId"`
	FinalStatus        string    `json:"finalStatus"`
	ArchivedAt         time.Time `json:"archivedAt"`
}

func (e *RequestArchivedEvent) EventType() string     { return EventTypeRequestArchived }
func (e *RequestArchivedEvent) OccurredAt() time.Time { return e.ArchivedAt }
