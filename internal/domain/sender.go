package domain

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sender errors
var (
	// ErrUnknownSenderType indicates a referential-integrity violation:
	// a transport request points at a sender role no store exists for.
	ErrUnknownSenderType = errors.New("unknown sender type")

	// ErrSenderRecordNotFound is returned when a sender-side write
	// matched zero documents.
	ErrSenderRecordNotFound = errors.New("sender request record not found")
)

// SenderType identifies which sender collection holds the live request
type SenderType string

const (
	SenderSupplier     SenderType = "supplier"
	SenderManufacturer SenderType = "manufacturer"
	SenderDistributor  SenderType = "distributor"
)

// IsValid checks if the sender type is valid
func (s SenderType) IsValid() bool {
	switch s {
	case SenderSupplier, SenderManufacturer, SenderDistributor:
		return true
	default:
		return false
	}
}

// SenderStatus is the sender-side projection of a shipment's progress
type SenderStatus string

const (
	SenderStatusPending    SenderStatus = "pending"
	SenderStatusInProgress SenderStatus = "inProgress"
	SenderStatusDelivered  SenderStatus = "delivered"
)

// RequestItem is one line of a sender request's item manifest
type RequestItem struct {
	ItemID   string  `bson:"itemId" json:"itemId"`
	Name     string  `bson:"name" json:"name"`
	Quantity int     `bson:"quantity" json:"quantity"`
	Unit     string  `bson:"unit,omitempty" json:"unit,omitempty"`
	Price    float64 `bson:"price,omitempty" json:"price,omitempty"`
}

// SenderCurrentRequest is the forward-looking record of a pending supply
// request. The three sender collections differ in shape; this is the
// shared subset the synchronization engine reads and writes.
type SenderCurrentRequest struct {
	ID                     primitive.ObjectID `bson:"_id,omitempty"`
	ShortID                string             `bson:"shortId"`
	SenderID               string             `bson:"senderId"`
	ReceiverID             string             `bson:"receiverId"`
	Status                 SenderStatus       `bson:"status"`
	Items                  []RequestItem      `bson:"items"`
	TotalPrice             float64            `bson:"totalPrice,omitempty"`
	DepartureAddress       *Address           `bson:"departureAddress,omitempty"`
	ArrivalAddress         *Address           `bson:"arrivalAddress,omitempty"`
	TransporterID          string             `bson:"transporterId,omitempty"`
	TransporterName        string             `bson:"transporterName,omitempty"`
	EstimatedDeliveryDates []time.Time        `bson:"estimatedDeliveryDates,omitempty"`
	TransportRequestID     string             `bson:"transportRequestId,omitempty"`
	ActualDeliveryDate     *time.Time         `bson:"actualDeliveryDate,omitempty"`
	CreatedAt              time.Time          `bson:"createdAt"`
	UpdatedAt              time.Time          `bson:"updatedAt"`
}

// SenderUpdate is the patch the engine applies to sender records.
// Nil pointer fields are left untouched by the store.
type SenderUpdate struct {
	Status                 SenderStatus
	DepartureAddress       *Address
	TransporterID          string
	TransporterName        string
	EstimatedDeliveryDates []time.Time
	TransportRequestID     string
	ActualDeliveryDate     *time.Time
}

// SenderRequestStore gives the engine access to one role's current-request
// collection. UpdateMany patches every record sharing the request short ID
// and reports how many documents matched; FindOneAndUpdate patches a single
// record and returns its pre-update state, or ErrSenderRecordNotFound.
type SenderRequestStore interface {
	UpdateMany(ctx context.Context, requestID string, patch SenderUpdate) (int64, error)
	FindOneAndUpdate(ctx context.Context, requestID string, patch SenderUpdate) (*SenderCurrentRequest, error)
}
