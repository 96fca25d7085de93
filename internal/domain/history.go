package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HistoryRecord is an immutable snapshot of a terminated shipment.
// It carries the addressing, pricing and item manifest known at the
// time of termination and is never mutated after creation.
type HistoryRecord struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	RequestID          string             `bson:"requestId"`
	TransportRequestID string             `bson:"transportRequestId"`
	SenderID           string             `bson:"senderId"`
	SenderType         SenderType         `bson:"senderType"`
	ReceiverID         string             `bson:"receiverId"`
	TransporterID      string             `bson:"transporterId"`
	TransporterName    string             `bson:"transporterName"`
	Status             Status             `bson:"status"`
	Items              []RequestItem      `bson:"items"`
	TotalPrice         float64            `bson:"totalPrice,omitempty"`
	DepartureAddress   *Address           `bson:"departureAddress,omitempty"`
	ArrivalAddress     *Address           `bson:"arrivalAddress,omitempty"`
	ActualDeliveryDate *time.Time         `bson:"actualDeliveryDate,omitempty"`
	ArchivedAt         time.Time          `bson:"archivedAt"`
}

// NewHistoryRecord builds the archive snapshot for a terminated transport
// request from the sender record's pre-update state.
func NewHistoryRecord(tr *TransportRequest, sender *SenderCurrentRequest, finalStatus Status) *HistoryRecord {
	rec := &HistoryRecord{
		RequestID:          tr.RequestID,
		TransportRequestID: tr.ShortID,
		SenderID:           tr.SenderID,
		SenderType:         tr.SenderType,
		ReceiverID:         tr.ReceiverID,
		TransporterID:      tr.TransporterID,
		TransporterName:    tr.TransporterName,
		Status:             finalStatus,
		DepartureAddress:   &tr.DepartureAddress,
		ArrivalAddress:     &tr.ArrivalAddress,
		ActualDeliveryDate: tr.ActualDeliveryDate,
		ArchivedAt:         time.Now().UTC(),
	}

	if sender != nil {
		rec.Items = sender.Items
		rec.TotalPrice = sender.TotalPrice
		if sender.DepartureAddress != nil {
			rec.DepartureAddress = sender.DepartureAddress
		}
		if sender.ArrivalAddress != nil {
			rec.ArrivalAddress = sender.ArrivalAddress
		}
	}

	return rec
}

// HistorySink appends archive records. Writes are fire-and-forget:
// failures are logged by the caller, never propagated to the client.
type HistorySink interface {
	Append(ctx context.Context, record *HistoryRecord) error
}
