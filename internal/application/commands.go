package application

import "time"

// Transport Request Commands

// CreateTransportRequestCommand creates a new transport request for a
// sender's live supply request
type CreateTransportRequestCommand struct {
	RequestID       string `json:"requestId"`
	SenderID        string `json:"senderId"`
	SenderType      string `json:"senderType"`
	ReceiverID      string `json:"receiverId"`
	ReceiverType    string `json:"receiverType"`
	TransporterID   string `json:"transporterId"`
	TransporterName string `json:"transporterName"`
}

// TransitionStatusCommand moves a transport request to a new status.
// ActualDeliveryDate is only honored on the delivered transition.
type TransitionStatusCommand struct {
	TransportRequestID string     `json:"transportRequestId"`
	TransporterID      string     `json:"transporterId"`
	Status             string     `json:"status"`
	ActualDeliveryDate *time.Time `json:"actualDeliveryDate,omitempty"`
}

// DeleteTransportRequestCommand deletes a transport request
type DeleteTransportRequestCommand struct {
	TransportRequestID string `json:"transportRequestId"`
	TransporterID      string `json:"transporterId"`
}

// Transport Request Queries

// GetTransportRequestQuery retrieves a transport request by short ID
type GetTransportRequestQuery struct {
	TransportRequestID string `json:"transportRequestId"`
	TransporterID      string `json:"transporterId"`
}

// ListTransportRequestsQuery lists the acting transporter's requests
type ListTransportRequestsQuery struct {
	TransporterID string `json:"transporterId"`
	Limit         int    `json:"limit"`
	Offset        int    `json:"offset"`
}
