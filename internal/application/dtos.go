package application

import "time"

// AddressDTO represents a structured postal record
type AddressDTO struct {
	Street      string `json:"street"`
	City        string `json:"city"`
	Region      string `json:"region,omitempty"`
	PostalCode  string `json:"postalCode,omitempty"`
	Country     string `json:"country"`
	ContactName string `json:"contactName,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

// TransportRequestDTO represents a transport request data transfer object
type TransportRequestDTO struct {
	ShortID                string      `json:"shortId"`
	RequestID              string      `json:"requestId"`
	SenderID               string      `json:"senderId"`
	SenderType             string      `json:"senderType"`
	ReceiverID             string      `json:"receiverId"`
	ReceiverType           string      `json:"receiverType"`
	TransporterID          string      `json:"transporterId"`
	TransporterName        string      `json:"transporterName"`
	Status                 string      `json:"status"`
	DepartureAddress       AddressDTO  `json:"departureAddress"`
	ArrivalAddress         AddressDTO  `json:"arrivalAddress"`
	EstimatedDeliveryDates []time.Time `json:"estimatedDeliveryDates"`
	ActualDeliveryDate     *time.Time  `json:"actualDeliveryDate,omitempty"`
	TrackingNumber         string      `json:"trackingNumber,omitempty"`
	ContractID             string      `json:"contractId,omitempty"`
	ShippingCost           float64     `json:"shippingCost,omitempty"`
	CreatedAt              time.Time   `json:"createdAt"`
	UpdatedAt              time.Time   `json:"updatedAt"`
}
