package application

import "github.com/scm-platform/transport-service/internal/domain"

// ToAddressDTO converts a domain Address to AddressDTO
func ToAddressDTO(addr domain.Address) AddressDTO {
	return AddressDTO{
		Street:      addr.Street,
		City:        addr.City,
		Region:      addr.Region,
		PostalCode:  addr.PostalCode,
		Country:     addr.Country,
		ContactName: addr.ContactName,
		Phone:       addr.Phone,
	}
}

// ToTransportRequestDTO converts a domain TransportRequest to its DTO
func ToTransportRequestDTO(tr *domain.TransportRequest) *TransportRequestDTO {
	if tr == nil {
		return nil
	}

	return &TransportRequestDTO{
		ShortID:                tr.ShortID,
		RequestID:              tr.RequestID,
		SenderID:               tr.SenderID,
		SenderType:             string(tr.SenderType),
		ReceiverID:             tr.ReceiverID,
		ReceiverType:           tr.ReceiverType,
		TransporterID:          tr.TransporterID,
		TransporterName:        tr.TransporterName,
		Status:                 string(tr.Status),
		DepartureAddress:       ToAddressDTO(tr.DepartureAddress),
		ArrivalAddress:         ToAddressDTO(tr.ArrivalAddress),
		EstimatedDeliveryDates: tr.EstimatedDeliveryDates,
		ActualDeliveryDate:     tr.ActualDeliveryDate,
		TrackingNumber:         tr.TrackingNumber,
		ContractID:             tr.ContractID,
		ShippingCost:           tr.ShippingCost,
		CreatedAt:              tr.CreatedAt,
		UpdatedAt:              tr.UpdatedAt,
	}
}

// ToTransportRequestDTOs converts a slice of domain TransportRequests to DTOs
func ToTransportRequestDTOs(requests []*domain.TransportRequest) []TransportRequestDTO {
	dtos := make([]TransportRequestDTO, 0, len(requests))
	for _, tr := range requests {
		if dto := ToTransportRequestDTO(tr); dto != nil {
			dtos = append(dtos, *dto)
		}
	}
	return dtos
}
