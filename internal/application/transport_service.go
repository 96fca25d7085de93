package application

import (
	"context"
	"fmt"
	"time"

	"github.com/scm-platform/transport-service/pkg/errors"
	"github.com/scm-platform/transport-service/pkg/logging"
	"github.com/scm-platform/transport-service/pkg/metrics"

	"github.com/scm-platform/transport-service/internal/domain"
)

// TransportRequestRepository interface for transport request persistence
type TransportRequestRepository interface {
	Save(ctx context.Context, tr *domain.TransportRequest) error
	FindByShortID(ctx context.Context, shortID string) (*domain.TransportRequest, error)
	FindByTransporterID(ctx context.Context, transporterID string, limit, offset int) ([]*domain.TransportRequest, error)
	UpdateStatus(ctx context.Context, tr *domain.TransportRequest) error
	Delete(ctx context.Context, shortID string) error
}

// EventPublisher publishes domain events to the message bus
type EventPublisher interface {
	Publish(ctx context.Context, event domain.DomainEvent, subject string) error
}

// SenderStores groups the three role-keyed current-request collections
type SenderStores struct {
	RawMaterial   domain.SenderRequestStore // supplier
	Manufacturers domain.SenderRequestStore
	Distributors  domain.SenderRequestStore
}

// TransportService handles transport request use cases, including the
// status synchronization between the transporter-facing record and the
// sender-side current-request collections.
type TransportService struct {
	repo             TransportRequestRepository
	senders          SenderStores
	history          domain.HistorySink
	previousRequests domain.HistorySink
	guard            domain.AccessGuard
	publisher        EventPublisher
	metrics          *metrics.Metrics
	logger           *logging.Logger
}

// NewTransportService creates a new TransportService
func NewTransportService(
	repo TransportRequestRepository,
	senders SenderStores,
	history domain.HistorySink,
	previousRequests domain.HistorySink,
	publisher EventPublisher,
	m *metrics.Metrics,
	logger *logging.Logger,
) *TransportService {
	return &TransportService{
		repo:             repo,
		senders:          senders,
		history:          history,
		previousRequests: previousRequests,
		guard:            domain.AccessGuard{},
		publisher:        publisher,
		metrics:          m,
		logger:           logger,
	}
}

// CreateRequest creates a transport request for a sender's live supply
// request. Only sender roles may create one.
func (s *TransportService) CreateRequest(ctx context.Context, principal domain.Principal, cmd CreateTransportRequestCommand) (*TransportRequestDTO, error) {
	if !principal.Role.IsSender() {
		return nil, errors.ErrForbidden("only sender roles may create transport requests")
	}

	senderType := domain.SenderType(cmd.SenderType)
	if senderType == "" {
		senderType = domain.SenderType(principal.Role)
	}
	if senderType != domain.SenderType(principal.Role) {
		return nil, errors.ErrForbidden("sender type does not match the acting principal's role")
	}

	tr, err := domain.NewTransportRequest(cmd.RequestID, principal.ID, senderType, cmd.ReceiverID, cmd.ReceiverType, cmd.TransporterID, cmd.TransporterName)
	if err != nil {
		return nil, errors.ErrValidation(err.Error())
	}

	if err := s.repo.Save(ctx, tr); err != nil {
		s.logger.WithError(err).Error("Failed to save transport request", "shortId", tr.ShortID)
		return nil, fmt.Errorf("failed to save transport request: %w", err)
	}

	s.metrics.RecordRequestCreated(string(senderType))
	s.publishEvents(ctx, tr)

	return ToTransportRequestDTO(tr), nil
}

// GetRequest retrieves a transport request by short ID. Only the owning
// transporter may read it.
func (s *TransportService) GetRequest(ctx context.Context, query GetTransportRequestQuery) (*TransportRequestDTO, error) {
	tr, err := s.findOwned(ctx, query.TransportRequestID, query.TransporterID, domain.ActionRead)
	if err != nil {
		return nil, err
	}
	return ToTransportRequestDTO(tr), nil
}

// ListRequests lists the acting transporter's requests
func (s *TransportService) ListRequests(ctx context.Context, query ListTransportRequestsQuery) ([]TransportRequestDTO, error) {
	limit := query.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	requests, err := s.repo.FindByTransporterID(ctx, query.TransporterID, limit, query.Offset)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list transport requests", "transporterId", query.TransporterID)
		return nil, fmt.Errorf("failed to list transport requests: %w", err)
	}

	return ToTransportRequestDTOs(requests), nil
}

// DeleteRequest deletes a transport request. Only the owning transporter
// may delete it.
func (s *TransportService) DeleteRequest(ctx context.Context, cmd DeleteTransportRequestCommand) error {
	tr, err := s.findOwned(ctx, cmd.TransportRequestID, cmd.TransporterID, domain.ActionDelete)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, tr.ShortID); err != nil {
		s.logger.WithError(err).Error("Failed to delete transport request", "shortId", tr.ShortID)
		return fmt.Errorf("failed to delete transport request: %w", err)
	}

	return nil
}

// TransitionStatus moves a transport request through its lifecycle and
// mirrors the effect into the sender's current-request collection.
//
// The sender-side write is the source of truth for downstream processes,
// so it must succeed before the transport record's own status is
// committed; a failure there surfaces as SyncFailure with the transport
// status observably unchanged, and the caller may retry.
func (s *TransportService) TransitionStatus(ctx context.Context, cmd TransitionStatusCommand) (*TransportRequestDTO, error) {
	tr, err := s.findOwned(ctx, cmd.TransportRequestID, cmd.TransporterID, domain.ActionUpdate)
	if err != nil {
		return nil, err
	}

	// Ownership is checked before the status value; a non-owner always
	// gets Forbidden, whatever they submitted.
	requested := domain.Status(cmd.Status)
	if !requested.IsValid() {
		return nil, errors.ErrInvalidTransition(fmt.Sprintf("unsupported status %q", cmd.Status))
	}

	if !tr.Status.CanTransitionTo(requested) {
		return nil, errors.ErrInvalidTransition(fmt.Sprintf("cannot move from %q to %q", tr.Status, requested))
	}

	// A delivery straight from pending skips acceptance entirely; allowed,
	// but worth a distinct audit trail.
	if requested == domain.StatusDelivered && tr.Status == domain.StatusPending {
		s.logger.Audit(ctx, "transport.status.skip_transition", "transport_request", tr.ShortID, cmd.TransporterID, map[string]any{
			"from": string(tr.Status),
			"to":   string(requested),
		})
	}

	store, postDeliveryHook, err := s.resolveSenderStore(tr.SenderType)
	if err != nil {
		// A transport request pointing at a role no store exists for is a
		// referential-integrity violation, not a client mistake.
		s.logger.Error("Unknown sender type on stored transport request",
			"shortId", tr.ShortID,
			"senderType", string(tr.SenderType),
		)
		return nil, errors.ErrUnknownSenderType(string(tr.SenderType))
	}

	resubmission := tr.Status == domain.StatusDelivered && requested == domain.StatusDelivered

	senderRecord, err := s.syncSenderSide(ctx, tr, store, requested, cmd.ActualDeliveryDate, resubmission)
	if err != nil {
		s.metrics.RecordSyncFailure(string(tr.SenderType))
		s.logger.WithError(err).Error("Sender-side synchronization failed",
			"shortId", tr.ShortID,
			"requestId", tr.RequestID,
			"requestedStatus", string(requested),
		)
		return nil, errors.ErrSyncFailure(fmt.Sprintf("sender-side update for request %q failed", tr.RequestID)).Wrap(err)
	}

	// Sender side is committed; only now does the transport record change.
	if err := tr.ApplyStatus(requested, cmd.ActualDeliveryDate); err != nil {
		return nil, errors.ErrInvalidTransition(err.Error())
	}
	if err := s.repo.UpdateStatus(ctx, tr); err != nil {
		s.logger.WithError(err).Error("Failed to persist transport status", "shortId", tr.ShortID)
		return nil, fmt.Errorf("failed to persist transport status: %w", err)
	}

	s.metrics.RecordStatusTransition(string(requested), string(tr.SenderType))

	// Archival and event publishing are best-effort: failures are logged
	// but never change the reported outcome.
	if requested.IsTerminal() && !resubmission {
		s.archive(ctx, tr, senderRecord, requested, postDeliveryHook)
	}
	s.publishEvents(ctx, tr)

	return ToTransportRequestDTO(tr), nil
}

// findOwned loads a transport request and authorizes the acting
// transporter against it.
func (s *TransportService) findOwned(ctx context.Context, shortID, transporterID string, action domain.Action) (*domain.TransportRequest, error) {
	tr, err := s.repo.FindByShortID(ctx, shortID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to load transport request", "shortId", shortID)
		return nil, fmt.Errorf("failed to load transport request: %w", err)
	}
	if tr == nil {
		return nil, errors.ErrNotFoundWithID("transport request", shortID)
	}

	principal := domain.Principal{ID: transporterID, Role: domain.RoleTransporter}
	if err := s.guard.Authorize(principal, tr, action); err != nil {
		return nil, errors.ErrForbidden("transport request belongs to another transporter")
	}

	return tr, nil
}

// resolveSenderStore maps a sender role to its current-request store.
// The supplier path additionally archives into the previous-request
// table after delivery; the other roles only use the generic history
// store.
func (s *TransportService) resolveSenderStore(senderType domain.SenderType) (domain.SenderRequestStore, domain.HistorySink, error) {
	switch senderType {
	case domain.SenderSupplier:
		return s.senders.RawMaterial, s.previousRequests, nil
	case domain.SenderManufacturer:
		return s.senders.Manufacturers, nil, nil
	case domain.SenderDistributor:
		return s.senders.Distributors, nil, nil
	default:
		return nil, nil, domain.ErrUnknownSenderType
	}
}

// syncSenderSide applies the sender-side mutation for the requested
// transition. Moving to inProgress or back to pending patches every
// record sharing the request ID in one batch; delivery patches a single
// record and returns its pre-update state for archival.
func (s *TransportService) syncSenderSide(ctx context.Context, tr *domain.TransportRequest, store domain.SenderRequestStore, requested domain.Status, actualDeliveryDate *time.Time, resubmission bool) (*domain.SenderCurrentRequest, error) {
	switch requested {
	case domain.StatusAccepted:
		patch := domain.SenderUpdate{
			Status:                 domain.SenderStatusInProgress,
			DepartureAddress:       &tr.DepartureAddress,
			TransporterID:          tr.TransporterID,
			TransporterName:        tr.TransporterName,
			EstimatedDeliveryDates: tr.EstimatedDeliveryDates,
			TransportRequestID:     tr.ShortID,
		}
		return nil, s.updateManySender(ctx, store, tr.RequestID, patch)

	case domain.StatusRejected:
		// Rejection reverts the sender to awaiting-assignment; the
		// address and carrier fields stay untouched.
		patch := domain.SenderUpdate{Status: domain.SenderStatusPending}
		return nil, s.updateManySender(ctx, store, tr.RequestID, patch)

	case domain.StatusDelivered:
		patch := domain.SenderUpdate{Status: domain.SenderStatusDelivered}
		if !resubmission {
			delivered := time.Now().UTC()
			if actualDeliveryDate != nil {
				delivered = actualDeliveryDate.UTC()
			}
			patch.ActualDeliveryDate = &delivered
		}
		return store.FindOneAndUpdate(ctx, tr.RequestID, patch)

	default:
		return nil, domain.ErrInvalidTransition
	}
}

func (s *TransportService) updateManySender(ctx context.Context, store domain.SenderRequestStore, requestID string, patch domain.SenderUpdate) error {
	matched, err := store.UpdateMany(ctx, requestID, patch)
	if err != nil {
		return err
	}
	if matched == 0 {
		return domain.ErrSenderRecordNotFound
	}
	return nil
}

// archive writes the terminated request into the history sinks. Both
// writes are best-effort and independent of the reported outcome.
func (s *TransportService) archive(ctx context.Context, tr *domain.TransportRequest, senderRecord *domain.SenderCurrentRequest, finalStatus domain.Status, postDeliveryHook domain.HistorySink) {
	record := domain.NewHistoryRecord(tr, senderRecord, finalStatus)

	s.appendArchive(ctx, s.history, "request_history", record)
	if finalStatus == domain.StatusDelivered && postDeliveryHook != nil {
		s.appendArchive(ctx, postDeliveryHook, "previous_requests", record)
	}

	tr.AddDomainEvent(&domain.RequestArchivedEvent{
		RequestID:          tr.RequestID,
		TransportRequestID: tr.ShortID,
		FinalStatus:        string(finalStatus),
		ArchivedAt:         record.ArchivedAt,
	})
}

func (s *TransportService) appendArchive(ctx context.Context, sink domain.HistorySink, destination string, record *domain.HistoryRecord) {
	if err := sink.Append(ctx, record); err != nil {
		s.metrics.RecordArchiveWrite(destination, false)
		s.logger.WithError(err).Error("Failed to archive terminated request",
			"destination", destination,
			"requestId", record.RequestID,
			"transportRequestId", record.TransportRequestID,
		)
		return
	}
	s.metrics.RecordArchiveWrite(destination, true)
}

// publishEvents drains the aggregate's domain events onto the bus.
// Publishing is best-effort.
func (s *TransportService) publishEvents(ctx context.Context, tr *domain.TransportRequest) {
	for _, event := range tr.DomainEvents {
		if err := s.publisher.Publish(ctx, event, tr.ShortID); err != nil {
			s.logger.WithError(err).Warn("Failed to publish domain event",
				"eventType", event.EventType(),
				"shortId", tr.ShortID,
			)
		}
	}
	tr.ClearDomainEvents()
}
