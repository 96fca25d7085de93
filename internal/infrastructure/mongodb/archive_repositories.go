package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/scm-platform/transport-service/internal/domain"
	"github.com/scm-platform/transport-service/pkg/metrics"
	"github.com/scm-platform/transport-service/pkg/resilience"
)

// Archive collections. Two destinations exist side by side: the generic
// request history and the supplier-specific previous-request table.
const (
	requestHistoryCollection   = "request_history"
	previousRequestsCollection = "raw_material_previous_requests"
)

// archiveRepository is an append-only MongoDB sink for history records.
// Inserts are retried a few times since archival runs after the status
// transition already committed and has no second chance.
type archiveRepository struct {
	collection *mongo.Collection
	name       string
	metrics    *metrics.Metrics
	retry      *resilience.RetryConfig
}

// HistoryRepository is the generic archive of terminated requests
type HistoryRepository struct {
	archiveRepository
}

// NewHistoryRepository opens the request history collection
func NewHistoryRepository(db *mongo.Database, m *metrics.Metrics) *HistoryRepository {
	return &HistoryRepository{newArchiveRepository(db, requestHistoryCollection, m)}
}

// RawMaterialPreviousRequestRepository archives delivered supplier
// requests into their dedicated previous-request collection
type RawMaterialPreviousRequestRepository struct {
	archiveRepository
}

// NewRawMaterialPreviousRequestRepository opens the supplier archive collection
func NewRawMaterialPreviousRequestRepository(db *mongo.Database, m *metrics.Metrics) *RawMaterialPreviousRequestRepository {
	return &RawMaterialPreviousRequestRepository{newArchiveRepository(db, previousRequestsCollection, m)}
}

func newArchiveRepository(db *mongo.Database, name string, m *metrics.Metrics) archiveRepository {
	retry := resilience.DefaultRetryConfig()
	retry.RetryableErrors = func(err error) bool { return true }

	return archiveRepository{
		collection: db.Collection(name),
		name:       name,
		metrics:    m,
		retry:      retry,
	}
}

// Append inserts an archive record. Records are never updated or
// deleted afterwards.
func (r archiveRepository) Append(ctx context.Context, record *domain.HistoryRecord) error {
	start := time.Now()

	err := resilience.Retry(ctx, r.retry, func() error {
		_, insertErr := r.collection.InsertOne(ctx, record)
		return insertErr
	})

	r.metrics.RecordMongoDBOperation(r.name, "insert", err == nil, time.Since(start))
	return err
}
