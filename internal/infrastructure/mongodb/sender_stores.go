package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/scm-platform/transport-service/internal/domain"
	"github.com/scm-platform/transport-service/pkg/metrics"
	sharedMongo "github.com/scm-platform/transport-service/pkg/mongodb"
)

// Sender current-request collections. Each sender role keeps its live
// requests in its own collection; the engine only ever updates them.
const (
	rawMaterialCollection   = "raw_material_current_requests"
	manufacturersCollection = "goods_manufacturers_current_requests"
	distributorsCollection  = "goods_distributors_current_requests"
)

// SenderRequestStore is a MongoDB-backed domain.SenderRequestStore for
// one sender role's current-request collection
type SenderRequestStore struct {
	collection *mongo.Collection
	name       string
	metrics    *metrics.Metrics
}

// NewRawMaterialStore opens the supplier collection
func NewRawMaterialStore(db *mongo.Database, m *metrics.Metrics) *SenderRequestStore {
	return newSenderStore(db, rawMaterialCollection, m)
}

// NewGoodsManufacturersStore opens the manufacturer collection
func NewGoodsManufacturersStore(db *mongo.Database, m *metrics.Metrics) *SenderRequestStore {
	return newSenderStore(db, manufacturersCollection, m)
}

// NewGoodsDistributorsStore opens the distributor collection
func NewGoodsDistributorsStore(db *mongo.Database, m *metrics.Metrics) *SenderRequestStore {
	return newSenderStore(db, distributorsCollection, m)
}

func newSenderStore(db *mongo.Database, name string, m *metrics.Metrics) *SenderRequestStore {
	return &SenderRequestStore{
		collection: db.Collection(name),
		name:       name,
		metrics:    m,
	}
}

// UpdateMany patches every record sharing the request short ID in one
// batch and reports how many documents matched
func (s *SenderRequestStore) UpdateMany(ctx context.Context, requestID string, patch domain.SenderUpdate) (int64, error) {
	start := time.Now()

	res, err := s.collection.UpdateMany(ctx, bson.M{"shortId": requestID}, buildSenderUpdate(patch))
	s.metrics.RecordMongoDBOperation(s.name, "updateMany", err == nil, time.Since(start))
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// FindOneAndUpdate patches a single record and returns its pre-update
// state, or domain.ErrSenderRecordNotFound when nothing matched
func (s *SenderRequestStore) FindOneAndUpdate(ctx context.Context, requestID string, patch domain.SenderUpdate) (*domain.SenderCurrentRequest, error) {
	start := time.Now()

	var record domain.SenderCurrentRequest
	err := s.collection.FindOneAndUpdate(ctx, bson.M{"shortId": requestID}, buildSenderUpdate(patch)).Decode(&record)
	if err == mongo.ErrNoDocuments {
		s.metrics.RecordMongoDBOperation(s.name, "findOneAndUpdate", true, time.Since(start))
		return nil, domain.ErrSenderRecordNotFound
	}
	s.metrics.RecordMongoDBOperation(s.name, "findOneAndUpdate", err == nil, time.Since(start))
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// buildSenderUpdate translates the engine's patch into a $set document.
// Unset patch fields stay untouched on the stored records.
func buildSenderUpdate(patch domain.SenderUpdate) bson.M {
	set := bson.M{
		"status": patch.Status,
	}
	if patch.DepartureAddress != nil {
		set["departureAddress"] = patch.DepartureAddress
	}
	if patch.TransporterID != "" {
		set["transporterId"] = patch.TransporterID
	}
	if patch.TransporterName != "" {
		set["transporterName"] = patch.TransporterName
	}
	if len(patch.EstimatedDeliveryDates) > 0 {
		set["estimatedDeliveryDates"] = patch.EstimatedDeliveryDates
	}
	if patch.TransportRequestID != "" {
		set["transportRequestId"] = patch.TransportRequestID
	}
	if patch.ActualDeliveryDate != nil {
		set["actualDeliveryDate"] = patch.ActualDeliveryDate
	}
	return sharedMongo.BuildUpdateWithTimestamp(set)
}
