package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/scm-platform/transport-service/internal/domain"
	"github.com/scm-platform/transport-service/pkg/metrics"
	sharedMongo "github.com/scm-platform/transport-service/pkg/mongodb"
)

const transportRequestsCollection = "transport_requests"

// TransportRequestRepository persists transport requests in MongoDB
type TransportRequestRepository struct {
	collection *mongo.Collection
	metrics    *metrics.Metrics
}

// NewTransportRequestRepository creates a new TransportRequestRepository
func NewTransportRequestRepository(db *mongo.Database, m *metrics.Metrics) *TransportRequestRepository {
	repo := &TransportRequestRepository{
		collection: db.Collection(transportRequestsCollection),
		metrics:    m,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	repo.ensureIndexes(ctx)

	return repo
}

func (r *TransportRequestRepository) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "shortId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "transporterId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "requestId", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}
	r.collection.Indexes().CreateMany(ctx, indexes)
}

func (r *TransportRequestRepository) observe(operation string, start time.Time, err error) {
	r.metrics.RecordMongoDBOperation(transportRequestsCollection, operation, err == nil, time.Since(start))
}

// Save upserts a transport request by short ID
func (r *TransportRequestRepository) Save(ctx context.Context, tr *domain.TransportRequest) error {
	start := time.Now()
	tr.UpdatedAt = sharedMongo.Now()

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"shortId": tr.ShortID}
	update := bson.M{"$set": tr}

	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	r.observe("save", start, err)
	if err != nil {
		return fmt.Errorf("failed to save transport request: %w", err)
	}
	return nil
}

// FindByShortID returns the transport request with the given short ID,
// or nil when none exists
func (r *TransportRequestRepository) FindByShortID(ctx context.Context, shortID string) (*domain.TransportRequest, error) {
	start := time.Now()

	var tr domain.TransportRequest
	err := r.collection.FindOne(ctx, bson.M{"shortId": shortID}).Decode(&tr)
	if err == mongo.ErrNoDocuments {
		r.observe("findOne", start, nil)
		return nil, nil
	}
	r.observe("findOne", start, err)
	if err != nil {
		return nil, err
	}
	return &tr, nil
}

// FindByTransporterID returns the transporter's requests, newest first
func (r *TransportRequestRepository) FindByTransporterID(ctx context.Context, transporterID string, limit, offset int) ([]*domain.TransportRequest, error) {
	start := time.Now()

	opts := options.Find().
		SetSort(sharedMongo.SortDescending("createdAt")).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"transporterId": transporterID}, opts)
	if err != nil {
		r.observe("find", start, err)
		return nil, err
	}
	defer cursor.Close(ctx)

	var requests []*domain.TransportRequest
	err = cursor.All(ctx, &requests)
	r.observe("find", start, err)
	return requests, err
}

// UpdateStatus persists the status fields of an already-loaded request
func (r *TransportRequestRepository) UpdateStatus(ctx context.Context, tr *domain.TransportRequest) error {
	start := time.Now()

	set := bson.M{
		"status":    tr.Status,
		"updatedAt": tr.UpdatedAt,
	}
	if tr.ActualDeliveryDate != nil {
		set["actualDeliveryDate"] = tr.ActualDeliveryDate
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"shortId": tr.ShortID}, sharedMongo.BuildUpdate(set))
	r.observe("updateStatus", start, err)
	if err != nil {
		return fmt.Errorf("failed to update transport status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTransportRequestNotFound
	}
	return nil
}

// Delete removes a transport request by short ID
func (r *TransportRequestRepository) Delete(ctx context.Context, shortID string) error {
	start := time.Now()

	res, err := r.collection.DeleteOne(ctx, bson.M{"shortId": shortID})
	r.observe("delete", start, err)
	if err != nil {
		return fmt.Errorf("failed to delete transport request: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTransportRequestNotFound
	}
	return nil
}
