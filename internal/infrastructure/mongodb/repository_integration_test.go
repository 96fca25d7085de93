package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	tcmongodb "github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/scm-platform/transport-service/internal/domain"
	"github.com/scm-platform/transport-service/pkg/metrics"
)

type RepositoryIntegrationTestSuite struct {
	suite.Suite
	mongoContainer *tcmongodb.MongoDBContainer
	client         *mongo.Client
	db             *mongo.Database
	transportRepo  *TransportRequestRepository
	rawMaterial    *SenderRequestStore
	history        *HistoryRepository
	ctx            context.Context
}

func (s *RepositoryIntegrationTestSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := tcmongodb.Run(s.ctx, "mongo:6")
	s.Require().NoError(err)
	s.mongoContainer = container

	connStr, err := container.ConnectionString(s.ctx)
	s.Require().NoError(err)

	client, err := mongo.Connect(s.ctx, options.Client().ApplyURI(connStr))
	s.Require().NoError(err)
	s.client = client

	s.Require().NoError(client.Ping(s.ctx, nil))

	s.db = client.Database("transport_test")
	m := metrics.New(metrics.DefaultConfig("transport-service-test"))
	s.transportRepo = NewTransportRequestRepository(s.db, m)
	s.rawMaterial = NewRawMaterialStore(s.db, m)
	s.history = NewHistoryRepository(s.db, m)
}

func (s *RepositoryIntegrationTestSuite) TearDownSuite() {
	if s.client != nil {
		s.client.Disconnect(s.ctx)
	}
	if s.mongoContainer != nil {
		s.Require().NoError(s.mongoContainer.Terminate(s.ctx))
	}
}

func (s *RepositoryIntegrationTestSuite) TearDownTest() {
	s.db.Collection(transportRequestsCollection).Drop(s.ctx)
	s.db.Collection(rawMaterialCollection).Drop(s.ctx)
	s.db.Collection(requestHistoryCollection).Drop(s.ctx)
}

func TestRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	suite.Run(t, new(RepositoryIntegrationTestSuite))
}

func (s *RepositoryIntegrationTestSuite) newRequest() *domain.TransportRequest {
	tr, err := domain.NewTransportRequest("r12abc4567", "sup-1", domain.SenderSupplier, "man-1", "manufacturer", "trans-1", "Fast Freight")
	s.Require().NoError(err)
	tr.ClearDomainEvents()
	return tr
}

func (s *RepositoryIntegrationTestSuite) TestTransportRepository_SaveAndFind() {
	tr := s.newRequest()
	s.Require().NoError(s.transportRepo.Save(s.ctx, tr))

	found, err := s.transportRepo.FindByShortID(s.ctx, tr.ShortID)
	s.Require().NoError(err)
	s.Require().NotNil(found)
	s.Equal(tr.ShortID, found.ShortID)
	s.Equal(domain.StatusPending, found.Status)
	s.Equal(domain.SenderSupplier, found.SenderType)
}

func (s *RepositoryIntegrationTestSuite) TestTransportRepository_FindByShortID_Missing() {
	found, err := s.transportRepo.FindByShortID(s.ctx, "t00000000")
	s.Require().NoError(err)
	s.Nil(found)
}

func (s *RepositoryIntegrationTestSuite) TestTransportRepository_FindByTransporterID_NewestFirst() {
	first := s.newRequest()
	s.Require().NoError(s.transportRepo.Save(s.ctx, first))

	second := s.newRequest()
	second.CreatedAt = first.CreatedAt.Add(time.Minute)
	s.Require().NoError(s.transportRepo.Save(s.ctx, second))

	requests, err := s.transportRepo.FindByTransporterID(s.ctx, "trans-1", 20, 0)
	s.Require().NoError(err)
	s.Require().Len(requests, 2)
	s.Equal(second.ShortID, requests[0].ShortID)

	requests, err = s.transportRepo.FindByTransporterID(s.ctx, "trans-9", 20, 0)
	s.Require().NoError(err)
	s.Empty(requests)
}

func (s *RepositoryIntegrationTestSuite) TestTransportRepository_UpdateStatus() {
	tr := s.newRequest()
	s.Require().NoError(s.transportRepo.Save(s.ctx, tr))

	s.Require().NoError(tr.ApplyStatus(domain.StatusAccepted, nil))
	s.Require().NoError(s.transportRepo.UpdateStatus(s.ctx, tr))

	found, err := s.transportRepo.FindByShortID(s.ctx, tr.ShortID)
	s.Require().NoError(err)
	s.Equal(domain.StatusAccepted, found.Status)
}

func (s *RepositoryIntegrationTestSuite) TestTransportRepository_UpdateStatus_Missing() {
	tr := s.newRequest()
	err := s.transportRepo.UpdateStatus(s.ctx, tr)
	s.ErrorIs(err, domain.ErrTransportRequestNotFound)
}

func (s *RepositoryIntegrationTestSuite) TestTransportRepository_Delete() {
	tr := s.newRequest()
	s.Require().NoError(s.transportRepo.Save(s.ctx, tr))
	s.Require().NoError(s.transportRepo.Delete(s.ctx, tr.ShortID))

	found, err := s.transportRepo.FindByShortID(s.ctx, tr.ShortID)
	s.Require().NoError(err)
	s.Nil(found)

	s.ErrorIs(s.transportRepo.Delete(s.ctx, tr.ShortID), domain.ErrTransportRequestNotFound)
}

func (s *RepositoryIntegrationTestSuite) seedSenderRecords(shortID string, count int) {
	docs := make([]interface{}, 0, count)
	for i := 0; i < count; i++ {
		docs = append(docs, domain.SenderCurrentRequest{
			ShortID:  shortID,
			SenderID: "sup-1",
			Status:   domain.SenderStatusPending,
			Items: []domain.RequestItem{
				{ItemID: "rm-1", Name: "Steel coil", Quantity: 4},
			},
			CreatedAt: time.Now().UTC(),
			UpdatedAt: time.Now().UTC(),
		})
	}
	_, err := s.db.Collection(rawMaterialCollection).InsertMany(s.ctx, docs)
	s.Require().NoError(err)
}

func (s *RepositoryIntegrationTestSuite) TestSenderStore_UpdateMany_PatchesAllMatches() {
	s.seedSenderRecords("r12abc4567", 2)

	addr := domain.Address{Street: "1 Dock Rd", City: "Jeddah", Country: "SA"}
	matched, err := s.rawMaterial.UpdateMany(s.ctx, "r12abc4567", domain.SenderUpdate{
		Status:             domain.SenderStatusInProgress,
		DepartureAddress:   &addr,
		TransporterID:      "trans-1",
		TransporterName:    "Fast Freight",
		TransportRequestID: "t12abc345",
	})
	s.Require().NoError(err)
	s.Equal(int64(2), matched)

	cursor, err := s.db.Collection(rawMaterialCollection).Find(s.ctx, bson.M{"shortId": "r12abc4567"})
	s.Require().NoError(err)
	var records []domain.SenderCurrentRequest
	s.Require().NoError(cursor.All(s.ctx, &records))
	s.Require().Len(records, 2)
	for _, rec := range records {
		s.Equal(domain.SenderStatusInProgress, rec.Status)
		s.Equal("trans-1", rec.TransporterID)
		s.Equal("t12abc345", rec.TransportRequestID)
		s.Require().NotNil(rec.DepartureAddress)
		s.Equal("Jeddah", rec.DepartureAddress.City)
	}
}

func (s *RepositoryIntegrationTestSuite) TestSenderStore_UpdateMany_ZeroMatched() {
	matched, err := s.rawMaterial.UpdateMany(s.ctx, "r99zzz9999", domain.SenderUpdate{
		Status: domain.SenderStatusPending,
	})
	s.Require().NoError(err)
	s.Zero(matched)
}

func (s *RepositoryIntegrationTestSuite) TestSenderStore_FindOneAndUpdate_ReturnsPreUpdateState() {
	s.seedSenderRecords("r12abc4567", 1)
	delivered := time.Now().UTC().Truncate(time.Millisecond)

	record, err := s.rawMaterial.FindOneAndUpdate(s.ctx, "r12abc4567", domain.SenderUpdate{
		Status:             domain.SenderStatusDelivered,
		ActualDeliveryDate: &delivered,
	})
	s.Require().NoError(err)
	s.Require().NotNil(record)
	// Pre-update snapshot still carries the old status and the manifest.
	s.Equal(domain.SenderStatusPending, record.Status)
	s.Require().Len(record.Items, 1)

	var stored domain.SenderCurrentRequest
	err = s.db.Collection(rawMaterialCollection).FindOne(s.ctx, bson.M{"shortId": "r12abc4567"}).Decode(&stored)
	s.Require().NoError(err)
	s.Equal(domain.SenderStatusDelivered, stored.Status)
	s.Require().NotNil(stored.ActualDeliveryDate)
	s.WithinDuration(delivered, *stored.ActualDeliveryDate, time.Second)
}

func (s *RepositoryIntegrationTestSuite) TestSenderStore_FindOneAndUpdate_Missing() {
	_, err := s.rawMaterial.FindOneAndUpdate(s.ctx, "r99zzz9999", domain.SenderUpdate{
		Status: domain.SenderStatusDelivered,
	})
	s.ErrorIs(err, domain.ErrSenderRecordNotFound)
}

func (s *RepositoryIntegrationTestSuite) TestHistoryRepository_Append() {
	tr := s.newRequest()
	now := time.Now().UTC()
	tr.ActualDeliveryDate = &now

	record := domain.NewHistoryRecord(tr, &domain.SenderCurrentRequest{
		Items:      []domain.RequestItem{{ItemID: "rm-1", Name: "Steel coil", Quantity: 4}},
		TotalPrice: 1200,
	}, domain.StatusDelivered)

	s.Require().NoError(s.history.Append(s.ctx, record))

	count, err := s.db.Collection(requestHistoryCollection).CountDocuments(s.ctx, bson.M{"requestId": tr.RequestID})
	s.Require().NoError(err)
	s.Equal(int64(1), count)
}
