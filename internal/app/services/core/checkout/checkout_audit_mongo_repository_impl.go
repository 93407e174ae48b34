package checkout

import (
	"checkout-service/internal/app/contracts"
	"checkout-service/internal/app/models"
	"checkout-service/internal/pkg/constvars"
	"checkout-service/internal/pkg/exceptions"
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CheckoutAuditMongoRepository struct {
	Collection *mongo.Collection
}

func NewCheckoutAuditMongoRepository(db *mongo.Client, dbName string) contracts.CheckoutAuditRepository {
	return newCheckoutAuditMongoRepository(db.Database(dbName).Collection(constvars.MongoCollectionCheckoutEvents))
}

func newCheckoutAuditMongoRepository(collection *mongo.Collection) *CheckoutAuditMongoRepository {
	return &CheckoutAuditMongoRepository{Collection: collection}
}

func (r *CheckoutAuditMongoRepository) Record(ctx context.Context, event *models.CheckoutEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	_, err := r.Collection.InsertOne(ctx, event)
	if err != nil {
		return exceptions.ErrMongoDBInsertDocument(err)
	}
	return nil
}

// ListBySession returns the trail of a session, oldest first.
func (r *CheckoutAuditMongoRepository) ListBySession(ctx context.Context, sessionID string) ([]models.CheckoutEvent, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.Collection.Find(ctx, bson.M{"sessionId": sessionID}, findOptions)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	events := make([]models.CheckoutEvent, 0)
	err = cursor.All(ctx, &events)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return events, nil
}
