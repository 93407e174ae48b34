package migration

import (
	"checkout-service/internal/pkg/constvars"
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Run creates the indexes the checkout audit trail is queried by.
func Run(db *mongo.Client, dbName string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	collection := db.Database(dbName).Collection(constvars.MongoCollectionCheckoutEvents)
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "sessionId", Value: 1}, {Key: "createdAt", Value: 1}},
			Options: options.Index().SetName("session_trail"),
		},
		{
			Keys:    bson.D{{Key: "orderId", Value: 1}},
			Options: options.Index().SetName("order_lookup").SetSparse(true),
		},
	}

	names, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		log.Fatalf("Error executing migration: %v", err)
	}

	log.Printf("Ensured %d indexes on %s!\n", len(names), constvars.MongoCollectionCheckoutEvents)
}
