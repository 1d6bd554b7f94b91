package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gigindia/marketplace/internal/core/domain"
	"github.com/gigindia/marketplace/internal/core/ports"
)

const collectionProvisioningEvents = "provisioning_events"

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	col *mongo.Collection
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *mongo.Database) ports.AuditRepository {
	return &AuditRepository{col: db.Collection(collectionProvisioningEvents)}
}

// InsertProvisioningEvent persists one provisioning attempt to the audit collection.
func (r *AuditRepository) InsertProvisioningEvent(ctx context.Context, event *domain.ProvisioningEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"user_id":     event.UserID,
		"user_type":   string(event.UserType),
		"outcome":     string(event.Outcome),
		"recorded_at": event.RecordedAt.UTC(),
		"inserted_at": time.Now().UTC(),
	}
	if event.Error != "" {
		doc["error"] = event.Error
	}

	_, err := r.col.InsertOne(ctx, doc)
	return err
}

// EnsureIndexes creates the indexes the audit collection is queried by.
// Safe to call on every startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := db.Collection(collectionProvisioningEvents).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "recorded_at", Value: -1}},
			Options: options.Index().SetName("user_recorded_at"),
		},
		{
			Keys:    bson.D{{Key: "outcome", Value: 1}},
			Options: options.Index().SetName("outcome"),
		},
	})
	return err
}
