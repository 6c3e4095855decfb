package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/isukupay/waste-platform/internal/core/domain"
)

const auditCollection = "audit_logs"

type MongoAuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *MongoAuditRepository {
	return &MongoAuditRepository{coll: db.Collection(auditCollection)}
}

type mongoAuditEntry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserEmail string             `bson:"user_email"`
	Action    string             `bson:"action"`
	IPAddress string             `bson:"ip_address,omitempty"`
	UserAgent string             `bson:"user_agent,omitempty"`
	Detail    string             `bson:"detail,omitempty"`
	CreatedAt int64              `bson:"created_at"`
}

func (r *MongoAuditRepository) Insert(ctx context.Context, entry *domain.AuditEntry) error {
	doc := mongoAuditEntry{
		UserEmail: entry.UserEmail,
		Action:    entry.Action,
		IPAddress: entry.IPAddress,
		UserAgent: entry.UserAgent,
		Detail:    entry.Detail,
		CreatedAt: entry.CreatedAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (r *MongoAuditRepository) List(ctx context.Context, userEmail string, limit int64) ([]domain.AuditEntry, error) {
	filter := bson.M{}
	if userEmail != "" {
		filter["user_email"] = userEmail
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []domain.AuditEntry
	for cursor.Next(ctx) {
		var doc mongoAuditEntry
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode audit entry: %w", err)
		}
		entries = append(entries, domain.AuditEntry{
			ID:        doc.ID.Hex(),
			UserEmail: doc.UserEmail,
			Action:    doc.Action,
			IPAddress: doc.IPAddress,
			UserAgent: doc.UserAgent,
			Detail:    doc.Detail,
			CreatedAt: unixToTime(doc.CreatedAt),
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	return entries, nil
}

// EnsureIndexes creates the necessary indexes on the audit_logs collection.
func (r *MongoAuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_email", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
