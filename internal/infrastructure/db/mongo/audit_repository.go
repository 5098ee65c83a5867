package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/filmfest/catalog-api/internal/core/domain"
)

const auditCollection = "audit_events"

// AuditRepository appends to the security audit trail. The collection is
// insert-only; nothing in the service reads it back.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

type mongoAuditEvent struct {
	Subject   string `bson:"subject"`
	Kind      string `bson:"kind"`
	Detail    string `bson:"detail,omitempty"`
	Timestamp int64  `bson:"timestamp"`
}

func (r *AuditRepository) Insert(ctx context.Context, ev *domain.AuditEvent) error {
	doc := mongoAuditEvent{
		Subject:   ev.Subject,
		Kind:      ev.Kind,
		Detail:    ev.Detail,
		Timestamp: ev.Timestamp.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}
