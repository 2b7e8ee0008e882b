package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/siteforge/intake-system/internal/core/domain"
)

const collectionRoles = "roles"

// RoleRepository stores the per-identity role keyed directly by Telegram id.
// It is a separate collection from users because an unregistered identity
// may still hold the admin role.
type RoleRepository struct {
	col *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{col: db.Collection(collectionRoles)}
}

type roleDoc struct {
	TelegramID int64     `bson:"_id"`
	Role       string    `bson:"role"`
	UpdatedAt  time.Time `bson:"updated_at"`
}

// Get returns the stored role, defaulting to guest when none is stored.
func (r *RoleRepository) Get(ctx context.Context, tgID int64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc roleDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": tgID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.RoleGuest, nil
		}
		return "", err
	}
	return doc.Role, nil
}

// Set upserts the role for an identity.
func (r *RoleRepository) Set(ctx context.Context, tgID int64, role string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"role": role, "updated_at": time.Now().UTC()}}
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": tgID}, update, options.Update().SetUpsert(true))
	return err
}
