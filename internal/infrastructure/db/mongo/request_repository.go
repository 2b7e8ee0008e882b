package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/siteforge/intake-system/internal/core/domain"
)

const collectionRequests = "requests"

type RequestRepository struct {
	col *mongo.Collection
}

func NewRequestRepository(db *mongo.Database) *RequestRepository {
	return &RequestRepository{col: db.Collection(collectionRequests)}
}

// Create inserts the request as a single document: client and site payload
// are embedded, so creation is one atomic write.
func (r *RequestRepository) Create(ctx context.Context, req *domain.Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, req); err != nil {
		return "", err
	}
	return req.ID, nil
}

func (r *RequestRepository) FindByID(ctx context.Context, id string) (*domain.Request, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var req domain.Request
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&req); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

// ListByOwner returns a page of the owner's requests, newest first.
func (r *RequestRepository) ListByOwner(ctx context.Context, ownerID string, offset, limit int) ([]*domain.Request, error) {
	return r.list(ctx, bson.M{"manager_id": ownerID}, offset, limit)
}

func (r *RequestRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.col.CountDocuments(ctx, bson.M{"manager_id": ownerID})
}

// ListAll returns a page of all requests, newest first. limit <= 0 returns
// everything (the bulk-export path).
func (r *RequestRepository) ListAll(ctx context.Context, offset, limit int) ([]*domain.Request, error) {
	return r.list(ctx, bson.M{}, offset, limit)
}

func (r *RequestRepository) CountAll(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.col.CountDocuments(ctx, bson.M{})
}

func (r *RequestRepository) list(ctx context.Context, filter bson.M, offset, limit int) ([]*domain.Request, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(offset))
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var requests []*domain.Request
	if err := cur.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// PatchSiteField loads the stored site sub-record, applies the named edit
// through the domain patcher, and writes the whole sub-record back.
func (r *RequestRepository) PatchSiteField(ctx context.Context, id, field, raw string) error {
	req, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}

	site := req.Site
	site.Patch(field, raw)

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"site": site}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrRequestNotFound
	}
	return nil
}

// Delete removes at most one document. A non-empty scopeOwnerID restricts
// the match to that owner; the boolean reports whether a document was
// removed.
func (r *RequestRepository) Delete(ctx context.Context, id, scopeOwnerID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": id}
	if scopeOwnerID != "" {
		filter["manager_id"] = scopeOwnerID
	}

	res, err := r.col.DeleteOne(ctx, filter)
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// EnsureIndexes creates necessary indexes on the requests collection.
func (r *RequestRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "manager_id", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
