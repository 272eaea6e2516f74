package repository

import (
	"context"
	"errors"

	"github.com/tieubaoca/docqa-be/types"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// CacheRepo persists processed-document cache entries keyed by fingerprint.
// Get returns (nil, nil) on a miss, a miss is the normal compute path and
// not an error.
type CacheRepo interface {
	Get(ctx context.Context, fingerprint string) (*types.CacheEntry, error)
	Put(ctx context.Context, entry *types.CacheEntry) error
	Delete(ctx context.Context, fingerprint string) error
	List(ctx context.Context) ([]types.CacheEntry, error)
	Clear(ctx context.Context) error
}

type cacheRepo struct {
	collection *mongo.Collection
}

func NewCacheRepo(collection *mongo.Collection) CacheRepo {
	return &cacheRepo{
		collection: collection,
	}
}

func (r *cacheRepo) Get(ctx context.Context, fingerprint string) (*types.CacheEntry, error) {
	var entry types.CacheEntry
	err := r.collection.FindOne(ctx, bson.M{"_id": fingerprint}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *cacheRepo) Put(ctx context.Context, entry *types.CacheEntry) error {
	_, err := r.collection.ReplaceOne(ctx,
		bson.M{"_id": entry.Fingerprint}, entry,
		options.Replace().SetUpsert(true))
	return err
}

func (r *cacheRepo) Delete(ctx context.Context, fingerprint string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": fingerprint})
	return err
}

// List returns entry metadata without the chunk payloads, the sidebar style
// inventory does not need megabytes of chunk text.
func (r *cacheRepo) List(ctx context.Context) ([]types.CacheEntry, error) {
	cursor, err := r.collection.Find(ctx, bson.M{},
		options.Find().SetProjection(bson.M{"chunks": 0}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []types.CacheEntry
	for cursor.Next(ctx) {
		var entry types.CacheEntry
		if err := cursor.Decode(&entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, cursor.Err()
}

func (r *cacheRepo) Clear(ctx context.Context) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{})
	return err
}
