package content

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"location-pages/internal/location_pages/helper"
	"location-pages/internal/location_pages/model"
)

// MongoSource reads collections imported into MongoDB.
type MongoSource struct {
	Stores *helper.Stores
}

func (s *MongoSource) Load(ctx context.Context, collection string) ([]Entry, error) {
	coll := s.Stores.Collection(collection)
	if coll == nil {
		return nil, fmt.Errorf("unknown collection %q", collection)
	}
	// 按插入顺序读取，与 JSON 文件中的 key 顺序一致
	cur, err := coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", collection, err)
	}
	defer func(cur *mongo.Cursor, ctx context.Context) {
		_ = cur.Close(ctx)
	}(cur, ctx)

	var out []Entry
	for cur.Next(ctx) {
		var rec model.ContentRecord
		if err := cur.Decode(&rec); err != nil {
			return nil, fmt.Errorf("decode %s: %w", collection, err)
		}
		out = append(out, Entry{Key: rec.Slug, Record: rec})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", collection, err)
	}
	return out, nil
}
