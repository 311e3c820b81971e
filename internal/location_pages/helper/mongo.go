package helper

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoOptions 连接参数
type MongoOptions struct {
	Host       string
	DBName     string
	Username   string
	Password   string
	AuthSource string
	Timeout    time.Duration
}

type Stores struct {
	Client        *mongo.Client
	DB            *mongo.Database
	Neighborhoods *mongo.Collection // 固定集合：neighborhoods
	Subdomains    *mongo.Collection // 固定集合：subdomains
}

// Collection returns the fixed collection for name, or nil.
func (s *Stores) Collection(name string) *mongo.Collection {
	switch name {
	case "neighborhoods":
		return s.Neighborhoods
	case "subdomains":
		return s.Subdomains
	}
	return nil
}

func (s *Stores) Close(ctx context.Context) error {
	return s.Client.Disconnect(ctx)
}

func NewMongo(ctx context.Context, o MongoOptions) (*Stores, error) {
	clientOpts := options.Client().ApplyURI("mongodb://" + o.Host)
	if o.Username != "" {
		clientOpts.SetAuth(options.Credential{
			Username:   o.Username,
			Password:   o.Password,
			AuthSource: o.AuthSource,
		})
	}
	if o.Timeout > 0 {
		clientOpts.SetConnectTimeout(o.Timeout).SetServerSelectionTimeout(o.Timeout)
	}

	cli, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect %s: %w", o.Host, err)
	}
	if err = cli.Ping(ctx, nil); err != nil {
		_ = cli.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping %s: %w", o.Host, err)
	}

	db := cli.Database(o.DBName)
	s := &Stores{
		Client:        cli,
		DB:            db,
		Neighborhoods: db.Collection("neighborhoods"),
		Subdomains:    db.Collection("subdomains"),
	}
	if err := ensureIndexes(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// MustMongo panics on connection failure; only for process startup.
func MustMongo(ctx context.Context, o MongoOptions) *Stores {
	s, err := NewMongo(ctx, o)
	if err != nil {
		panic(err)
	}
	return s
}

func ensureIndexes(ctx context.Context, s *Stores) error {
	for _, c := range []*mongo.Collection{s.Neighborhoods, s.Subdomains} {
		_, err := c.Indexes().CreateMany(ctx, []mongo.IndexModel{
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "publishedAt", Value: -1}}},
		})
		if err != nil {
			return fmt.Errorf("ensure indexes on %s: %w", c.Name(), err)
		}
	}
	// 邻里页按 parentState 反查同城其他邻里
	_, err := s.Neighborhoods.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "parentState", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("ensure parentState index: %w", err)
	}
	return nil
}
