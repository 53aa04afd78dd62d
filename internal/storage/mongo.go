package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/sellermate/prowl/internal/config"
	"github.com/sellermate/prowl/internal/types"
)

// MongoStorage writes one document per scraped record.
type MongoStorage struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     *slog.Logger
}

func NewMongoStorage(ctx context.Context, cfg *config.StorageConfig, logger *slog.Logger) (*MongoStorage, error) {
	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("mongodb storage requires a connection URI")
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return &MongoStorage{
		client:     client,
		collection: client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection),
		logger:     logger.With("component", "storage", "sink", "mongodb"),
	}, nil
}

func (s *MongoStorage) Name() string { return "mongodb" }

func (s *MongoStorage) Store(ctx context.Context, rec *types.ProductRecord) error {
	doc := struct {
		*types.ProductRecord `bson:",inline"`
		ScrapedAt            time.Time `bson:"scrapedAt"`
	}{ProductRecord: rec, ScrapedAt: time.Now().UTC()}

	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	s.logger.Debug("record inserted", "url", rec.SourceURL)
	return nil
}

func (s *MongoStorage) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
