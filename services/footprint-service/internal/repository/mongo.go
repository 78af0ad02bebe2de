package repository

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// NewMongoStore connects to MongoDB and returns repositories backed by database.
func NewMongoStore(ctx context.Context, logger *zerolog.Logger, uri, database string) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	db := client.Database(database)
	logger.Info().Str("database", database).Msg("connected to mongodb")

	return &Store{
		Users:      NewUserMongoRepository(ctx, logger, db),
		Identities: NewIdentityMongoRepository(ctx, logger, db),
		Activities: NewActivityMongoRepository(ctx, logger, db),
		Close:      client.Disconnect,
	}, nil
}
