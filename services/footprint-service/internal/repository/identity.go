package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/vasapolrittideah/carbon-tracker-api/services/footprint-service/internal/model"
)

const identityCollection = "identities"

type identityMongoRepository struct {
	db *mongo.Database
}

func NewIdentityMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) IdentityRepository {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "provider", Value: 1}, {Key: "provider_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
		},
	}

	if _, err := db.Collection(identityCollection).Indexes().CreateMany(ctx, indexes); err != nil {
		logger.Fatal().Err(err).Msg("failed to create identity indexes")
	}

	return &identityMongoRepository{db: db}
}

func (r *identityMongoRepository) CreateIdentity(
	ctx context.Context,
	identity *model.Identity,
) (*model.Identity, error) {
	now := time.Now().UTC()
	if identity.ID == "" {
		identity.ID = uuid.NewString()
	}
	identity.CreatedAt = now
	identity.UpdatedAt = now
	if identity.LastLoginAt.IsZero() {
		identity.LastLoginAt = now
	}

	if _, err := r.db.Collection(identityCollection).InsertOne(ctx, identity); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrIdentityAlreadyExists
		}
		return nil, err
	}

	return identity, nil
}

func (r *identityMongoRepository) GetIdentityByProvider(
	ctx context.Context,
	providerID string,
	provider string,
) (*model.Identity, error) {
	var identity model.Identity
	err := r.db.Collection(identityCollection).FindOne(ctx, bson.M{
		"provider_id": providerID,
		"provider":    provider,
	}).Decode(&identity)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}

	return &identity, nil
}

func (r *identityMongoRepository) UpdateLastLogin(ctx context.Context, userID string, provider string) error {
	now := time.Now().UTC()
	result, err := r.db.Collection(identityCollection).UpdateOne(
		ctx,
		bson.M{"user_id": userID, "provider": provider},
		bson.M{"$set": bson.M{"last_login_at": now, "updated_at": now}},
	)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return ErrIdentityNotFound
	}

	return nil
}
