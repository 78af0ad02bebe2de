package repository

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/vasapolrittideah/carbon-tracker-api/services/footprint-service/internal/model"
)

const activityCollection = "activities"

type activityMongoRepository struct {
	db *mongo.Database
}

func NewActivityMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) ActivityRepository {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "type", Value: 1}},
		},
	}

	if _, err := db.Collection(activityCollection).Indexes().CreateMany(ctx, indexes); err != nil {
		logger.Fatal().Err(err).Msg("failed to create activity indexes")
	}

	return &activityMongoRepository{db: db}
}

func (r *activityMongoRepository) CreateActivity(
	ctx context.Context,
	activity *model.Activity,
) (*model.Activity, error) {
	now := time.Now().UTC()
	if activity.ID == "" {
		activity.ID = uuid.NewString()
	}
	activity.Date = activity.Date.UTC()
	activity.CreatedAt = now
	activity.UpdatedAt = now

	if _, err := r.db.Collection(activityCollection).InsertOne(ctx, activity); err != nil {
		return nil, err
	}

	return activity, nil
}

func (r *activityMongoRepository) GetActivity(ctx context.Context, userID, id string) (*model.Activity, error) {
	var activity model.Activity
	err := r.db.Collection(activityCollection).
		FindOne(ctx, bson.M{"_id": id, "user_id": userID}).
		Decode(&activity)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrActivityNotFound
		}
		return nil, err
	}

	return &activity, nil
}

func (r *activityMongoRepository) ListActivities(
	ctx context.Context,
	params FilterActivitiesParams,
) ([]*model.Activity, int64, error) {
	collection := r.db.Collection(activityCollection)
	filter := buildActivityFilter(params)

	total, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().SetSort(buildActivitySort(params))
	if params.Limit > 0 {
		findOptions.SetLimit(int64(params.Limit))
	}
	if params.Offset > 0 {
		findOptions.SetSkip(int64(params.Offset))
	}

	cursor, err := collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	activities := make([]*model.Activity, 0)
	for cursor.Next(ctx) {
		var activity model.Activity
		if err := cursor.Decode(&activity); err != nil {
			return nil, 0, err
		}
		activities = append(activities, &activity)
	}

	if err := cursor.Err(); err != nil {
		return nil, 0, err
	}

	return activities, total, nil
}

func (r *activityMongoRepository) UpdateActivity(
	ctx context.Context,
	userID, id string,
	params UpdateActivityParams,
) (*model.Activity, error) {
	var activity model.Activity
	err := r.db.Collection(activityCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": id, "user_id": userID},
		bson.M{"$set": buildActivityUpdate(params, time.Now().UTC())},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&activity)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrActivityNotFound
		}
		return nil, err
	}

	return &activity, nil
}

func (r *activityMongoRepository) DeleteActivity(ctx context.Context, userID, id string) error {
	result, err := r.db.Collection(activityCollection).DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return ErrActivityNotFound
	}

	return nil
}

// buildActivityFilter translates params into a MongoDB filter document.
// Search text is matched literally and case-insensitively against name and description.
func buildActivityFilter(params FilterActivitiesParams) bson.M {
	filter := bson.M{"user_id": params.UserID}

	if params.Search != nil && *params.Search != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(*params.Search), "$options": "i"}
		filter["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"description": pattern},
		}
	}

	if params.Type != nil && *params.Type != "" {
		filter["type"] = *params.Type
	}

	if params.From != nil || params.To != nil {
		dateRange := bson.M{}
		if params.From != nil {
			dateRange["$gte"] = params.From.UTC()
		}
		if params.To != nil {
			dateRange["$lte"] = params.To.UTC()
		}
		filter["date"] = dateRange
	}

	return filter
}

// buildActivitySort orders by the requested field with _id as a tie breaker so
// pages never overlap.
func buildActivitySort(params FilterActivitiesParams) bson.D {
	order := 1
	if params.SortDesc {
		order = -1
	}

	return bson.D{
		{Key: params.SortBy.Column(), Value: order},
		{Key: "_id", Value: 1},
	}
}

func buildActivityUpdate(params UpdateActivityParams, now time.Time) bson.M {
	updateMap := bson.M{"updated_at": now}
	if params.Type != nil {
		updateMap["type"] = *params.Type
	}
	if params.Name != nil {
		updateMap["name"] = *params.Name
	}
	if params.Description != nil {
		updateMap["description"] = *params.Description
	}
	if params.Amount != nil {
		updateMap["amount"] = *params.Amount
	}
	if params.Unit != nil {
		updateMap["unit"] = *params.Unit
	}
	if params.CarbonCO2 != nil {
		updateMap["carbon_co2"] = *params.CarbonCO2
	}
	if params.Date != nil {
		updateMap["date"] = params.Date.UTC()
	}

	return updateMap
}
