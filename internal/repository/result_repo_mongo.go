package repository

import (
	"certprep/internal/model"
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoResultRepo struct {
	collection *mongo.Collection
	counters   *mongo.Collection
}

// NewMongoResultRepo returns a ResultRepo backed by MongoDB
func NewMongoResultRepo(db *mongo.Database) ResultRepo {
	return &mongoResultRepo{
		collection: db.Collection("results"),
		counters:   db.Collection("counters"),
	}
}

func (r *mongoResultRepo) Create(ctx context.Context, result *model.Result) error {
	id, err := nextSequence(ctx, r.counters, "results")
	if err != nil {
		return err
	}
	result.ID = id
	result.Date = result.Date.UTC()

	_, err = r.collection.InsertOne(ctx, result)
	return err
}

func (r *mongoResultRepo) List(ctx context.Context) ([]model.Result, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	results := []model.Result{}
	if err = cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *mongoResultRepo) Stats(ctx context.Context) (*model.ResultStats, error) {
	percent := bson.M{"$multiply": bson.A{bson.M{"$divide": bson.A{"$score", "$total"}}, 100}}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"total": bson.M{"$gt": 0}}}},
		{{Key: "$group", Value: bson.M{
			"_id":             nil,
			"attempts":        bson.M{"$sum": 1},
			"average_percent": bson.M{"$avg": percent},
			"best_percent":    bson.M{"$max": percent},
			"total_answered":  bson.M{"$sum": "$total"},
			"total_correct":   bson.M{"$sum": "$score"},
		}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []model.ResultStats
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &model.ResultStats{}, nil
	}
	return &rows[0], nil
}
