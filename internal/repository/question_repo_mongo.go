package repository

import (
	"certprep/internal/model"
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoQuestionRepo struct {
	collection *mongo.Collection
	counters   *mongo.Collection
}

// NewMongoQuestionRepo returns a QuestionRepo backed by MongoDB
func NewMongoQuestionRepo(db *mongo.Database) QuestionRepo {
	return &mongoQuestionRepo{
		collection: db.Collection("questions"),
		counters:   db.Collection("counters"),
	}
}

func (r *mongoQuestionRepo) Create(ctx context.Context, question *model.Question) error {
	// Integer ids keep the codec token and the SQL backend interchangeable
	id, err := nextSequence(ctx, r.counters, "questions")
	if err != nil {
		return err
	}
	question.ID = id

	_, err = r.collection.InsertOne(ctx, question)
	return err
}

func (r *mongoQuestionRepo) GetByID(ctx context.Context, id int64) (*model.Question, error) {
	var question model.Question
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&question)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // Question not found
		}
		return nil, err
	}
	return &question, nil
}

func (r *mongoQuestionRepo) Update(ctx context.Context, question *model.Question) error {
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": question.ID}, question)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoQuestionRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoQuestionRepo) List(ctx context.Context) ([]model.QuestionSummary, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(bson.M{"domain": 1, "question": 1})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	questions := []model.QuestionSummary{}
	if err = cursor.All(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *mongoQuestionRepo) ListDomains(ctx context.Context) ([]model.DomainCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$domain", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	domains := []model.DomainCount{}
	if err = cursor.All(ctx, &domains); err != nil {
		return nil, err
	}
	return domains, nil
}

func (r *mongoQuestionRepo) CountByDomains(ctx context.Context, domains []string) (int, error) {
	n, err := r.collection.CountDocuments(ctx, domainMatch(domains))
	return int(n), err
}

func (r *mongoQuestionRepo) SampleIDs(ctx context.Context, domains []string, n int) ([]int64, error) {
	if n <= 0 {
		return []int64{}, nil
	}
	// $sample picks without replacement when size is below the match count
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: domainMatch(domains)}},
		{{Key: "$sample", Value: bson.M{"size": n}}},
		{{Key: "$project", Value: bson.M{"_id": 1}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID int64 `bson:"_id"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	// Drop any repeats $sample may return on its random-cursor path
	ids := make([]int64, 0, len(rows))
	seen := make(map[int64]bool, len(rows))
	for _, row := range rows {
		if !seen[row.ID] {
			seen[row.ID] = true
			ids = append(ids, row.ID)
		}
	}
	return ids, nil
}

func (r *mongoQuestionRepo) Random(ctx context.Context) (*model.Question, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sample", Value: bson.M{"size": 1}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var questions []model.Question
	if err = cursor.All(ctx, &questions); err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, nil
	}
	return &questions[0], nil
}

func domainMatch(domains []string) bson.M {
	if len(domains) == 0 {
		return bson.M{}
	}
	return bson.M{"domain": bson.M{"$in": domains}}
}

// nextSequence atomically increments and returns the named counter
func nextSequence(ctx context.Context, counters *mongo.Collection, name string) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := counters.FindOneAndUpdate(ctx, bson.M{"_id": name}, bson.M{"$inc": bson.M{"seq": 1}}, opts).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Seq, nil
}
