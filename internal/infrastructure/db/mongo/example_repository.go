package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/webscaffold/webapp/internal/core/domain"
)

const (
	examplesCollection = "examples"
	countersCollection = "counters"
	examplesCounterID  = "examples"
)

// ExampleRepository stores examples with int64 ids drawn from a counter
// document so they stay sequential like the in-memory store.
type ExampleRepository struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

func NewExampleRepository(db *mongo.Database) *ExampleRepository {
	return &ExampleRepository{
		col:      db.Collection(examplesCollection),
		counters: db.Collection(countersCollection),
	}
}

type mongoExample struct {
	ID          int64      `bson:"_id"`
	Title       string     `bson:"title"`
	Description string     `bson:"description,omitempty"`
	Owner       string     `bson:"owner"`
	CreatedAt   time.Time  `bson:"created_at"`
	UpdatedAt   *time.Time `bson:"updated_at,omitempty"`
}

func (r *ExampleRepository) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": examplesCounterID},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, dbError("next example id", err)
	}
	return counter.Seq, nil
}

func (r *ExampleRepository) Create(ctx context.Context, ex *domain.Example) (*domain.Example, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.nextID(ctx)
	if err != nil {
		return nil, err
	}

	doc := toMongoExample(ex)
	doc.ID = id
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, dbError("insert example", err)
	}
	return doc.toDomain(), nil
}

func (r *ExampleRepository) FindByID(ctx context.Context, id int64) (*domain.Example, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoExample
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrExampleNotFound
		}
		return nil, dbError("find example", err)
	}
	return doc.toDomain(), nil
}

func (r *ExampleRepository) List(ctx context.Context, limit, offset int) ([]*domain.Example, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, dbError("count examples", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, dbError("list examples", err)
	}
	defer cur.Close(ctx)

	var docs []mongoExample
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, dbError("decode examples", err)
	}

	items := make([]*domain.Example, 0, len(docs))
	for i := range docs {
		items = append(items, docs[i].toDomain())
	}
	return items, total, nil
}

func (r *ExampleRepository) Update(ctx context.Context, ex *domain.Example) (*domain.Example, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": ex.ID}, toMongoExample(ex))
	if err != nil {
		return nil, dbError("update example", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrExampleNotFound
	}
	return ex, nil
}

func (r *ExampleRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return dbError("delete example", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrExampleNotFound
	}
	return nil
}

func toMongoExample(ex *domain.Example) mongoExample {
	return mongoExample{
		ID:          ex.ID,
		Title:       ex.Title,
		Description: ex.Description,
		Owner:       ex.Owner,
		CreatedAt:   ex.CreatedAt,
		UpdatedAt:   ex.UpdatedAt,
	}
}

func (doc *mongoExample) toDomain() *domain.Example {
	ex := &domain.Example{
		ID:          doc.ID,
		Title:       doc.Title,
		Description: doc.Description,
		Owner:       doc.Owner,
		CreatedAt:   doc.CreatedAt.UTC(),
	}
	if doc.UpdatedAt != nil {
		t := doc.UpdatedAt.UTC()
		ex.UpdatedAt = &t
	}
	return ex
}
