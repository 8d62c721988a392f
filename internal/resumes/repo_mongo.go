package resumes

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"resume-maker/internal/shared/metrics"
)

const mongoCollection = "resumes"

var mongoSortFields = map[string]string{
	SortByCreatedAt:    "metadata.createdAt",
	SortByUpdatedAt:    "metadata.updatedAt",
	SortByTemplateType: "templateType",
}

// MongoRepo implements Repo on a MongoDB collection.
type MongoRepo struct {
	col *mongo.Collection
}

// NewMongoRepo returns a repo over the resumes collection of db.
func NewMongoRepo(db *mongo.Database) *MongoRepo {
	return &MongoRepo{col: db.Collection(mongoCollection)}
}

// EnsureIndexes creates the lookup indexes used by List.
func (r *MongoRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "metadata.createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "sessionId", Value: 1}, {Key: "metadata.createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "templateType", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create resume indexes: %w", err)
	}
	return nil
}

// Create inserts a resume.
func (r *MongoRepo) Create(ctx context.Context, resume Resume) error {
	metrics.IncRepoOp("mongo", "create")
	if _, err := r.col.InsertOne(ctx, resume); err != nil {
		metrics.IncError("mongo_resume_repo", "create_error")
		return fmt.Errorf("insert resume: %w", err)
	}
	return nil
}

// GetByID returns a resume by ID.
func (r *MongoRepo) GetByID(ctx context.Context, id string) (Resume, error) {
	metrics.IncRepoOp("mongo", "get")
	var resume Resume
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&resume)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Resume{}, ErrNotFound
		}
		metrics.IncError("mongo_resume_repo", "get_error")
		return Resume{}, err
	}
	return resume, nil
}

// List returns one page of matching resumes and the total match count.
func (r *MongoRepo) List(ctx context.Context, q Query) ([]Resume, int, error) {
	metrics.IncRepoOp("mongo", "list")
	filter := mongoFilter(q)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		metrics.IncError("mongo_resume_repo", "count_error")
		return nil, 0, fmt.Errorf("count resumes: %w", err)
	}

	opts := options.Find().
		SetSort(mongoSort(q)).
		SetSkip(int64(q.Offset())).
		SetLimit(int64(q.Limit))
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		metrics.IncError("mongo_resume_repo", "list_error")
		return nil, 0, fmt.Errorf("list resumes: %w", err)
	}
	defer cur.Close(ctx)

	out := []Resume{}
	for cur.Next(ctx) {
		var resume Resume
		if err := cur.Decode(&resume); err != nil {
			metrics.IncError("mongo_resume_repo", "list_decode_error")
			return nil, 0, err
		}
		out = append(out, resume)
	}
	if err := cur.Err(); err != nil {
		metrics.IncError("mongo_resume_repo", "list_cursor_error")
		return nil, 0, err
	}
	return out, int(total), nil
}

// Update replaces a resume when the stored version matches prevVersion.
func (r *MongoRepo) Update(ctx context.Context, resume Resume, prevVersion int) error {
	metrics.IncRepoOp("mongo", "update")
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": resume.ID, "metadata.version": prevVersion}, resume)
	if err != nil {
		metrics.IncError("mongo_resume_repo", "update_error")
		return fmt.Errorf("update resume: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}
	n, err := r.col.CountDocuments(ctx, bson.M{"_id": resume.ID})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrConflict
}

// Delete removes a resume by ID.
func (r *MongoRepo) Delete(ctx context.Context, id string) error {
	metrics.IncRepoOp("mongo", "delete")
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		metrics.IncError("mongo_resume_repo", "delete_error")
		return fmt.Errorf("delete resume: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Ping checks connectivity to the cluster.
func (r *MongoRepo) Ping(ctx context.Context) error {
	return r.col.Database().Client().Ping(ctx, nil)
}

func mongoFilter(q Query) bson.M {
	filter := bson.M{}
	if q.UserID != "" {
		filter["userId"] = q.UserID
	}
	if q.SessionID != "" {
		filter["sessionId"] = q.SessionID
	}
	if q.TemplateType != "" {
		filter["templateType"] = string(q.TemplateType)
	}
	return filter
}

func mongoSort(q Query) bson.D {
	field, ok := mongoSortFields[q.SortBy]
	if !ok {
		field = mongoSortFields[SortByCreatedAt]
	}
	dir := -1
	if q.SortOrder == SortAsc {
		dir = 1
	}
	sort := bson.D{{Key: field, Value: dir}}
	if field != mongoSortFields[SortByCreatedAt] {
		sort = append(sort, bson.E{Key: "metadata.createdAt", Value: -1})
	}
	return append(sort, bson.E{Key: "_id", Value: 1})
}

var _ Repo = (*MongoRepo)(nil)
