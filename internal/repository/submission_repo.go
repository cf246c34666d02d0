package repository

import (
	"context"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/parisxmas/formbox/internal/db"
	"github.com/parisxmas/formbox/internal/models"
)

// SubmissionRepo is the MongoDB SubmissionStore.
type SubmissionRepo struct {
	col *mongo.Collection
}

func NewSubmissionRepo(m *db.Mongo) *SubmissionRepo {
	return &SubmissionRepo{col: m.Collection(SubmissionsCollection)}
}

func (r *SubmissionRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "formId", Value: 1}}},
		{Keys: bson.D{{Key: "formId", Value: 1}, {Key: "submittedAt", Value: -1}}},
	})
	return err
}

func (r *SubmissionRepo) Insert(ctx context.Context, sub *models.Submission) error {
	if sub.ID == "" {
		sub.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.col.InsertOne(ctx, sub); err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

func (r *SubmissionRepo) FindByFormID(ctx context.Context, formID string) ([]models.Submission, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submittedAt", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"formId": formID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find submissions for %s: %w", formID, err)
	}
	defer cur.Close(ctx)

	subs := []models.Submission{}
	if err := cur.All(ctx, &subs); err != nil {
		return nil, fmt.Errorf("decode submissions: %w", err)
	}
	return subs, nil
}

func (r *SubmissionRepo) DeleteByFormID(ctx context.Context, formID string) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{"formId": formID})
	if err != nil {
		return 0, fmt.Errorf("delete submissions for %s: %w", formID, err)
	}
	return res.DeletedCount, nil
}

func (r *SubmissionRepo) CountByFormID(ctx context.Context, formID string) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"formId": formID})
}

func (r *SubmissionRepo) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}

func (r *SubmissionRepo) Search(ctx context.Context, q SubmissionQuery) ([]models.Submission, int64, error) {
	filter := bson.M{"formId": q.FormID}
	for fieldID, fd := range q.Filters {
		key := "data." + fieldID
		cond, err := filterCondition(fd)
		if err != nil {
			return nil, 0, err
		}
		filter[key] = cond
	}
	if q.Text != "" {
		filter["searchText"] = bson.M{
			"$regex": primitive.Regex{Pattern: regexp.QuoteMeta(q.Text), Options: "i"},
		}
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count search: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "submittedAt", Value: -1}}).
		SetSkip(q.Skip).
		SetLimit(q.Limit)
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("search submissions: %w", err)
	}
	defer cur.Close(ctx)

	subs := []models.Submission{}
	if err := cur.All(ctx, &subs); err != nil {
		return nil, 0, fmt.Errorf("decode search results: %w", err)
	}
	return subs, total, nil
}

func (r *SubmissionRepo) IndexNames(ctx context.Context) ([]string, error) {
	cur, err := r.col.Indexes().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list indexes: %w", err)
	}
	defer cur.Close(ctx)

	names := []string{}
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		if name, ok := idx["name"].(string); ok {
			names = append(names, name)
		}
	}
	return names, cur.Err()
}

// filterCondition maps a FilterDescriptor onto a Mongo condition document.
func filterCondition(fd FilterDescriptor) (any, error) {
	if fd.Min != nil || fd.Max != nil {
		cond := bson.M{}
		if fd.Min != nil {
			cond["$gte"] = fd.Min
		}
		if fd.Max != nil {
			cond["$lte"] = fd.Max
		}
		return cond, nil
	}
	switch fd.Op {
	case "", "eq":
		return fd.Value, nil
	case "ne":
		return bson.M{"$ne": fd.Value}, nil
	case "gt":
		return bson.M{"$gt": fd.Value}, nil
	case "gte":
		return bson.M{"$gte": fd.Value}, nil
	case "lt":
		return bson.M{"$lt": fd.Value}, nil
	case "lte":
		return bson.M{"$lte": fd.Value}, nil
	case "in":
		vals, ok := fd.Value.([]any)
		if !ok {
			return nil, fmt.Errorf("in filter needs an array value")
		}
		return bson.M{"$in": vals}, nil
	default:
		return nil, fmt.Errorf("unknown filter op %q", fd.Op)
	}
}
