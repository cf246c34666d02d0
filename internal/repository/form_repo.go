package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/parisxmas/formbox/internal/db"
	"github.com/parisxmas/formbox/internal/models"
)

// FormRepo is the MongoDB FormStore.
type FormRepo struct {
	col *mongo.Collection
}

func NewFormRepo(m *db.Mongo) *FormRepo {
	return &FormRepo{col: m.Collection(FormsCollection)}
}

func (r *FormRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "updatedAt", Value: -1}}},
	})
	return err
}

func (r *FormRepo) Insert(ctx context.Context, form *models.Form) error {
	if _, err := r.col.InsertOne(ctx, form); err != nil {
		return fmt.Errorf("insert form: %w", err)
	}
	return nil
}

func (r *FormRepo) FindAll(ctx context.Context) ([]models.Form, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find forms: %w", err)
	}
	defer cur.Close(ctx)

	forms := []models.Form{}
	if err := cur.All(ctx, &forms); err != nil {
		return nil, fmt.Errorf("decode forms: %w", err)
	}
	return forms, nil
}

func (r *FormRepo) FindByID(ctx context.Context, id string) (*models.Form, error) {
	var form models.Form
	err := r.col.FindOne(ctx, bson.M{"id": id}).Decode(&form)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find form %s: %w", id, err)
	}
	return &form, nil
}

func (r *FormRepo) Update(ctx context.Context, form *models.Form) (bool, error) {
	res, err := r.col.ReplaceOne(ctx, bson.M{"id": form.ID}, form)
	if err != nil {
		return false, fmt.Errorf("update form %s: %w", form.ID, err)
	}
	return res.MatchedCount > 0, nil
}

func (r *FormRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return false, fmt.Errorf("delete form %s: %w", id, err)
	}
	return res.DeletedCount > 0, nil
}

func (r *FormRepo) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}
