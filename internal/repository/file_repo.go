package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/parisxmas/formbox/internal/db"
	"github.com/parisxmas/formbox/internal/models"
)

// FileRepo stores file metadata in a collection and the bytes in GridFS.
// BlobKey is the GridFS file id in hex.
type FileRepo struct {
	col    *mongo.Collection
	bucket *gridfs.Bucket
}

func NewFileRepo(m *db.Mongo) (*FileRepo, error) {
	bucket, err := gridfs.NewBucket(m.Database(), options.GridFSBucket().SetName(FilesBucket))
	if err != nil {
		return nil, fmt.Errorf("gridfs bucket: %w", err)
	}
	return &FileRepo{col: m.Collection(FilesCollection), bucket: bucket}, nil
}

func (r *FileRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "submissionId", Value: 1}}},
	})
	return err
}

func (r *FileRepo) Save(ctx context.Context, doc *models.FileDocument, data []byte) error {
	uploadOpts := options.GridFSUpload().SetMetadata(bson.M{"contentType": doc.ContentType})
	blobID, err := r.bucket.UploadFromStream(doc.FileName, bytes.NewReader(data), uploadOpts)
	if err != nil {
		return fmt.Errorf("upload blob: %w", err)
	}
	doc.BlobKey = blobID.Hex()
	if doc.ID == "" {
		doc.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		// Best effort: don't leave an orphaned blob behind the failed insert.
		r.bucket.Delete(blobID)
		return fmt.Errorf("insert file document: %w", err)
	}
	return nil
}

func (r *FileRepo) FindByID(ctx context.Context, id string) (*models.FileDocument, error) {
	var doc models.FileDocument
	err := r.col.FindOne(ctx, bson.M{"id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find file %s: %w", id, err)
	}
	return &doc, nil
}

func (r *FileRepo) FindBySubmission(ctx context.Context, submissionID string) ([]models.FileDocument, error) {
	cur, err := r.col.Find(ctx, bson.M{"submissionId": submissionID})
	if err != nil {
		return nil, fmt.Errorf("find files for submission %s: %w", submissionID, err)
	}
	defer cur.Close(ctx)

	docs := []models.FileDocument{}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode file documents: %w", err)
	}
	return docs, nil
}

func (r *FileRepo) Open(ctx context.Context, blobKey string) ([]byte, error) {
	blobID, err := primitive.ObjectIDFromHex(blobKey)
	if err != nil {
		return nil, fmt.Errorf("bad blob key %q: %w", blobKey, err)
	}
	stream, err := r.bucket.OpenDownloadStream(blobID)
	if err != nil {
		return nil, fmt.Errorf("open blob: %w", err)
	}
	defer stream.Close()
	return io.ReadAll(stream)
}

func (r *FileRepo) Delete(ctx context.Context, id string) error {
	doc, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if doc == nil {
		return nil
	}
	if blobID, err := primitive.ObjectIDFromHex(doc.BlobKey); err == nil {
		r.bucket.Delete(blobID)
	}
	_, err = r.col.DeleteOne(ctx, bson.M{"id": id})
	return err
}

func (r *FileRepo) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}
