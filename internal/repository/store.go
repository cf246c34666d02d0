// Package repository persists forms, submissions, users, and uploaded files
// in document collections. Every store is keyed by an application-generated
// string id; the backing database's own _id never crosses this boundary.
package repository

import (
	"context"

	"github.com/parisxmas/formbox/internal/models"
)

const (
	FormsCollection       = "forms"
	SubmissionsCollection = "formsubmissions"
	UsersCollection       = "users"
	FilesCollection       = "files"
	FilesBucket           = "formbox_files"
)

// FormStore implements document CRUD for forms.
type FormStore interface {
	Insert(ctx context.Context, form *models.Form) error
	// FindAll returns every form, most recently updated first.
	FindAll(ctx context.Context) ([]models.Form, error)
	// FindByID returns (nil, nil) when no form has the external id.
	FindByID(ctx context.Context, id string) (*models.Form, error)
	// Update replaces the stored document matching form.ID. Returns false
	// when no document matched.
	Update(ctx context.Context, form *models.Form) (bool, error)
	// Delete removes the form. Returns false when no document matched.
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

// FilterDescriptor narrows a search on one submission data field.
type FilterDescriptor struct {
	Value any    `json:"value,omitempty"`
	Min   any    `json:"min,omitempty"`
	Max   any    `json:"max,omitempty"`
	Op    string `json:"op,omitempty"` // eq, ne, gt, gte, lt, lte, in
}

// SubmissionQuery describes a paginated search over one form's submissions.
type SubmissionQuery struct {
	FormID  string
	Filters map[string]FilterDescriptor // field id -> filter
	Text    string                      // case-insensitive match on data values
	Skip    int64
	Limit   int64
}

// SubmissionStore implements document CRUD and search for submissions.
type SubmissionStore interface {
	// Insert stores the submission, generating its id when empty.
	Insert(ctx context.Context, sub *models.Submission) error
	// FindByFormID returns all submissions for the form, newest first.
	FindByFormID(ctx context.Context, formID string) ([]models.Submission, error)
	// DeleteByFormID removes every submission referencing the form.
	// Naturally idempotent; this is the second step of the delete cascade.
	DeleteByFormID(ctx context.Context, formID string) (int64, error)
	CountByFormID(ctx context.Context, formID string) (int64, error)
	Count(ctx context.Context) (int64, error)
	Search(ctx context.Context, q SubmissionQuery) ([]models.Submission, int64, error)
	EnsureIndexes(ctx context.Context) error
	// IndexNames lists the collection's indexes, for the admin endpoint.
	IndexNames(ctx context.Context) ([]string, error)
}

type UserStore interface {
	Insert(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	EnsureIndexes(ctx context.Context) error
}

// FileStore keeps file metadata as documents and the bytes in blob storage.
type FileStore interface {
	// Save stores the blob and its metadata, filling doc.ID and doc.BlobKey.
	Save(ctx context.Context, doc *models.FileDocument, data []byte) error
	FindByID(ctx context.Context, id string) (*models.FileDocument, error)
	FindBySubmission(ctx context.Context, submissionID string) ([]models.FileDocument, error)
	// Open returns the stored bytes for the document's blob key.
	Open(ctx context.Context, blobKey string) ([]byte, error)
	// Delete removes both the metadata document and the blob.
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
