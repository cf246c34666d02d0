package models

import "time"

// FileDocument describes an uploaded file attached to a submission. The
// bytes themselves live in blob storage under BlobKey.
type FileDocument struct {
	ID           string    `bson:"id" json:"id"`
	FileName     string    `bson:"fileName" json:"fileName"`
	ContentType  string    `bson:"contentType" json:"contentType"`
	Size         int64     `bson:"size" json:"size"`
	BlobKey      string    `bson:"blobKey" json:"blobKey"`
	FormID       string    `bson:"formId,omitempty" json:"formId,omitempty"`
	SubmissionID string    `bson:"submissionId,omitempty" json:"submissionId,omitempty"`
	UploadedBy   string    `bson:"uploadedBy,omitempty" json:"uploadedBy,omitempty"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}
