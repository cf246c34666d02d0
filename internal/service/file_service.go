package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/parisxmas/formbox/internal/models"
	"github.com/parisxmas/formbox/internal/repository"
)

// FileService stores submission attachments and enforces the per-form
// upload policy from Form.Settings.
type FileService struct {
	files repository.FileStore
	forms repository.FormStore
}

func NewFileService(files repository.FileStore, forms repository.FormStore) *FileService {
	return &FileService{files: files, forms: forms}
}

type UploadInput struct {
	FormID       string
	SubmissionID string
	FileName     string
	ContentType  string
	Data         []byte
	UploadedBy   string
}

// Upload validates the attachment against the form's settings and writes
// the blob plus its metadata document.
func (s *FileService) Upload(ctx context.Context, in UploadInput) (*models.FileDocument, error) {
	form, err := s.forms.FindByID(ctx, in.FormID)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, ErrFormNotFound
	}

	settings := form.Settings
	if !settings.AllowFileUploads {
		return nil, invalid("File uploads are not allowed for this form")
	}
	maxBytes := settings.MaxFileSize * 1024 * 1024
	if maxBytes > 0 && len(in.Data) > maxBytes {
		return nil, invalid(fmt.Sprintf("File exceeds the maximum size of %d MB", settings.MaxFileSize))
	}
	if len(settings.AllowedFileTypes) > 0 && !allowedExt(in.FileName, settings.AllowedFileTypes) {
		return nil, invalid(fmt.Sprintf("File type %s is not allowed", filepath.Ext(in.FileName)))
	}

	doc := &models.FileDocument{
		FileName:     in.FileName,
		ContentType:  in.ContentType,
		Size:         int64(len(in.Data)),
		FormID:       in.FormID,
		SubmissionID: in.SubmissionID,
		UploadedBy:   in.UploadedBy,
	}
	if err := s.files.Save(ctx, doc, in.Data); err != nil {
		return nil, fmt.Errorf("save file: %w", err)
	}
	return doc, nil
}

// Download returns the metadata document together with the stored bytes.
func (s *FileService) Download(ctx context.Context, id string) (*models.FileDocument, []byte, error) {
	doc, err := s.files.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if doc == nil {
		return nil, nil, ErrFileNotFound
	}
	data, err := s.files.Open(ctx, doc.BlobKey)
	if err != nil {
		return nil, nil, fmt.Errorf("open file blob: %w", err)
	}
	return doc, data, nil
}

func (s *FileService) Delete(ctx context.Context, id string) error {
	doc, err := s.files.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if doc == nil {
		return ErrFileNotFound
	}
	return s.files.Delete(ctx, id)
}

func (s *FileService) ListBySubmission(ctx context.Context, submissionID string) ([]models.FileDocument, error) {
	return s.files.FindBySubmission(ctx, submissionID)
}

func allowedExt(name string, allowed []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, a := range allowed {
		if strings.ToLower(a) == ext {
			return true
		}
	}
	return false
}
