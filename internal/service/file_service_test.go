package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parisxmas/formbox/internal/models"
	"github.com/parisxmas/formbox/internal/repository"
)

func fileFixture(t *testing.T, settings models.FormSettings) (*FileService, *models.Form) {
	t.Helper()
	store := repository.NewMemoryStore()
	forms := NewFormService(store, store.Submissions())

	form, err := forms.Create(context.Background(), CreateFormInput{
		Title:    "Uploads",
		Settings: &settings,
	})
	require.NoError(t, err)
	return NewFileService(store.Files(), store), form
}

func TestUploadDisabled(t *testing.T) {
	svc, form := fileFixture(t, models.FormSettings{AllowFileUploads: false})

	_, err := svc.Upload(context.Background(), UploadInput{
		FormID:   form.ID,
		FileName: "cv.pdf",
		Data:     []byte("x"),
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestUploadRejectsOversize(t *testing.T) {
	svc, form := fileFixture(t, models.FormSettings{
		AllowFileUploads: true,
		MaxFileSize:      1,
		AllowedFileTypes: []string{".pdf"},
	})

	_, err := svc.Upload(context.Background(), UploadInput{
		FormID:   form.ID,
		FileName: "big.pdf",
		Data:     make([]byte, 1<<20+1),
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestUploadRejectsDisallowedType(t *testing.T) {
	svc, form := fileFixture(t, models.FormSettings{
		AllowFileUploads: true,
		MaxFileSize:      10,
		AllowedFileTypes: []string{".jpg", ".png"},
	})

	_, err := svc.Upload(context.Background(), UploadInput{
		FormID:   form.ID,
		FileName: "script.exe",
		Data:     []byte("x"),
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestUploadDownloadDelete(t *testing.T) {
	svc, form := fileFixture(t, models.FormSettings{
		AllowFileUploads: true,
		MaxFileSize:      10,
		AllowedFileTypes: []string{".png"},
	})
	ctx := context.Background()

	doc, err := svc.Upload(ctx, UploadInput{
		FormID:       form.ID,
		SubmissionID: "sub-1",
		FileName:     "Photo.PNG",
		ContentType:  "image/png",
		Data:         []byte("pixels"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, doc.ID)
	assert.EqualValues(t, 6, doc.Size)

	got, data, err := svc.Download(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Photo.PNG", got.FileName)
	assert.Equal(t, []byte("pixels"), data)

	listed, err := svc.ListBySubmission(ctx, "sub-1")
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	require.NoError(t, svc.Delete(ctx, doc.ID))
	assert.ErrorIs(t, svc.Delete(ctx, doc.ID), ErrFileNotFound)

	_, _, err = svc.Download(ctx, doc.ID)
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestUploadUnknownForm(t *testing.T) {
	svc, _ := fileFixture(t, models.FormSettings{AllowFileUploads: true})

	_, err := svc.Upload(context.Background(), UploadInput{FormID: "nope", FileName: "a.png"})
	assert.ErrorIs(t, err, ErrFormNotFound)
}
