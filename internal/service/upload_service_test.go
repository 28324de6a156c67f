package service_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"solarhub/internal/config"
	"solarhub/internal/domain"
	"solarhub/internal/port"
	"solarhub/internal/service"
	"solarhub/mocks"
)

var (
	pdfBytes = []byte("%PDF-1.7\n1 0 obj\n<< /Type /Catalog >>\nendobj\n")
	pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	csvBytes = []byte("month,kwh\njan,1500\nfeb,1420\n")
)

func uploadFile(name string, data []byte) service.UploadFile {
	return service.UploadFile{
		Filename: name,
		Size:     int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

func setupUploadService() (service.UploadService, *mocks.MockObjectStorage, *service.UploadTracker) {
	storage := new(mocks.MockObjectStorage)
	tracker := service.NewUploadTracker()
	svc := service.NewUploadService(storage, tracker, config.S3Config{Bucket: "solarhub-files", PresignExpiry: 900}, config.UploadConfig{MaxFileSizeMB: 1, MaxFiles: 5}, zap.NewNop())
	return svc, storage, tracker
}

func TestUploadService_UploadFiles_Success(t *testing.T) {
	svc, storage, tracker := setupUploadService()
	owner := uuid.New()

	storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Bucket == "solarhub-files" &&
			strings.HasPrefix(in.Key, "applications/"+owner.String()+"/sess-9/bills/")
	})).Return(&port.UploadOutput{Location: "https://s3/bill.pdf"}, nil).Once()
	storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		body, _ := io.ReadAll(in.Body)
		return strings.Contains(in.Key, "/load_data/") && in.ContentType == "text/csv" && bytes.Equal(body, csvBytes)
	})).Return(&port.UploadOutput{Location: "https://s3/load.csv"}, nil).Once()

	res, err := svc.UploadFiles(context.Background(), service.UploadInput{
		OwnerID:   owner,
		SessionID: "sess-9",
		Files: map[domain.FileCategory][]service.UploadFile{
			domain.FileCategoryBills:    {uploadFile("March bill.pdf", pdfBytes)},
			domain.FileCategoryLoadData: {uploadFile("load.csv", csvBytes)},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "sess-9", res.SessionID)
	require.Len(t, res.Files.Bills, 1)
	assert.Equal(t, "March bill.pdf", res.Files.Bills[0].Name)
	assert.Contains(t, res.Files.Bills[0].Path, "March_bill.pdf")
	assert.Equal(t, "application/pdf", res.Files.Bills[0].ContentType)
	require.Len(t, res.Files.LoadData, 1)
	assert.Empty(t, res.Files.Photos)
	assert.Nil(t, res.Failed)
	assert.False(t, tracker.Pending("sess-9"))
	storage.AssertExpectations(t)
}

func TestUploadService_UploadFiles_CategoriesFailIndependently(t *testing.T) {
	svc, storage, _ := setupUploadService()

	storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return strings.Contains(in.Key, "/photos/")
	})).Return(nil, domain.ErrTransientIO)
	storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return strings.Contains(in.Key, "/bills/")
	})).Return(&port.UploadOutput{Location: "https://s3/bill.pdf"}, nil)

	res, err := svc.UploadFiles(context.Background(), service.UploadInput{
		OwnerID: uuid.New(),
		Files: map[domain.FileCategory][]service.UploadFile{
			domain.FileCategoryBills:  {uploadFile("bill.pdf", pdfBytes)},
			domain.FileCategoryPhotos: {uploadFile("roof.png", pngBytes)},
		},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	assert.ErrorIs(t, err, domain.ErrTransientIO)
	assert.NotEmpty(t, res.SessionID)
	assert.Len(t, res.Files.Bills, 1)
	assert.Empty(t, res.Files.Photos)
	assert.Contains(t, res.Failed, domain.FileCategoryPhotos)
	assert.NotContains(t, res.Failed, domain.FileCategoryBills)
}

func TestUploadService_UploadFiles_RejectsBeforeUploading(t *testing.T) {
	big := service.UploadFile{Filename: "huge.pdf", Size: 2 * 1024 * 1024}
	tests := []struct {
		name  string
		files map[domain.FileCategory][]service.UploadFile
		want  error
	}{
		{"unsupported extension", map[domain.FileCategory][]service.UploadFile{
			domain.FileCategoryBills: {uploadFile("bill.exe", pdfBytes)},
		}, domain.ErrUnsupportedFileType},
		{"too large", map[domain.FileCategory][]service.UploadFile{
			domain.FileCategoryBills: {big},
		}, domain.ErrFileTooLarge},
		{"unknown category", map[domain.FileCategory][]service.UploadFile{
			"contracts": {uploadFile("c.pdf", pdfBytes)},
		}, domain.ErrValidation},
		{"no files", nil, domain.ErrValidation},
		{"too many files", map[domain.FileCategory][]service.UploadFile{
			domain.FileCategoryPhotos: {
				uploadFile("1.png", pngBytes), uploadFile("2.png", pngBytes), uploadFile("3.png", pngBytes),
				uploadFile("4.png", pngBytes), uploadFile("5.png", pngBytes), uploadFile("6.png", pngBytes),
			},
		}, domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, storage, _ := setupUploadService()
			_, err := svc.UploadFiles(context.Background(), service.UploadInput{OwnerID: uuid.New(), Files: tt.files})
			assert.ErrorIs(t, err, tt.want)
			storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
		})
	}
}

func TestUploadService_UploadFiles_ContentMismatch(t *testing.T) {
	svc, storage, _ := setupUploadService()

	res, err := svc.UploadFiles(context.Background(), service.UploadInput{
		OwnerID: uuid.New(),
		Files: map[domain.FileCategory][]service.UploadFile{
			domain.FileCategoryPhotos: {uploadFile("roof.png", []byte("plain text pretending to be an image"))},
		},
	})

	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
	assert.Contains(t, res.Failed, domain.FileCategoryPhotos)
	storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestUploadService_UploadFiles_OpenError(t *testing.T) {
	svc, _, _ := setupUploadService()
	f := service.UploadFile{
		Filename: "bill.pdf",
		Size:     10,
		Open:     func() (io.ReadCloser, error) { return nil, errors.New("multipart gone") },
	}

	_, err := svc.UploadFiles(context.Background(), service.UploadInput{
		OwnerID: uuid.New(),
		Files:   map[domain.FileCategory][]service.UploadFile{domain.FileCategoryBills: {f}},
	})
	assert.ErrorContains(t, err, "multipart gone")
}

func TestUploadService_MarksSessionPendingWhileUploading(t *testing.T) {
	svc, storage, tracker := setupUploadService()

	var pendingDuringUpload bool
	storage.On("Upload", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { pendingDuringUpload = tracker.Pending("sess-1") }).
		Return(&port.UploadOutput{Location: "u"}, nil)

	_, err := svc.UploadFiles(context.Background(), service.UploadInput{
		OwnerID:   uuid.New(),
		SessionID: "sess-1",
		Files:     map[domain.FileCategory][]service.UploadFile{domain.FileCategoryBills: {uploadFile("b.pdf", pdfBytes)}},
	})

	require.NoError(t, err)
	assert.True(t, pendingDuringUpload)
	assert.False(t, tracker.Pending("sess-1"))
}

func TestUploadTracker(t *testing.T) {
	tr := service.NewUploadTracker()
	assert.False(t, tr.Pending("a"))

	done1 := tr.Begin("a")
	done2 := tr.Begin("a")
	assert.True(t, tr.Pending("a"))

	done1()
	done1()
	assert.True(t, tr.Pending("a"))

	done2()
	assert.False(t, tr.Pending("a"))

	tr.Begin("")()
	assert.False(t, tr.Pending(""))
}

func TestUploadService_DeleteFiles_BestEffort(t *testing.T) {
	svc, storage, _ := setupUploadService()
	files := domain.ApplicationFiles{
		Bills:    []domain.FileRef{{Name: "jan.pdf", Path: "applications/o/s/bills/jan.pdf"}},
		Photos:   []domain.FileRef{{Name: "legacy.png"}},
		LoadData: []domain.FileRef{{Name: "load.csv", Path: "applications/o/s/load_data/load.csv"}},
	}
	storage.On("Delete", mock.Anything, "solarhub-files", "applications/o/s/bills/jan.pdf").
		Return(errors.New("s3 delete: access denied")).Once()
	storage.On("Delete", mock.Anything, "solarhub-files", "applications/o/s/load_data/load.csv").
		Return(nil).Once()

	svc.DeleteFiles(context.Background(), files)

	storage.AssertExpectations(t)
	storage.AssertNumberOfCalls(t, "Delete", 2)
}

func TestUploadService_SignFiles(t *testing.T) {
	svc, storage, _ := setupUploadService()
	files := domain.ApplicationFiles{
		Bills: []domain.FileRef{
			{Name: "jan.pdf", URL: "https://s3/jan.pdf", Path: "k/jan.pdf"},
			{Name: "feb.pdf", URL: "https://s3/feb.pdf", Path: "k/feb.pdf"},
		},
		Photos: []domain.FileRef{},
	}
	storage.On("GetPresignedURL", mock.Anything, "solarhub-files", "k/jan.pdf", int64(900)).
		Return("https://s3/jan.pdf?sig=1", nil)
	storage.On("GetPresignedURL", mock.Anything, "solarhub-files", "k/feb.pdf", int64(900)).
		Return("", errors.New("presign failed"))

	got := svc.SignFiles(context.Background(), files)

	require.Len(t, got.Bills, 2)
	assert.Equal(t, "https://s3/jan.pdf?sig=1", got.Bills[0].URL)
	assert.Equal(t, "https://s3/feb.pdf", got.Bills[1].URL, "unsigned refs keep the stored URL")
	assert.NotNil(t, got.Photos)
	assert.Empty(t, got.Photos)
	assert.Nil(t, got.LoadData)
	// the stored record is not modified
	assert.Equal(t, "https://s3/jan.pdf", files.Bills[0].URL)
}
