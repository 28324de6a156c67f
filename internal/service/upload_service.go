package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"solarhub/internal/config"
	"solarhub/internal/domain"
	"solarhub/internal/metrics"
	"solarhub/internal/port"
)

// UploadFile is one file of an upload request.
type UploadFile struct {
	Filename string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

// UploadInput is the DTO for attachment uploads.
type UploadInput struct {
	OwnerID   uuid.UUID
	SessionID string
	Files     map[domain.FileCategory][]UploadFile
}

// UploadResult holds the references of the files that were stored.
// Failed maps a category to the error that stopped it.
type UploadResult struct {
	SessionID string                         `json:"session_id"`
	Files     domain.ApplicationFiles        `json:"files"`
	Failed    map[domain.FileCategory]string `json:"failed,omitempty"`
}

// AttachmentStore manages the stored objects behind an application's files.
// Both operations are best effort: failures are logged, never returned.
type AttachmentStore interface {
	// DeleteFiles removes the object behind every ref.
	DeleteFiles(ctx context.Context, files domain.ApplicationFiles)
	// SignFiles returns a copy of files whose URLs are time-limited read links.
	// A ref that cannot be signed keeps its stored URL.
	SignFiles(ctx context.Context, files domain.ApplicationFiles) domain.ApplicationFiles
}

// UploadService stores application attachments in the blob store.
type UploadService interface {
	AttachmentStore
	UploadFiles(ctx context.Context, input UploadInput) (*UploadResult, error)
}

type uploadService struct {
	storage       port.ObjectStorage
	tracker       *UploadTracker
	bucket        string
	presignExpiry int64
	upload        config.UploadConfig
	log           *zap.Logger
}

// NewUploadService creates a new UploadService implementation. Objects are
// written to s3cfg.Bucket and signed for s3cfg.PresignExpiry seconds.
func NewUploadService(storage port.ObjectStorage, tracker *UploadTracker, s3cfg config.S3Config, cfg config.UploadConfig, log *zap.Logger) UploadService {
	expiry := s3cfg.PresignExpiry
	if expiry <= 0 {
		expiry = 3600
	}
	return &uploadService{
		storage:       storage,
		tracker:       tracker,
		bucket:        s3cfg.Bucket,
		presignExpiry: expiry,
		upload:        cfg,
		log:           log,
	}
}

// sniffed lists the types whose leading bytes are checked against the extension.
var sniffed = map[domain.FileType]bool{
	domain.FileTypePDF: true,
	domain.FileTypeJPG: true,
	domain.FileTypePNG: true,
}

func (s *uploadService) UploadFiles(ctx context.Context, input UploadInput) (*UploadResult, error) {
	if input.OwnerID == uuid.Nil {
		return nil, domain.NewFieldError("owner_id", "is required")
	}
	if input.SessionID == "" {
		input.SessionID = uuid.NewString()
	}

	total := 0
	for cat, files := range input.Files {
		if !validCategory(cat) {
			return nil, domain.NewFieldError(string(cat), "unknown file category")
		}
		for _, f := range files {
			if _, err := s.fileType(f); err != nil {
				return nil, fmt.Errorf("%s: %w", f.Filename, err)
			}
		}
		total += len(files)
	}
	if total == 0 {
		return nil, domain.NewFieldError("files", "at least one file is required")
	}
	if s.upload.MaxFiles > 0 && total > s.upload.MaxFiles {
		return nil, domain.NewFieldError("files", fmt.Sprintf("at most %d files per upload", s.upload.MaxFiles))
	}

	done := s.tracker.Begin(input.SessionID)
	defer done()

	result := &UploadResult{SessionID: input.SessionID, Failed: map[domain.FileCategory]string{}}
	var mu sync.Mutex
	var errs []error

	// Categories upload concurrently and fail independently, so the group
	// carries no shared cancellation.
	var g errgroup.Group
	for _, cat := range domain.AllFileCategories {
		files := input.Files[cat]
		if len(files) == 0 {
			continue
		}
		g.Go(func() error {
			refs, err := s.uploadCategory(ctx, input.OwnerID, input.SessionID, cat, files)
			mu.Lock()
			defer mu.Unlock()
			result.Files.Append(cat, refs...)
			if err != nil {
				result.Failed[cat] = err.Error()
				errs = append(errs, fmt.Errorf("%s: %w", cat, err))
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(result.Failed) == 0 {
		result.Failed = nil
	}
	return result, errors.Join(errs...)
}

func (s *uploadService) uploadCategory(ctx context.Context, owner uuid.UUID, session string, cat domain.FileCategory, files []UploadFile) ([]domain.FileRef, error) {
	refs := make([]domain.FileRef, 0, len(files))
	for _, f := range files {
		ref, err := s.uploadOne(ctx, owner, session, cat, f)
		if err != nil {
			metrics.Uploads.WithLabelValues(string(cat), "failed").Inc()
			s.log.Error("uploadService.UploadFiles: upload failed",
				zap.String("category", string(cat)),
				zap.String("file", f.Filename),
				zap.Error(err))
			return refs, err
		}
		metrics.Uploads.WithLabelValues(string(cat), "ok").Inc()
		refs = append(refs, *ref)
	}
	return refs, nil
}

func (s *uploadService) uploadOne(ctx context.Context, owner uuid.UUID, session string, cat domain.FileCategory, f UploadFile) (*domain.FileRef, error) {
	fileType, err := s.fileType(f)
	if err != nil {
		return nil, err
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", f.Filename, err)
	}
	defer rc.Close()

	// Read first 512 bytes for magic-byte content type detection
	head := make([]byte, 512)
	n, err := io.ReadFull(rc, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reading %s: %w", f.Filename, err)
	}
	head = head[:n]
	contentType := domain.AllowedFileTypes[fileType]
	if sniffed[fileType] && http.DetectContentType(head) != contentType {
		return nil, domain.ErrUnsupportedFileType
	}

	name := sanitizeFilename(f.Filename)
	key := path.Join("applications", owner.String(), session, string(cat), uuid.NewString()+"-"+name)

	out, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.bucket,
		Key:         key,
		Body:        io.MultiReader(bytes.NewReader(head), rc),
		ContentType: contentType,
		Size:        f.Size,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUploadFailed, err)
	}

	return &domain.FileRef{
		Name:        f.Filename,
		URL:         out.Location,
		Path:        key,
		ContentType: contentType,
		Size:        f.Size,
	}, nil
}

func (s *uploadService) DeleteFiles(ctx context.Context, files domain.ApplicationFiles) {
	for _, cat := range domain.AllFileCategories {
		for _, ref := range files.Category(cat) {
			if ref.Path == "" {
				continue
			}
			if err := s.storage.Delete(ctx, s.bucket, ref.Path); err != nil {
				s.log.Warn("uploadService.DeleteFiles: delete failed",
					zap.String("path", ref.Path),
					zap.Error(err))
			}
		}
	}
}

func (s *uploadService) SignFiles(ctx context.Context, files domain.ApplicationFiles) domain.ApplicationFiles {
	return domain.ApplicationFiles{
		Bills:    s.signRefs(ctx, files.Bills),
		Photos:   s.signRefs(ctx, files.Photos),
		LoadData: s.signRefs(ctx, files.LoadData),
	}
}

func (s *uploadService) signRefs(ctx context.Context, refs []domain.FileRef) []domain.FileRef {
	if refs == nil {
		return nil
	}
	out := make([]domain.FileRef, len(refs))
	copy(out, refs)
	for i := range out {
		if out[i].Path == "" {
			continue
		}
		url, err := s.storage.GetPresignedURL(ctx, s.bucket, out[i].Path, s.presignExpiry)
		if err != nil {
			s.log.Warn("uploadService.SignFiles: presign failed",
				zap.String("path", out[i].Path),
				zap.Error(err))
			continue
		}
		out[i].URL = url
	}
	return out
}

func (s *uploadService) fileType(f UploadFile) (domain.FileType, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(f.Filename), "."))
	fileType, ok := domain.AllowedExtensions[ext]
	if !ok {
		return "", domain.ErrUnsupportedFileType
	}
	if limit := s.upload.MaxFileSizeBytes(); limit > 0 && f.Size > limit {
		return "", domain.ErrFileTooLarge
	}
	return fileType, nil
}

func validCategory(c domain.FileCategory) bool {
	for _, known := range domain.AllFileCategories {
		if c == known {
			return true
		}
	}
	return false
}

func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
