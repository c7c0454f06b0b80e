package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"google.golang.org/api/googleapi"

	"github.com/google/uuid"

	"github.com/shikhonhub/shikhon-backend/internal/clients/gcp"
	types "github.com/shikhonhub/shikhon-backend/internal/domain"
	"github.com/shikhonhub/shikhon-backend/internal/pkg/logger"
	"github.com/shikhonhub/shikhon-backend/internal/requestdata"
	"github.com/shikhonhub/shikhon-backend/internal/utils"
)

// Upload failure taxonomy. Handlers map these to stable API error codes;
// nothing is persisted about a file whose upload failed.
var (
	ErrUploadUnauthenticated = errors.New("upload rejected: not authenticated against the storage backend")
	ErrBucketNotFound        = errors.New("upload rejected: storage bucket does not exist")
	ErrQuotaExceeded         = errors.New("upload rejected: storage quota exceeded")
	ErrInvalidFormat         = errors.New("upload rejected: file format not allowed")
	ErrUploadUnknown         = errors.New("upload failed")
)

var allowedUploadExts = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".webp": {}, ".gif": {},
	".pdf": {}, ".doc": {}, ".docx": {}, ".xls": {}, ".xlsx": {},
	".ppt": {}, ".pptx": {}, ".txt": {}, ".zip": {}, ".mp4": {},
}

const maxUploadBytes = 50 << 20

type FileService interface {
	Upload(ctx context.Context, filename, mimeType string, size int64, r io.Reader) (*types.Attachment, error)
	Delete(ctx context.Context, key string) error
}

type fileService struct {
	log    *logger.Logger
	bucket gcp.BucketService
}

func NewFileService(log *logger.Logger, bucket gcp.BucketService) FileService {
	serviceLog := log.With("service", "FileService")
	return &fileService{log: serviceLog, bucket: bucket}
}

func (fs *fileService) Upload(ctx context.Context, filename, mimeType string, size int64, r io.Reader) (*types.Attachment, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, ErrUploadUnauthenticated
	}
	if fs.bucket == nil {
		return nil, fmt.Errorf("%w: storage not configured", ErrUploadUnknown)
	}

	ext := strings.ToLower(path.Ext(filename))
	if _, ok := allowedUploadExts[ext]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, ext)
	}
	if size > maxUploadBytes {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", ErrQuotaExceeded, int64(maxUploadBytes))
	}

	key := fmt.Sprintf("uploads/%s/%d%s", rd.UserID.String(), time.Now().UnixNano(), ext)
	if err := fs.bucket.UploadFile(ctx, gcp.BucketCategoryUpload, key, r); err != nil {
		return nil, fs.classify(err)
	}

	att := &types.Attachment{
		Name: filename,
		URL:  fs.bucket.GetPublicURL(gcp.BucketCategoryUpload, key),
		Size: size,
		Type: mimeType,
	}
	fs.log.Info("file uploaded",
		"user_id", rd.UserID, "key", key,
		"size", utils.FormatFileSize(size), "type", mimeType)
	return att, nil
}

func (fs *fileService) Delete(ctx context.Context, key string) error {
	if fs.bucket == nil {
		return fmt.Errorf("%w: storage not configured", ErrUploadUnknown)
	}
	if err := fs.bucket.DeleteFile(ctx, gcp.BucketCategoryUpload, key); err != nil {
		return fs.classify(err)
	}
	return nil
}

func (fs *fileService) classify(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %v", ErrUploadUnauthenticated, err)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %v", ErrBucketNotFound, err)
		case http.StatusTooManyRequests, http.StatusInsufficientStorage:
			return fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
		}
	}
	fs.log.Warn("unclassified storage failure", "error", err)
	return fmt.Errorf("%w: %v", ErrUploadUnknown, err)
}
