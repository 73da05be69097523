package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	appcontext "github.com/alphabatem/common/context"
	"github.com/peerlaunch/launchpad_api/dto"
	"github.com/peerlaunch/launchpad_api/model"
	"github.com/peerlaunch/launchpad_api/services/repositories"
	"github.com/peerlaunch/launchpad_api/shared"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const MaxImageSize = 5 * 1024 * 1024

// ObjectStore is the part of MinIOService the media flow needs.
type ObjectStore interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error
	GetFileURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
	DeleteFile(ctx context.Context, objectName string) error
	GetBucketName() string
}

type MediaService struct {
	appcontext.DefaultService
	store   ObjectStore
	media   *repositories.MediaRepository
	baseURL string
}

const MEDIA_SVC = "media_svc"

func (svc MediaService) Id() string {
	return MEDIA_SVC
}

func (svc *MediaService) Configure(ctx *appcontext.Context) error {
	svc.baseURL = os.Getenv("BASE_URL")
	if svc.baseURL == "" {
		svc.baseURL = "http://localhost:8000"
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *MediaService) Start() error {
	minioSvc := svc.Service(MINIO_SVC).(*MinIOService)
	db := svc.Service(DATABASE_SVC).(*DatabaseService).Db()
	svc.init(db, minioSvc)
	return nil
}

func (svc *MediaService) init(db *gorm.DB, store ObjectStore) {
	svc.media = repositories.NewMediaRepository(db)
	svc.store = store
}

// UploadImage stores an already-read image and records it against the uploader.
func (svc *MediaService) UploadImage(ctx context.Context, userID, filename string, data []byte) (*dto.MediaUploadResponse, error) {
	if len(data) == 0 {
		return nil, shared.NewBadRequestError(nil, "No file uploaded")
	}
	if len(data) > MaxImageSize {
		return nil, shared.NewBadRequestError(nil, "Image file too large. Maximum size: 5MB")
	}
	if !isValidImageFile(filename) {
		return nil, shared.NewBadRequestError(nil, "Invalid image file format. Supported: JPG, PNG, WEBP, GIF")
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, shared.NewBadRequestError(nil, "Uploaded file is not an image")
	}

	objectName := fmt.Sprintf("images/%s/%d%s", userID, time.Now().UnixNano(), strings.ToLower(filepath.Ext(filename)))

	if err := svc.store.UploadFile(ctx, objectName, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return nil, shared.NewInternalError(err, "Failed to upload file to storage")
	}

	fileURL, err := svc.store.GetFileURL(ctx, objectName, 7*24*time.Hour)
	if err != nil {
		log.Warn().Err(err).Str("object", objectName).Msg("Failed to generate presigned URL")
		fileURL = fmt.Sprintf("%s/%s/%s", svc.baseURL, svc.store.GetBucketName(), objectName)
	}

	asset := &model.MediaAsset{
		UserID:      userID,
		ObjectName:  objectName,
		URL:         fileURL,
		ContentType: contentType,
		Size:        int64(len(data)),
	}
	if err := svc.media.CreateMediaAsset(ctx, asset); err != nil {
		if delErr := svc.store.DeleteFile(ctx, objectName); delErr != nil {
			log.Warn().Err(delErr).Str("object", objectName).Msg("Failed to clean up orphaned upload")
		}
		return nil, HandleError(err, "")
	}

	log.Info().Str("user_id", userID).Str("object", objectName).Msg("Uploaded image")

	return &dto.MediaUploadResponse{
		ID:          asset.ID,
		URL:         asset.URL,
		ObjectName:  asset.ObjectName,
		ContentType: asset.ContentType,
		Size:        asset.Size,
	}, nil
}

func isValidImageFile(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".png", ".webp", ".gif":
		return true
	}
	return false
}
