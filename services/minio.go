package services

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	appcontext "github.com/alphabatem/common/context"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"
)

// uploadCacheControl applies to every stored image. Object names embed a
// timestamp, so the bytes behind a name never change.
const uploadCacheControl = "public, max-age=31536000, immutable"

// MinIOService stores user uploads in a single bucket.
type MinIOService struct {
	appcontext.DefaultService
	client *minio.Client

	endpoint   string
	accessKey  string
	secretKey  string
	region     string
	bucketName string
	useSSL     bool
}

const MINIO_SVC = "minio_svc"

func (svc MinIOService) Id() string {
	return MINIO_SVC
}

func (svc *MinIOService) Configure(ctx *appcontext.Context) error {
	svc.endpoint = envOr("MINIO_ENDPOINT", "localhost:9000")
	svc.accessKey = envOr("MINIO_ACCESS_KEY", "admin")
	svc.secretKey = envOr("MINIO_SECRET_KEY", "password123")
	svc.region = os.Getenv("MINIO_REGION")
	svc.bucketName = envOr("MINIO_BUCKET_NAME", "launchpad-media")
	svc.useSSL = os.Getenv("MINIO_USE_SSL") == "true"

	return svc.DefaultService.Configure(ctx)
}

func (svc *MinIOService) Start() error {
	client, err := minio.New(svc.endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(svc.accessKey, svc.secretKey, ""),
		Secure: svc.useSSL,
		Region: svc.region,
	})
	if err != nil {
		return fmt.Errorf("minio client: %w", err)
	}
	svc.client = client

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := svc.ensureBucket(ctx); err != nil {
		return err
	}

	log.WithFields(log.Fields{"endpoint": svc.endpoint, "bucket": svc.bucketName}).Info("Object storage ready")
	return nil
}

func (svc *MinIOService) ensureBucket(ctx context.Context) error {
	exists, err := svc.client.BucketExists(ctx, svc.bucketName)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", svc.bucketName, err)
	}
	if exists {
		return nil
	}

	if err := svc.client.MakeBucket(ctx, svc.bucketName, minio.MakeBucketOptions{Region: svc.region}); err != nil {
		return fmt.Errorf("create bucket %s: %w", svc.bucketName, err)
	}
	log.WithField("bucket", svc.bucketName).Info("Created upload bucket")
	return nil
}

// UploadFile writes an image object. size must be exact; the media flow has
// the whole body in memory already.
func (svc *MinIOService) UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error {
	_, err := svc.client.PutObject(ctx, svc.bucketName, objectName, reader, size, minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: uploadCacheControl,
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", objectName, err)
	}
	return nil
}

// GetFileURL presigns a GET for objectName.
func (svc *MinIOService) GetFileURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	u, err := svc.client.PresignedGetObject(ctx, svc.bucketName, objectName, expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", objectName, err)
	}
	return u.String(), nil
}

func (svc *MinIOService) DeleteFile(ctx context.Context, objectName string) error {
	if err := svc.client.RemoveObject(ctx, svc.bucketName, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove %s: %w", objectName, err)
	}
	return nil
}

func (svc *MinIOService) GetBucketName() string {
	return svc.bucketName
}

// Ping checks the bucket is reachable.
func (svc *MinIOService) Ping(ctx context.Context) error {
	_, err := svc.client.BucketExists(ctx, svc.bucketName)
	return err
}
