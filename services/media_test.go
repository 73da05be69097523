package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type fakeObjectStore struct {
	objects   map[string][]byte
	deleted   []string
	uploadErr error
	urlErr    error
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: map[string][]byte{}}
}

func (f *fakeObjectStore) UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	f.objects[objectName] = data
	return nil
}

func (f *fakeObjectStore) GetFileURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	if f.urlErr != nil {
		return "", f.urlErr
	}
	return "https://cdn.example.com/" + objectName + "?signed=1", nil
}

func (f *fakeObjectStore) DeleteFile(ctx context.Context, objectName string) error {
	f.deleted = append(f.deleted, objectName)
	delete(f.objects, objectName)
	return nil
}

func (f *fakeObjectStore) GetBucketName() string {
	return "uploads"
}

func TestUploadImageStoresAndRecords(t *testing.T) {
	db := newTestDB(t)
	store := newFakeObjectStore()
	svc := &MediaService{baseURL: "http://localhost:8000"}
	svc.init(db, store)

	resp, err := svc.UploadImage(context.Background(), "user-1", "Logo.PNG", pngHeader)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(resp.ObjectName, "images/user-1/") || !strings.HasSuffix(resp.ObjectName, ".png") {
		t.Errorf("object name = %q", resp.ObjectName)
	}
	if resp.ContentType != "image/png" {
		t.Errorf("content type = %q, want image/png", resp.ContentType)
	}
	if _, ok := store.objects[resp.ObjectName]; !ok {
		t.Error("object was not uploaded")
	}

	asset, err := svc.media.GetMediaAsset(context.Background(), resp.ID)
	if err != nil {
		t.Fatalf("asset not recorded: %v", err)
	}
	if asset.URL != resp.URL {
		t.Errorf("recorded url = %q, want %q", asset.URL, resp.URL)
	}
}

func TestUploadImageFallsBackToPublicURL(t *testing.T) {
	store := newFakeObjectStore()
	store.urlErr = errors.New("presign failed")
	svc := &MediaService{baseURL: "http://localhost:8000"}
	svc.init(newTestDB(t), store)

	resp, err := svc.UploadImage(context.Background(), "user-1", "a.png", pngHeader)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if want := "http://localhost:8000/uploads/" + resp.ObjectName; resp.URL != want {
		t.Errorf("url = %q, want %q", resp.URL, want)
	}
}

func TestUploadImageRejectsBadInput(t *testing.T) {
	svc := &MediaService{}
	svc.init(newTestDB(t), newFakeObjectStore())
	ctx := context.Background()

	tests := []struct {
		name     string
		filename string
		data     []byte
	}{
		{"empty", "a.png", nil},
		{"extension", "a.exe", pngHeader},
		{"not an image", "a.png", []byte("plain text pretending to be a png")},
		{"too large", "a.png", make([]byte, MaxImageSize+1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UploadImage(ctx, "user-1", tt.filename, tt.data)
			assertStatus(t, err, http.StatusBadRequest)
		})
	}
}

func TestUploadImageStorageFailure(t *testing.T) {
	store := newFakeObjectStore()
	store.uploadErr = errors.New("bucket unavailable")
	svc := &MediaService{}
	svc.init(newTestDB(t), store)

	_, err := svc.UploadImage(context.Background(), "user-1", "a.png", pngHeader)
	assertStatus(t, err, http.StatusInternalServerError)
}

func TestUploadImageRemovesObjectWhenRecordFails(t *testing.T) {
	db := newTestDB(t)
	store := newFakeObjectStore()
	svc := &MediaService{}
	svc.init(db, store)

	if err := db.Exec("DROP TABLE media_assets").Error; err != nil {
		t.Fatalf("drop table: %v", err)
	}

	if _, err := svc.UploadImage(context.Background(), "user-1", "a.png", pngHeader); err == nil {
		t.Fatal("expected an error when the asset cannot be recorded")
	}
	if len(store.deleted) != 1 {
		t.Fatalf("deleted %v, want the orphaned object removed", store.deleted)
	}
	if len(store.objects) != 0 {
		t.Errorf("objects left behind: %v", store.objects)
	}
}
