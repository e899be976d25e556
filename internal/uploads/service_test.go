package uploads

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/fabrikline/wholesale-backend/pkg/db/models"
	pkgerrors "github.com/fabrikline/wholesale-backend/pkg/errors"
)

// pngHeader is a minimal valid PNG signature plus IHDR prefix, enough for
// content type detection.
var pngHeader = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
	0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
}

type stubStore struct {
	objects map[string][]byte
	types   map[string]string
	putErr  error
	deleted []string
}

func newStubStore() *stubStore {
	return &stubStore{
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

func (s *stubStore) PutObject(_ context.Context, objectPath, contentType string, body io.Reader) error {
	if s.putErr != nil {
		return s.putErr
	}
	buf := &bytes.Buffer{}
	if _, err := buf.ReadFrom(body); err != nil {
		return err
	}
	s.objects[objectPath] = buf.Bytes()
	s.types[objectPath] = contentType
	return nil
}

func (s *stubStore) DeleteObject(_ context.Context, objectPath string) error {
	delete(s.objects, objectPath)
	s.deleted = append(s.deleted, objectPath)
	return nil
}

func (s *stubStore) ObjectURL(objectPath string) string {
	return "https://cdn.example.test/" + objectPath
}

type stubUploadRepo struct {
	created   []*models.Upload
	createErr error
}

func (r *stubUploadRepo) Create(_ context.Context, upload *models.Upload) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, upload)
	return nil
}

func assertErrorCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	coded := pkgerrors.As(err)
	if coded == nil {
		t.Fatalf("expected coded error, got %v", err)
	}
	if coded.Code() != code {
		t.Fatalf("expected code %s, got %s", code, coded.Code())
	}
}

func TestUploadStoresPNGAndRecordsIt(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	repo := &stubUploadRepo{}
	svc, err := NewService(repo, store, nil, 1)
	if err != nil {
		t.Fatal(err)
	}

	userID := uuid.New()
	result, err := svc.Upload(context.Background(), userID, Input{
		FileName: "swatch.png",
		Body:     bytes.NewReader(pngHeader),
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.ContentType != "image/png" {
		t.Fatalf("expected image/png, got %s", result.ContentType)
	}
	if result.SizeBytes != int64(len(pngHeader)) {
		t.Fatalf("expected size %d, got %d", len(pngHeader), result.SizeBytes)
	}
	if !strings.HasPrefix(result.URL, "https://cdn.example.test/uploads/"+userID.String()+"/") {
		t.Fatalf("unexpected URL %s", result.URL)
	}
	if !strings.HasSuffix(result.URL, ".png") {
		t.Fatalf("expected object path to keep the extension, got %s", result.URL)
	}

	if len(repo.created) != 1 {
		t.Fatalf("expected one persisted record, got %d", len(repo.created))
	}
	record := repo.created[0]
	if record.FileName != "swatch.png" || record.UserID != userID {
		t.Fatalf("unexpected record %+v", record)
	}
	if _, ok := store.objects[record.BucketPath]; !ok {
		t.Fatalf("object %s not stored", record.BucketPath)
	}
}

func TestUploadRejectsUnknownContentType(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubUploadRepo{}, newStubStore(), nil, 1)
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.Upload(context.Background(), uuid.New(), Input{
		FileName: "tool.exe",
		Body:     bytes.NewReader([]byte{0x4D, 0x5A, 0x90, 0x00, 0x03, 0x00}),
	})
	assertErrorCode(t, err, pkgerrors.CodeValidation)
}

func TestUploadRejectsOversizeFile(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubUploadRepo{}, newStubStore(), nil, 1)
	if err != nil {
		t.Fatal(err)
	}

	big := append(append([]byte{}, pngHeader...), make([]byte, 2*1024*1024)...)
	_, err = svc.Upload(context.Background(), uuid.New(), Input{
		FileName: "huge.png",
		Body:     bytes.NewReader(big),
	})
	assertErrorCode(t, err, pkgerrors.CodeValidation)
}

func TestUploadRejectsEmptyFileAndMissingName(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubUploadRepo{}, newStubStore(), nil, 1)
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.Upload(context.Background(), uuid.New(), Input{FileName: "empty.png", Body: bytes.NewReader(nil)})
	assertErrorCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Upload(context.Background(), uuid.New(), Input{FileName: "   ", Body: bytes.NewReader(pngHeader)})
	assertErrorCode(t, err, pkgerrors.CodeValidation)
}

func TestUploadStoreFailureIsDependencyError(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	store.putErr = errors.New("bucket unavailable")
	svc, err := NewService(&stubUploadRepo{}, store, nil, 1)
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.Upload(context.Background(), uuid.New(), Input{
		FileName: "swatch.png",
		Body:     bytes.NewReader(pngHeader),
	})
	assertErrorCode(t, err, pkgerrors.CodeDependency)
}

func TestUploadRepositoryFailureRemovesObject(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	repo := &stubUploadRepo{createErr: errors.New("insert failed")}
	svc, err := NewService(repo, store, nil, 1)
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.Upload(context.Background(), uuid.New(), Input{
		FileName: "swatch.png",
		Body:     bytes.NewReader(pngHeader),
	})
	assertErrorCode(t, err, pkgerrors.CodeInternal)
	if len(store.deleted) != 1 {
		t.Fatalf("expected orphaned object cleanup, got deletions %v", store.deleted)
	}
	if len(store.objects) != 0 {
		t.Fatal("expected no objects left in store")
	}
}
