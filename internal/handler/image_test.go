package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/trailbook/trailbook/internal/service"
	"github.com/trailbook/trailbook/internal/storage"
)

const testBaseURL = "http://localhost:8000"

func newImageTestHandler(t *testing.T) (*ImageHandler, *storage.Storage) {
	t.Helper()

	store, err := storage.New(t.TempDir())
	if err != nil {
		t.Fatalf("storage.New failed: %v", err)
	}

	svc := service.NewJournalService(nil, store, testBaseURL, testLogger())
	return NewImageHandler(svc, 10<<20, testLogger()), store
}

func multipartUpload(t *testing.T, field, filename, content string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("CreateFormFile failed: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("writing form file: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/image-upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestImageHandler_Upload(t *testing.T) {
	t.Parallel()

	h, store := newImageTestHandler(t)

	req := multipartUpload(t, "image", "sunset.jpg", "jpeg-bytes")
	rec := httptest.NewRecorder()

	h.Upload(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Error    bool   `json:"error"`
		ImageURL string `json:"imageURL"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Error {
		t.Error("expected success envelope")
	}
	if !strings.HasPrefix(body.ImageURL, testBaseURL+"/uploads/") {
		t.Fatalf("unexpected imageURL: %q", body.ImageURL)
	}

	// The file behind the returned URL must exist on disk.
	name, err := storage.FilenameFromURL(body.ImageURL)
	if err != nil {
		t.Fatalf("FilenameFromURL failed: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(store.Dir(), name))
	if err != nil {
		t.Fatalf("reading stored file: %v", err)
	}
	if string(data) != "jpeg-bytes" {
		t.Errorf("unexpected stored content: %q", data)
	}
}

func TestImageHandler_Upload_NoFile(t *testing.T) {
	t.Parallel()

	h, _ := newImageTestHandler(t)

	// Wrong field name: handler accepts exactly one file under "image".
	req := multipartUpload(t, "photo", "sunset.jpg", "jpeg-bytes")
	rec := httptest.NewRecorder()

	h.Upload(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	isErr, msg := decodeEnvelope(t, rec)
	if !isErr || msg != "No image uploaded" {
		t.Errorf("unexpected envelope (%v, %q)", isErr, msg)
	}
}

func TestImageHandler_Delete(t *testing.T) {
	t.Parallel()

	h, store := newImageTestHandler(t)

	name, err := store.Save(strings.NewReader("x"), "pic.jpg")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	imageURL := testBaseURL + "/uploads/" + name

	req := httptest.NewRequest(http.MethodDelete, "/delete-image?imageURL="+url.QueryEscape(imageURL), nil)
	rec := httptest.NewRecorder()

	h.Delete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	isErr, msg := decodeEnvelope(t, rec)
	if isErr || msg != "Image deleted successfully" {
		t.Errorf("unexpected envelope (%v, %q)", isErr, msg)
	}

	// Deleting again is idempotent and reports the file as gone.
	req = httptest.NewRequest(http.MethodDelete, "/delete-image?imageURL="+url.QueryEscape(imageURL), nil)
	rec = httptest.NewRecorder()

	h.Delete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on repeat delete, got %d", rec.Code)
	}
	isErr, msg = decodeEnvelope(t, rec)
	if isErr || msg != "Image not found" {
		t.Errorf("unexpected envelope (%v, %q)", isErr, msg)
	}
}

func TestImageHandler_Delete_MissingParam(t *testing.T) {
	t.Parallel()

	h, _ := newImageTestHandler(t)

	req := httptest.NewRequest(http.MethodDelete, "/delete-image", nil)
	rec := httptest.NewRecorder()

	h.Delete(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	isErr, msg := decodeEnvelope(t, rec)
	if !isErr || msg != "imageURL parameter is required" {
		t.Errorf("unexpected envelope (%v, %q)", isErr, msg)
	}
}
