package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) (bool, string) {
	t.Helper()
	var body struct {
		Error   bool   `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return body.Error, body.Message
}

func TestAccountHandler_Register_MissingFields(t *testing.T) {
	t.Parallel()

	// Validation runs before the service is touched.
	h := NewAccountHandler(nil, testLogger())

	bodies := []string{
		`{}`,
		`{"fullName":"A","email":"a@x.com"}`,
		`{"fullName":"A","password":"p"}`,
		`{"email":"a@x.com","password":"p"}`,
		`{"fullName":"","email":"a@x.com","password":"p"}`,
	}

	for _, body := range bodies {
		req := httptest.NewRequest(http.MethodPost, "/create-account", strings.NewReader(body))
		rec := httptest.NewRecorder()

		h.Register(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected 400, got %d", body, rec.Code)
			continue
		}
		isErr, msg := decodeEnvelope(t, rec)
		if !isErr || msg != "All fields required" {
			t.Errorf("body %s: unexpected envelope (%v, %q)", body, isErr, msg)
		}
	}
}

func TestAccountHandler_Register_InvalidJSON(t *testing.T) {
	t.Parallel()

	h := NewAccountHandler(nil, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/create-account", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if isErr, _ := decodeEnvelope(t, rec); !isErr {
		t.Error("expected error envelope")
	}
}

func TestAccountHandler_Login_MissingFields(t *testing.T) {
	t.Parallel()

	h := NewAccountHandler(nil, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"a@x.com"}`))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	isErr, msg := decodeEnvelope(t, rec)
	if !isErr || msg != "Fill all the fields" {
		t.Errorf("unexpected envelope (%v, %q)", isErr, msg)
	}
}
