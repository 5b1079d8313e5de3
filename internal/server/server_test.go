package server

import (
	"archive/zip"
	"bytes"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/scanbrief/scanbrief/internal/pipeline"
)

const sampleExport = `Host,Port,Name,Risk,CVSS v3.0 Base Score
web01,443,SQL Injection,Critical,9.8
web01,443,Weak TLS Configuration,Medium,5.3
`

// quiet returns a logger that discards output.
func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestServer builds a Server with quiet logging and a temp working root.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := quiet()
	return New(
		WithLogger(logger),
		WithTempRoot(t.TempDir()),
		WithPipelineFactory(func() *pipeline.Pipeline {
			return pipeline.DefaultPipeline(logger, nil)
		}),
	)
}

// uploadRequest builds a multipart upload with the given formats checked.
func uploadRequest(t *testing.T, body string, formats ...string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fw, err := mw.CreateFormFile("file", "scan.csv")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := io.WriteString(fw, body); err != nil {
		t.Fatal(err)
	}
	for _, f := range formats {
		if err := mw.WriteField("formats", f); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestIndexPage(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `action="/upload"`) {
		t.Error("upload form missing")
	}
	if !strings.Contains(body, `name="formats" value="markdown"`) {
		t.Error("format checkboxes missing")
	}
}

func TestUploadProducesZip(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, uploadRequest(t, sampleExport, "csv", "json"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/zip" {
		t.Errorf("Content-Type = %q", ct)
	}

	zr, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	if err != nil {
		t.Fatalf("response is not a zip: %v", err)
	}

	// CSV bundle is three files, JSON one.
	if len(zr.File) != 4 {
		names := make([]string, len(zr.File))
		for i, f := range zr.File {
			names[i] = f.Name
		}
		t.Fatalf("zip entries = %v, expected 4", names)
	}

	var sawDetails, sawJSON bool
	for _, f := range zr.File {
		if strings.Contains(f.Name, "details") && strings.HasSuffix(f.Name, ".csv") {
			sawDetails = true
			rc, err := f.Open()
			if err != nil {
				t.Fatal(err)
			}
			content, err := io.ReadAll(rc)
			rc.Close() //nolint:errcheck // test read
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(string(content), "SQL Injection") {
				t.Error("details CSV missing findings")
			}
		}
		if strings.HasSuffix(f.Name, ".json") {
			sawJSON = true
		}
	}
	if !sawDetails || !sawJSON {
		t.Error("expected details CSV and JSON report in bundle")
	}
}

func TestUploadDefaultsToCSV(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, uploadRequest(t, sampleExport))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	zr, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	if err != nil {
		t.Fatal(err)
	}
	if len(zr.File) != 3 {
		t.Errorf("zip entries = %d, expected the CSV bundle", len(zr.File))
	}
}

func TestUploadMissingFile(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, expected 400", rec.Code)
	}
}

func TestUploadUnknownFormat(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, uploadRequest(t, sampleExport, "xlsx"))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, expected 400", rec.Code)
	}
}

func TestUploadUnparseableExport(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, uploadRequest(t, ""))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, expected 422", rec.Code)
	}
}
