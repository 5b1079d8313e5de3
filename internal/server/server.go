package server

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/scanbrief/scanbrief/internal/model"
	"github.com/scanbrief/scanbrief/internal/pipeline"
	"github.com/scanbrief/scanbrief/internal/report"
)

// DefaultMaxUploadSize limits uploaded export size. 100MB covers even
// very large enterprise scans.
const DefaultMaxUploadSize = 100 * 1024 * 1024

// Server is the upload portal.
type Server struct {
	// pipelineFactory creates a fresh pipeline per upload.
	pipelineFactory func() *pipeline.Pipeline

	// tmpRoot is where per-request working directories are created.
	tmpRoot string

	// maxUploadSize caps the multipart form size in bytes.
	maxUploadSize int64

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets a custom logger for the server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithPipelineFactory overrides the pipeline used per upload.
func WithPipelineFactory(factory func() *pipeline.Pipeline) Option {
	return func(s *Server) {
		s.pipelineFactory = factory
	}
}

// WithTempRoot sets the root directory for per-request working
// directories. Defaults to the system temp directory.
func WithTempRoot(dir string) Option {
	return func(s *Server) {
		s.tmpRoot = dir
	}
}

// WithMaxUploadSize caps the accepted upload size in bytes.
func WithMaxUploadSize(size int64) Option {
	return func(s *Server) {
		if size > 0 {
			s.maxUploadSize = size
		}
	}
}

// New creates a Server.
func New(opts ...Option) *Server {
	s := &Server{
		tmpRoot:       os.TempDir(),
		maxUploadSize: DefaultMaxUploadSize,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.pipelineFactory == nil {
		logger := s.logger
		s.pipelineFactory = func() *pipeline.Pipeline {
			return pipeline.DefaultPipeline(logger, nil)
		}
	}

	return s
}

// Handler returns the portal's HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /upload", s.handleUpload)
	return mux
}

// ListenAndServe runs the portal until the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("upload portal listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// indexTemplate is the upload form page.
var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>scanbrief</title>
<style>
body { font-family: Arial, Helvetica, sans-serif; max-width: 40em; margin: 4em auto; color: #2c3e50; }
fieldset { border: 1px solid #bdc3c7; margin: 1em 0; padding: 1em; }
button { background: #2c3e50; color: #fff; border: none; padding: 0.6em 1.4em; cursor: pointer; }
</style>
</head>
<body>
<h1>scanbrief</h1>
<p>Upload a scanner CSV export to generate a report bundle.</p>
<form action="/upload" method="post" enctype="multipart/form-data">
<fieldset>
<legend>Export file</legend>
<input type="file" name="file" accept=".csv" required>
</fieldset>
<fieldset>
<legend>Report formats</legend>
<label><input type="checkbox" name="formats" value="csv" checked> CSV</label>
<label><input type="checkbox" name="formats" value="markdown"> Markdown</label>
<label><input type="checkbox" name="formats" value="html"> HTML</label>
<label><input type="checkbox" name="formats" value="json"> JSON</label>
</fieldset>
<button type="submit">Generate Report</button>
</form>
</body>
</html>
`))

// handleIndex serves the upload form.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, nil); err != nil {
		s.logger.Error("render index", "error", err)
	}
}

// handleUpload processes one export upload and responds with a zip
// bundle of the generated report files.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing export file", http.StatusBadRequest)
		return
	}
	defer file.Close() //nolint:errcheck // read-only upload

	formats, err := s.requestedFormats(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Per-request working directory; removed when the response is done.
	workDir := filepath.Join(s.tmpRoot, "scanbrief-"+uuid.NewString())
	if err := os.MkdirAll(workDir, 0o700); err != nil {
		s.logger.Error("create working directory", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer os.RemoveAll(workDir) //nolint:errcheck // best-effort cleanup

	uploadPath := filepath.Join(workDir, "upload.csv")
	if err := saveUpload(uploadPath, file); err != nil {
		s.logger.Error("save upload", "error", err)
		http.Error(w, "could not read upload", http.StatusBadRequest)
		return
	}

	s.logger.Info("processing upload",
		"filename", header.Filename,
		"size", header.Size,
		"formats", len(formats),
	)

	scanReport := model.NewScanReport(uploadPath)
	if err := s.pipelineFactory().Execute(r.Context(), scanReport); err != nil {
		s.logger.Warn("upload processing failed", "filename", header.Filename, "error", err)
		http.Error(w, "could not process export: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}
	// Show the user's file name in the report, not the temp path.
	scanReport.SourceFile = header.Filename

	exporter := report.NewExporter(filepath.Join(workDir, "out"),
		report.WithExportLogger(s.logger),
	)
	paths, err := exporter.Export(scanReport, formats)
	if err != nil {
		s.logger.Error("export failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="scanbrief_reports.zip"`)
	if err := writeZip(w, paths); err != nil {
		// Headers are already out; all we can do is log.
		s.logger.Error("write zip response", "error", err)
	}
}

// requestedFormats resolves the format checkboxes, defaulting to CSV.
func (s *Server) requestedFormats(r *http.Request) ([]report.Format, error) {
	values := r.Form["formats"]
	if len(values) == 0 {
		values = r.PostForm["formats"]
	}
	if len(values) == 0 {
		return []report.Format{report.FormatCSV}, nil
	}

	var formats []report.Format
	for _, v := range values {
		parsed, err := report.ParseFormats(v)
		if err != nil {
			return nil, fmt.Errorf("unsupported format %q", v)
		}
		formats = append(formats, parsed...)
	}
	return formats, nil
}

// saveUpload copies the uploaded stream to disk.
func saveUpload(path string, src io.Reader) error {
	dst, err := os.Create(path)
	if err != nil {
		return err
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close() //nolint:errcheck // copy error takes precedence
		return err
	}
	return dst.Close()
}

// writeZip streams the given files as a zip archive.
func writeZip(w io.Writer, paths []string) error {
	zw := zip.NewWriter(w)

	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return err
		}

		entry, err := zw.Create(filepath.Base(path))
		if err != nil {
			f.Close() //nolint:errcheck // create error takes precedence
			return err
		}
		if _, err := io.Copy(entry, f); err != nil {
			f.Close() //nolint:errcheck // copy error takes precedence
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}

	return zw.Close()
}
