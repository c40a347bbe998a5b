package service

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/guidely/guidely-backend/internal/config"
)

// buildUploadForm assembles a multipart form and parses it back so the
// returned headers behave exactly like Gin's.
func buildUploadForm(t *testing.T, files map[string]struct {
	contentType string
	content     string
}) []*multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="files"; filename="`+name+`"`)
		h.Set("Content-Type", f.contentType)
		part, err := mw.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write([]byte(f.content)); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	form, err := multipart.NewReader(&buf, mw.Boundary()).ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["files"]
}

func newTestUploadService(t *testing.T, maxBytes int64) (*UploadService, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{UploadDir: dir, MaxUploadBytes: maxBytes}
	return NewUploadService(cfg, zerolog.Nop()), dir
}

func TestSaveBatchStoresAllFiles(t *testing.T) {
	svc, dir := newTestUploadService(t, 1<<20)

	headers := buildUploadForm(t, map[string]struct {
		contentType string
		content     string
	}{
		"a.png": {"image/png", "png-bytes"},
		"b.pdf": {"application/pdf", "pdf-bytes"},
	})

	result, err := svc.SaveBatch(headers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Count != 2 {
		t.Errorf("count = %d, want 2", result.Count)
	}
	if result.TotalBytes != int64(len("png-bytes")+len("pdf-bytes")) {
		t.Errorf("total bytes = %d", result.TotalBytes)
	}
	if len(result.URLs) != 2 {
		t.Fatalf("got %d urls, want 2", len(result.URLs))
	}
	for _, u := range result.URLs {
		if !strings.HasPrefix(u, "/uploads/") {
			t.Errorf("url %q missing /uploads/ prefix", u)
		}
		if _, err := os.Stat(filepath.Join(dir, filepath.Base(u))); err != nil {
			t.Errorf("stored file missing: %v", err)
		}
	}
}

func TestSaveBatchEmptyIsError(t *testing.T) {
	svc, _ := newTestUploadService(t, 1<<20)

	if _, err := svc.SaveBatch(nil); !errors.Is(err, ErrNoFiles) {
		t.Errorf("err = %v, want ErrNoFiles", err)
	}
}

func TestSaveBatchRejectsWholeBatchOnBadFile(t *testing.T) {
	svc, dir := newTestUploadService(t, 1<<20)

	headers := buildUploadForm(t, map[string]struct {
		contentType string
		content     string
	}{
		"ok.png":  {"image/png", "fine"},
		"bad.exe": {"application/octet-stream", "nope"},
	})

	if _, err := svc.SaveBatch(headers); !errors.Is(err, ErrUnsupportedFileType) {
		t.Fatalf("err = %v, want ErrUnsupportedFileType", err)
	}

	// Nothing may survive a rejected batch.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("found %d stored files after rejected batch, want 0", len(entries))
	}
}

func TestSaveBatchEnforcesSizeLimit(t *testing.T) {
	svc, _ := newTestUploadService(t, 4)

	headers := buildUploadForm(t, map[string]struct {
		contentType string
		content     string
	}{
		"big.png": {"image/png", "more-than-four-bytes"},
	})

	if _, err := svc.SaveBatch(headers); !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("err = %v, want ErrFileTooLarge", err)
	}
}
