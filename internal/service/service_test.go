package service

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"mime/multipart"
	"net/textproto"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"

	"cargram/internal/config"
	"cargram/internal/database"
	"cargram/internal/media"
	"cargram/internal/model"
	"cargram/internal/queue"
	"cargram/internal/stream"
)

// =============================================================================
// Test Helpers
// =============================================================================

// newTestDB opens a throwaway sqlite database with the full schema applied.
func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "test.db")}
	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("connect test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestImages(t *testing.T) *media.Store {
	t.Helper()

	store, err := media.NewStore(filepath.Join(t.TempDir(), "images"))
	if err != nil {
		t.Fatalf("init image store: %v", err)
	}
	return store
}

// memFile adapts an in-memory buffer to multipart.File.
type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

// testJPEG encodes a small solid-color JPEG upload.
func testJPEG(t *testing.T) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode test jpeg: %v", err)
	}

	header := &multipart.FileHeader{
		Filename: "upload.jpg",
		Size:     int64(buf.Len()),
		Header:   textproto.MIMEHeader{"Content-Type": []string{model.ContentTypeJPEG}},
	}
	return memFile{bytes.NewReader(buf.Bytes())}, header
}

// recordingPublisher captures published mirror events for assertions.
type recordingPublisher struct {
	events []queue.MirrorEvent
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, event queue.MirrorEvent) (string, error) {
	p.events = append(p.events, event)
	return "1-0", nil
}

func (p *recordingPublisher) typesSeen() []string {
	types := make([]string, len(p.events))
	for i, e := range p.events {
		types[i] = e.Type
	}
	return types
}

func newTestNotifier() *stream.Notifier {
	return stream.NewNotifier()
}
