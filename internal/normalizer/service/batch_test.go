package service

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"testing"
	"time"

	"icon-normalizer/internal/normalizer/models"
	"icon-normalizer/internal/normalizer/repository"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

func newTestService(t *testing.T) *BatchService {
	t.Helper()

	db, err := repository.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo := repository.New(db)
	if err := repo.Init(context.Background(), "../../../migrations/001_init_items.sql"); err != nil {
		t.Fatalf("init db: %v", err)
	}
	return NewBatchService(repo, 3, 24)
}

func TestProcessBatchIsolatesFailures(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	good, err := svc.Ingest(ctx, "good.svg", `<svg viewBox="0 0 100 100"><path d="M10 10 L90 90"/></svg>`)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	bad, err := svc.Ingest(ctx, "bad.svg", `<svg><path d="M10 10"/></svg>`)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	summary, err := svc.Process(ctx, 24)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if summary.Total != 2 || summary.Succeeded != 1 || summary.Failed != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	goodItem, err := svc.Get(ctx, good.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if goodItem.Status != models.StatusSuccess {
		t.Fatalf("good item: %+v", goodItem)
	}
	if !strings.Contains(goodItem.Processed, `d="M2.4 2.4L21.6 21.6"`) {
		t.Fatalf("good item not normalized: %s", goodItem.Processed)
	}

	badItem, err := svc.Get(ctx, bad.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if badItem.Status != models.StatusError || !strings.Contains(badItem.Message, "no frame") {
		t.Fatalf("bad item: %+v", badItem)
	}
	if badItem.Processed != "" {
		t.Fatalf("failed item must not produce output: %q", badItem.Processed)
	}
}

func TestProcessRecordsWarnings(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	item, err := svc.Ingest(ctx, "partial.svg",
		`<svg viewBox="0 0 100 100"><path d="M10 10 L"/><path d="M10 10 L90 90"/></svg>`)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if _, err := svc.Process(ctx, 24); err != nil {
		t.Fatalf("process: %v", err)
	}

	got, err := svc.Get(ctx, item.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != models.StatusSuccess {
		t.Fatalf("partial failure must stay success: %+v", got)
	}
	if len(got.Warnings) != 1 || !strings.Contains(got.Warnings[0], "left untouched") {
		t.Fatalf("expected recovery warning, got %v", got.Warnings)
	}
}

func TestReprocessWithNewTarget(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	item, err := svc.Ingest(ctx, "icon.svg", `<svg viewBox="0 0 100 100"><path d="M50 50 L100 100"/></svg>`)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	if _, err := svc.Process(ctx, 24); err != nil {
		t.Fatalf("first process: %v", err)
	}
	if _, err := svc.Process(ctx, 48); err != nil {
		t.Fatalf("second process: %v", err)
	}

	got, err := svc.Get(ctx, item.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !strings.Contains(got.Processed, `d="M24 24L48 48"`) {
		t.Fatalf("reprocess must start from original content: %s", got.Processed)
	}
	if svc.LastTarget() != 48 {
		t.Fatalf("last target: %v", svc.LastTarget())
	}
}

func TestProcessShutsDownWorkerPool(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		name := fmt.Sprintf("icon-%d.svg", i)
		if _, err := svc.Ingest(ctx, name, `<svg viewBox="0 0 100 100"><path d="M10 10 L90 90"/></svg>`); err != nil {
			t.Fatalf("ingest: %v", err)
		}
	}

	// прогрев: фоновые горутины драйвера стартуют до замера базы
	if _, err := svc.Process(ctx, 24); err != nil {
		t.Fatalf("warmup process: %v", err)
	}
	before := runtime.NumGoroutine()

	if _, err := svc.Process(ctx, 48); err != nil {
		t.Fatalf("process: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for runtime.NumGoroutine() > before {
		if time.Now().After(deadline) {
			t.Fatalf("worker goroutines leaked: %d > %d", runtime.NumGoroutine(), before)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestProcessInvalidScale(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Process(context.Background(), 0); !errors.Is(err, models.ErrInvalidScale) {
		t.Fatalf("expected ErrInvalidScale, got %v", err)
	}
}

func TestArchiveExcludesFailedItems(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Ingest(ctx, "good.svg", `<svg viewBox="0 0 100 100"><path d="M10 10 L90 90"/></svg>`); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if _, err := svc.Ingest(ctx, "bad.svg", `<svg/>`); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if _, err := svc.Process(ctx, 24); err != nil {
		t.Fatalf("process: %v", err)
	}

	data, name, err := svc.Archive(ctx)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if name != "icons-24px.zip" {
		t.Fatalf("archive name: %q", name)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	if len(zr.File) != 1 || zr.File[0].Name != "good.svg" {
		t.Fatalf("archive must hold only successful items: %+v", zr.File)
	}
}
