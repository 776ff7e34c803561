package service

import (
	"context"
	"log"
	"math"
	"runtime"
	"sync"

	"icon-normalizer/internal/normalizer/archive"
	"icon-normalizer/internal/normalizer/models"
	"icon-normalizer/internal/normalizer/repository"
	"icon-normalizer/internal/normalizer/rewriter"

	"github.com/google/uuid"
)

// ============================================================
// Batch Service
// ============================================================

// BatchService владеет списком элементов и прогоняет конвейер по батчу.
// Смена целевого размера перезапускает обработку с исходного содержимого,
// без повторной загрузки.
type BatchService struct {
	repo      *repository.Repository
	precision int

	mu         sync.Mutex
	lastTarget float64
}

type Summary struct {
	Total      int     `json:"total"`
	Succeeded  int     `json:"succeeded"`
	Failed     int     `json:"failed"`
	TargetSize float64 `json:"targetSize"`
}

func NewBatchService(repo *repository.Repository, precision int, defaultTarget float64) *BatchService {
	return &BatchService{
		repo:       repo,
		precision:  precision,
		lastTarget: defaultTarget,
	}
}

// Ingest регистрирует одну загруженную иконку со статусом pending.
func (s *BatchService) Ingest(ctx context.Context, name, content string) (models.Item, error) {
	item := models.Item{
		ID:       uuid.NewString(),
		Name:     name,
		Original: content,
		Status:   models.StatusPending,
	}
	if err := s.repo.Insert(ctx, item); err != nil {
		return models.Item{}, err
	}
	return item, nil
}

// Process нормализует весь батч к новому целевому размеру.
// Элементы независимы и обрабатываются пулом воркеров; сбой одного
// элемента никогда не прерывает батч, исход фиксируется поэлементно.
func (s *BatchService) Process(ctx context.Context, target float64) (Summary, error) {
	if target <= 0 || math.IsInf(target, 0) || math.IsNaN(target) {
		return Summary{}, models.ErrInvalidScale
	}

	if err := s.repo.ResetAll(ctx); err != nil {
		return Summary{}, err
	}
	items, err := s.repo.List(ctx)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{Total: len(items), TargetSize: target}
	if len(items) == 0 {
		s.setLastTarget(target)
		return summary, nil
	}

	jobs := make(chan models.Item)
	// буфер на весь батч: воркеры дописывают результаты и завершаются,
	// даже если сборщик вышел по ошибке раньше времени
	results := make(chan outcome, len(items))

	workers := runtime.NumCPU()
	if workers > len(items) {
		workers = len(items)
	}
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for item := range jobs {
				results <- processItem(item, target, s.precision)
			}
		}()
	}

	go func() {
		for _, item := range items {
			jobs <- item
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	// результаты сопоставляются по id, порядок завершения не важен
	for res := range results {
		if err := s.repo.SetResult(ctx, res.id, res.status, res.message, res.processed, res.warnings); err != nil {
			return summary, err
		}
		if res.status == models.StatusSuccess {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
	}

	s.setLastTarget(target)
	log.Printf("[BATCH] Processed %d items for target %v: %d ok, %d failed",
		summary.Total, target, summary.Succeeded, summary.Failed)
	return summary, nil
}

type outcome struct {
	id        string
	status    string
	message   string
	processed string
	warnings  []string
}

func processItem(item models.Item, target float64, precision int) outcome {
	out, warnings, err := rewriter.Normalize(item.Original, target, precision)
	if err != nil {
		return outcome{id: item.ID, status: models.StatusError, message: err.Error()}
	}
	return outcome{id: item.ID, status: models.StatusSuccess, processed: out, warnings: warnings}
}

// Archive собирает zip из успешных элементов под последний целевой размер.
func (s *BatchService) Archive(ctx context.Context) ([]byte, string, error) {
	items, err := s.repo.Successful(ctx)
	if err != nil {
		return nil, "", err
	}

	entries := make([]archive.Entry, 0, len(items))
	for _, item := range items {
		entries = append(entries, archive.Entry{Name: item.Name, Content: item.Processed})
	}

	data, err := archive.Build(ctx, entries)
	if err != nil {
		return nil, "", err
	}
	return data, archive.Filename(s.LastTarget()), nil
}

func (s *BatchService) List(ctx context.Context) ([]models.Item, error) {
	return s.repo.List(ctx)
}

func (s *BatchService) Get(ctx context.Context, id string) (*models.Item, error) {
	return s.repo.Get(ctx, id)
}

func (s *BatchService) Clear(ctx context.Context) error {
	return s.repo.Clear(ctx)
}

func (s *BatchService) LastTarget() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastTarget
}

func (s *BatchService) setLastTarget(target float64) {
	s.mu.Lock()
	s.lastTarget = target
	s.mu.Unlock()
}
