package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"icon-normalizer/internal/normalizer/archive"
	"icon-normalizer/internal/normalizer/models"
	"icon-normalizer/internal/normalizer/service"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Icons Handler
// ============================================================

type IconsHandler struct {
	svc           *service.BatchService
	defaultTarget float64
}

func NewIconsHandler(svc *service.BatchService, defaultTarget float64) *IconsHandler {
	return &IconsHandler{svc: svc, defaultTarget: defaultTarget}
}

type normalizeRequest struct {
	TargetSize *float64 `json:"targetSize"`
}

// Upload принимает multipart с повторяющимся полем files.
func (h *IconsHandler) Upload(c fiber.Ctx) error {
	log.Printf("[ICONS] Upload request, Content-Length: %d", len(c.Body()))

	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "multipart/form-data required"})
	}

	files := form.File["files"]
	if len(files) == 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "files field required"})
	}

	items := make([]models.Item, 0, len(files))
	for _, fileHeader := range files {
		f, err := fileHeader.Open()
		if err != nil {
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to open file"})
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read file"})
		}

		item, err := h.svc.Ingest(context.Background(), fileHeader.Filename, string(data))
		if err != nil {
			log.Printf("[ICONS] Ingest error for %s: %v", fileHeader.Filename, err)
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		items = append(items, item)
	}

	log.Printf("[ICONS] Ingested %d files", len(items))
	return c.Status(http.StatusCreated).JSON(items)
}

// List возвращает элементы батча со статусами.
func (h *IconsHandler) List(c fiber.Ctx) error {
	items, err := h.svc.List(context.Background())
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if items == nil {
		items = []models.Item{}
	}
	return c.JSON(items)
}

// Get отдает один элемент вместе с исходным и нормализованным текстом.
func (h *IconsHandler) Get(c fiber.Ctx) error {
	item, err := h.svc.Get(context.Background(), c.Params("id"))
	if err != nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "item not found"})
	}
	return c.JSON(fiber.Map{
		"id":        item.ID,
		"name":      item.Name,
		"status":    item.Status,
		"message":   item.Message,
		"warnings":  item.Warnings,
		"original":  item.Original,
		"processed": item.Processed,
	})
}

// Normalize прогоняет весь батч под новый целевой размер.
func (h *IconsHandler) Normalize(c fiber.Ctx) error {
	target := h.defaultTarget
	if len(c.Body()) > 0 {
		var req normalizeRequest
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
		}
		if req.TargetSize != nil {
			target = *req.TargetSize
		}
	}

	summary, err := h.svc.Process(context.Background(), target)
	if err != nil {
		if errors.Is(err, models.ErrInvalidScale) {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(summary)
}

// Clear удаляет весь батч.
func (h *IconsHandler) Clear(c fiber.Ctx) error {
	if err := h.svc.Clear(context.Background()); err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "cleared"})
}

// DownloadArchive отдает zip успешных элементов.
func (h *IconsHandler) DownloadArchive(c fiber.Ctx) error {
	data, name, err := h.svc.Archive(context.Background())
	if err != nil {
		if errors.Is(err, archive.ErrEmpty) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "no normalized icons to archive"})
		}
		log.Printf("[ICONS] Archive error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	c.Set("Content-Type", "application/zip")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	return c.Send(data)
}
