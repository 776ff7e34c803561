package models

import "errors"

// ============================================================
// Errors
// ============================================================

var (
	// ErrNoFrame — у иконки нет viewBox и нет width/height.
	ErrNoFrame = errors.New("no frame: missing viewBox and width/height")
	// ErrMalformedPath — строку path d невозможно токенизировать.
	ErrMalformedPath = errors.New("malformed path data")
	// ErrInvalidScale — целевой размер нулевой или не конечный.
	ErrInvalidScale = errors.New("invalid scale: target size must be positive and finite")
)

// ============================================================
// Geometry Types
// ============================================================

// Frame — исходное координатное окно иконки.
type Frame struct {
	OriginX float64
	OriginY float64
	Width   float64
	Height  float64
}

// Transform применяется как translate-then-scale: x' = (x+Dx)*Sx.
// Относительные координаты получают только scale.
type Transform struct {
	Dx float64
	Dy float64
	Sx float64
	Sy float64
}

// Command — одна инструкция path mini-language.
// Kind всегда заглавная буква команды; регистр хранится в Relative.
type Command struct {
	Kind     byte
	Relative bool
	Operands []float64
}

// Letter возвращает букву команды с учетом регистра.
func (c Command) Letter() byte {
	if c.Relative {
		return c.Kind + ('a' - 'A')
	}
	return c.Kind
}

// CommandArity — фиксированное число операндов для каждой команды.
// Для A флаги large-arc и sweep — операнды 3 и 4 (с нуля), не координаты.
var CommandArity = map[byte]int{
	'M': 2,
	'Z': 0,
	'L': 2,
	'H': 1,
	'V': 1,
	'C': 6,
	'S': 4,
	'Q': 4,
	'T': 2,
	'A': 7,
}

// ============================================================
// Batch Item
// ============================================================

const (
	StatusPending = "pending"
	StatusSuccess = "success"
	StatusError   = "error"
)

// Item — единица батча: загруженная иконка и результат обработки.
type Item struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Original  string   `json:"-"`
	Processed string   `json:"-"`
	Status    string   `json:"status"`
	Message   string   `json:"message,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
	CreatedAt string   `json:"created_at"`
}
