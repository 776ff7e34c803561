package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/klauspost/compress/flate"
)

// ============================================================
// Archive Packager
// ============================================================

// ErrEmpty — нечего паковать: ни одного успешного элемента.
var ErrEmpty = errors.New("archive: no entries")

// Entry — один файл будущего архива, имя совпадает с именем загрузки.
type Entry struct {
	Name    string
	Content string
}

// Filename возвращает имя архива вида "icons-24px.zip".
func Filename(target float64) string {
	return fmt.Sprintf("icons-%spx.zip", strconv.FormatFloat(target, 'f', -1, 64))
}

// Build собирает zip в памяти. Отмена контекста прерывает сборку
// между записями; частичный результат снаружи не наблюдаем.
func Build(ctx context.Context, entries []Entry) ([]byte, error) {
	if len(entries) == 0 {
		return nil, ErrEmpty
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			zw.Close()
			return nil, err
		}
		w, err := zw.Create(entry.Name)
		if err != nil {
			zw.Close()
			return nil, fmt.Errorf("create entry %q: %w", entry.Name, err)
		}
		if _, err := w.Write([]byte(entry.Content)); err != nil {
			zw.Close()
			return nil, fmt.Errorf("write entry %q: %w", entry.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}
	return buf.Bytes(), nil
}
