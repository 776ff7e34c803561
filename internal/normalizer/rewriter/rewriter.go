package rewriter

import (
	"fmt"
	"math"
	"regexp"

	"icon-normalizer/internal/normalizer/geometry"
	"icon-normalizer/internal/normalizer/models"
	"icon-normalizer/internal/normalizer/parser"
)

// ============================================================
// Frame Rewriter
// ============================================================

// Normalize прогоняет один документ через весь конвейер:
// вывод окна -> трансформация каждого path -> каноническая декларация размера.
// Path, который не удалось токенизировать, остается байт-в-байт исходным,
// а причина попадает в warnings; документ в целом все равно успешен.
func Normalize(doc string, target float64, precision int) (string, []string, error) {
	if target <= 0 || math.IsInf(target, 0) || math.IsNaN(target) {
		return "", nil, models.ErrInvalidScale
	}

	frame, err := parser.InferFrame(doc)
	if err != nil {
		return "", nil, err
	}
	transform := geometry.NormalizeTransform(frame, target)

	var warnings []string
	pathRe := regexp.MustCompile(`(<path\b[^>]*?\bd\s*=\s*["'])([^"']*)(["'])`)
	index := 0
	out := pathRe.ReplaceAllStringFunc(doc, func(m string) string {
		index++
		sub := pathRe.FindStringSubmatch(m)
		cmds, err := parser.TokenizePath(sub[2])
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("path %d left untouched: %v", index, err))
			return m
		}
		return sub[1] + geometry.Serialize(geometry.Apply(cmds, transform), precision) + sub[3]
	})

	return rewriteRoot(out, target, precision), warnings, nil
}

// rewriteRoot убирает из корневого тега старые viewBox/width/height
// и вставляет единственную каноническую декларацию "0 0 T T".
func rewriteRoot(doc string, target float64, precision int) string {
	rootRe := regexp.MustCompile(`<svg\b[^>]*>`)
	loc := rootRe.FindStringIndex(doc)
	if loc == nil {
		return doc
	}

	tag := doc[loc[0]:loc[1]]
	attrRe := regexp.MustCompile(`\s*(viewBox|width|height)\s*=\s*["'][^"']*["']`)
	tag = attrRe.ReplaceAllString(tag, "")

	size := geometry.FormatNumber(target, precision)
	decl := fmt.Sprintf(` viewBox="0 0 %s %s" width="%s" height="%s"`, size, size, size, size)
	tag = "<svg" + decl + tag[len("<svg"):]

	return doc[:loc[0]] + tag + doc[loc[1]:]
}
