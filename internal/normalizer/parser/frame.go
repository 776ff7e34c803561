package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"icon-normalizer/internal/normalizer/models"
)

// ============================================================
// Frame Inference
// ============================================================

// InferFrame извлекает исходное координатное окно иконки.
// Сначала viewBox, затем пара width/height; смотрится только
// открывающий тег корневого <svg>, корень считается единственным —
// размеры дочерних элементов и stroke-width не являются окном.
func InferFrame(doc string) (models.Frame, error) {
	root := regexp.MustCompile(`<svg\b[^>]*>`).FindString(doc)

	re := regexp.MustCompile(`(?:^|[\s"'<])viewBox\s*=\s*["']([^"']*)["']`)
	if m := re.FindStringSubmatch(root); m != nil {
		// битый viewBox не фатален: окно еще может вывестись из width/height
		if nums, ok := parseNumberList(m[1]); ok && len(nums) == 4 && nums[2] > 0 && nums[3] > 0 {
			return models.Frame{
				OriginX: nums[0],
				OriginY: nums[1],
				Width:   nums[2],
				Height:  nums[3],
			}, nil
		}
	}

	width, okW := lengthAttr(root, "width")
	height, okH := lengthAttr(root, "height")
	if okW && okH && width > 0 && height > 0 {
		return models.Frame{Width: width, Height: height}, nil
	}

	return models.Frame{}, models.ErrNoFrame
}

// lengthAttr ищет числовой атрибут, отбрасывая суффикс единицы ("48px" -> 48).
// Имя атрибута требует границы слева: "-" перед width ("stroke-width") — не совпадение.
func lengthAttr(tag, name string) (float64, bool) {
	re := regexp.MustCompile(`(?:^|[\s"'<])` + name + `\s*=\s*["']([^"']*)["']`)
	m := re.FindStringSubmatch(tag)
	if m == nil {
		return 0, false
	}

	value := strings.TrimSpace(m[1])
	numRe := regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)
	num := numRe.FindString(value)
	if num == "" {
		return 0, false
	}

	v, err := strconv.ParseFloat(num, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// parseNumberList разбирает список чисел, разделенных пробелами/запятыми.
func parseNumberList(s string) ([]float64, bool) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields) == 0 {
		return nil, false
	}

	nums := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
			return nil, false
		}
		nums = append(nums, v)
	}
	return nums, true
}
