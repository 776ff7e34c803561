package geometry

import (
	"strconv"
	"strings"

	"icon-normalizer/internal/normalizer/models"
)

// ============================================================
// Numeric Serializer
// ============================================================

// Serialize собирает команды обратно в компактную строку path d.
// Разделитель ставится только там, где без него конкатенация
// чисел стала бы неоднозначной; перед буквой команды он не нужен.
func Serialize(cmds []models.Command, precision int) string {
	var sb strings.Builder
	for _, c := range cmds {
		sb.WriteByte(c.Letter())
		prev := ""
		for j, v := range c.Operands {
			s := FormatNumber(v, precision)
			if j > 0 && needsSeparator(prev, s) {
				sb.WriteByte(' ')
			}
			sb.WriteString(s)
			prev = s
		}
	}
	return sb.String()
}

// FormatNumber округляет до precision знаков и убирает лишнее:
// хвостовые нули, висячую точку, ведущий ноль ("0.5" -> ".5", "-0" -> "0").
func FormatNumber(v float64, precision int) string {
	s := strconv.FormatFloat(v, 'f', precision, 64)
	if strings.ContainsRune(s, '.') {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" || s == "" {
		s = "0"
	}

	if strings.HasPrefix(s, "0.") {
		s = s[1:]
	} else if strings.HasPrefix(s, "-0.") {
		s = "-" + s[2:]
	}
	return s
}

// needsSeparator: минус сам отделяет число; точка отделяет,
// только если предыдущее число уже содержит свою точку.
func needsSeparator(prev, next string) bool {
	if next == "" || prev == "" {
		return false
	}
	if next[0] == '-' {
		return false
	}
	if next[0] == '.' && strings.ContainsRune(prev, '.') {
		return false
	}
	return true
}
