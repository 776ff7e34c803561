package parser

import (
	"fmt"
	"strconv"
	"strings"

	"icon-normalizer/internal/normalizer/models"
)

// ============================================================
// Path Tokenizer
// ============================================================

// TokenizePath разбирает строку path d в последовательность команд.
// Буква с числом операндов, кратным арности, разворачивается
// в несколько команд того же вида. Флаги дуги (операнды 4 и 5 команды A) —
// одиночные цифры 0/1 и могут идти вплотную к следующему числу.
func TokenizePath(d string) ([]models.Command, error) {
	data := []byte(strings.TrimSpace(d))
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty path", models.ErrMalformedPath)
	}

	var cmds []models.Command
	i := skipSeparators(data, 0)
	if i >= len(data) || !isCommandLetter(data[i]) {
		return nil, fmt.Errorf("%w: path must start with a command letter", models.ErrMalformedPath)
	}

	for i < len(data) {
		letter := data[i]
		if !isCommandLetter(letter) {
			return nil, fmt.Errorf("%w: unexpected %q at position %d", models.ErrMalformedPath, letter, i)
		}

		kind := upperLetter(letter)
		relative := letter >= 'a'
		arity := models.CommandArity[kind]
		i = skipSeparators(data, i+1)

		if arity == 0 {
			cmds = append(cmds, models.Command{Kind: kind, Relative: relative})
			continue
		}

		// группы операндов: одна обязательная, дальше неявное повторение команды
		for {
			ops := make([]float64, arity)
			for j := 0; j < arity; j++ {
				if kind == 'A' && (j == 3 || j == 4) {
					if i >= len(data) || (data[i] != '0' && data[i] != '1') {
						return nil, fmt.Errorf("%w: arc flag must be 0 or 1 at position %d", models.ErrMalformedPath, i)
					}
					ops[j] = float64(data[i] - '0')
					i++
				} else {
					v, n := scanNumber(data, i)
					if n == 0 {
						return nil, fmt.Errorf("%w: expected number for command %q at position %d", models.ErrMalformedPath, letter, i)
					}
					ops[j] = v
					i += n
				}
				i = skipSeparators(data, i)
			}
			cmds = append(cmds, models.Command{Kind: kind, Relative: relative, Operands: ops})

			if i >= len(data) || !isNumberStart(data[i]) {
				break
			}
		}
	}

	return cmds, nil
}

// scanNumber сканирует одно число (знак, десятичная точка, экспонента)
// и возвращает значение и длину. Вторая точка начинает новое число.
func scanNumber(data []byte, start int) (float64, int) {
	i := start
	if i < len(data) && (data[i] == '+' || data[i] == '-') {
		i++
	}

	digits := false
	for i < len(data) && isDigit(data[i]) {
		i++
		digits = true
	}
	if i < len(data) && data[i] == '.' {
		i++
		for i < len(data) && isDigit(data[i]) {
			i++
			digits = true
		}
	}
	if !digits {
		return 0, 0
	}

	if i < len(data) && (data[i] == 'e' || data[i] == 'E') {
		j := i + 1
		if j < len(data) && (data[j] == '+' || data[j] == '-') {
			j++
		}
		if j < len(data) && isDigit(data[j]) {
			for j < len(data) && isDigit(data[j]) {
				j++
			}
			i = j
		}
	}

	v, err := strconv.ParseFloat(string(data[start:i]), 64)
	if err != nil {
		return 0, 0
	}
	return v, i - start
}

func skipSeparators(data []byte, i int) int {
	for i < len(data) {
		switch data[i] {
		case ' ', ',', '\t', '\n', '\r':
			i++
		default:
			return i
		}
	}
	return i
}

func isCommandLetter(b byte) bool {
	_, ok := models.CommandArity[upperLetter(b)]
	return ok && (b >= 'A' && b <= 'Z' || b >= 'a' && b <= 'z')
}

func isNumberStart(b byte) bool {
	return isDigit(b) || b == '.' || b == '+' || b == '-'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func upperLetter(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}
