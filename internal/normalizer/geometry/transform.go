package geometry

import "icon-normalizer/internal/normalizer/models"

// ============================================================
// Transform Engine
// ============================================================

// NormalizeTransform строит трансформацию из исходного окна в квадрат target.
func NormalizeTransform(frame models.Frame, target float64) models.Transform {
	return models.Transform{
		Dx: -frame.OriginX,
		Dy: -frame.OriginY,
		Sx: target / frame.Width,
		Sy: target / frame.Height,
	}
}

// Apply переписывает координатные операнды команд через трансформацию.
// Абсолютные координаты: translate+scale, относительные: только scale.
// Радиусы дуги масштабируются по осям, поворот и флаги не трогаются.
// При Sx != Sy угол поворота дуги остается приближением — эллипс
// с неравномерным масштабом в общем случае не выражается той же дугой.
func Apply(cmds []models.Command, t models.Transform) []models.Command {
	out := make([]models.Command, len(cmds))
	for i, c := range cmds {
		ops := append([]float64(nil), c.Operands...)

		switch c.Kind {
		case 'M', 'L', 'T', 'C', 'S', 'Q':
			for j := 0; j+1 < len(ops); j += 2 {
				ops[j] = mapX(t, ops[j], c.Relative)
				ops[j+1] = mapY(t, ops[j+1], c.Relative)
			}
		case 'H':
			ops[0] = mapX(t, ops[0], c.Relative)
		case 'V':
			ops[0] = mapY(t, ops[0], c.Relative)
		case 'A':
			ops[0] *= t.Sx
			ops[1] *= t.Sy
			ops[5] = mapX(t, ops[5], c.Relative)
			ops[6] = mapY(t, ops[6], c.Relative)
		case 'Z':
			// нет операндов
		}

		out[i] = models.Command{Kind: c.Kind, Relative: c.Relative, Operands: ops}
	}
	return out
}

func mapX(t models.Transform, x float64, relative bool) float64 {
	if relative {
		return x * t.Sx
	}
	return (x + t.Dx) * t.Sx
}

func mapY(t models.Transform, y float64, relative bool) float64 {
	if relative {
		return y * t.Sy
	}
	return (y + t.Dy) * t.Sy
}
