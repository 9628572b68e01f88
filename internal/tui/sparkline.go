package tui

import "github.com/knowbargain/kbargain/internal/domain"

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders a price series as a row of block characters, at most
// width runes wide. Older points beyond width are dropped from the left.
// A flat series renders at the middle level so it stays visible.
func Sparkline(points []domain.PricePoint, width int) string {
	if len(points) == 0 || width <= 0 {
		return ""
	}
	if len(points) > width {
		points = points[len(points)-width:]
	}

	min, max := points[0].Price, points[0].Price
	for _, p := range points[1:] {
		if p.Price < min {
			min = p.Price
		}
		if p.Price > max {
			max = p.Price
		}
	}

	out := make([]rune, len(points))
	if max == min {
		for i := range out {
			out[i] = sparkRunes[len(sparkRunes)/2]
		}
		return string(out)
	}

	scale := float64(len(sparkRunes)-1) / (max - min)
	for i, p := range points {
		idx := int((p.Price-min)*scale + 0.5)
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkRunes) {
			idx = len(sparkRunes) - 1
		}
		out[i] = sparkRunes[idx]
	}
	return string(out)
}
