package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/knowbargain/kbargain/internal/domain"
)

func points(prices ...float64) []domain.PricePoint {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	out := make([]domain.PricePoint, len(prices))
	for i, p := range prices {
		out[i] = domain.PricePoint{Price: p, Timestamp: base.Add(time.Duration(i) * time.Hour)}
	}
	return out
}

func TestSparklineEmpty(t *testing.T) {
	if got := Sparkline(nil, 40); got != "" {
		t.Errorf("Sparkline(nil) = %q, want empty", got)
	}
	if got := Sparkline(points(9.99), 0); got != "" {
		t.Errorf("Sparkline with zero width = %q, want empty", got)
	}
}

func TestSparklineExtremes(t *testing.T) {
	got := []rune(Sparkline(points(100, 50, 10), 40))
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0] != '█' {
		t.Errorf("max point = %c, want █", got[0])
	}
	if got[2] != '▁' {
		t.Errorf("min point = %c, want ▁", got[2])
	}
}

func TestSparklineFlatSeries(t *testing.T) {
	got := Sparkline(points(25, 25, 25), 40)
	if len([]rune(got)) != 3 {
		t.Fatalf("len = %d, want 3", len([]rune(got)))
	}
	if strings.ContainsRune(got, '▁') || strings.ContainsRune(got, '█') {
		t.Errorf("flat series should render at a middle level, got %q", got)
	}
}

func TestSparklineTruncatesFromLeft(t *testing.T) {
	got := []rune(Sparkline(points(1, 2, 3, 4, 5, 6), 3))
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	// Remaining window is 4,5,6 so the last rune is the maximum.
	if got[2] != '█' {
		t.Errorf("last rune = %c, want █", got[2])
	}
}
