package placement

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/Iron-Ham/groupspin/internal/errors"
)

func TestChooseTarget_OnlyMinimumIndices(t *testing.T) {
	tests := []struct {
		name  string
		sizes []int
		want  []int
	}{
		{"single group", []int{3}, []int{0}},
		{"all empty", []int{0, 0, 0}, []int{0, 1, 2}},
		{"unique minimum", []int{2, 1, 2}, []int{1}},
		{"two tied minima", []int{1, 0, 2, 0}, []int{1, 3}},
		{"minimum at end", []int{5, 4, 3}, []int{2}},
	}

	rng := rand.New(rand.NewPCG(1, 2))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed := make(map[int]bool)
			for _, i := range tt.want {
				allowed[i] = true
			}
			for trial := 0; trial < 200; trial++ {
				got, err := ChooseTarget(tt.sizes, rng)
				if err != nil {
					t.Fatalf("ChooseTarget() error = %v", err)
				}
				if !allowed[got] {
					t.Fatalf("ChooseTarget(%v) = %d, want one of %v", tt.sizes, got, tt.want)
				}
			}
		})
	}
}

func TestChooseTarget_EmptyGroups(t *testing.T) {
	_, err := ChooseTarget(nil, rand.New(rand.NewPCG(1, 1)))
	if err == nil {
		t.Fatal("expected error for empty groups")
	}
	if !errors.Is(err, errors.ErrInvalidConfiguration) {
		t.Errorf("error = %v, want ErrInvalidConfiguration", err)
	}
}

func TestChooseTarget_UniformTieBreak(t *testing.T) {
	sizes := []int{1, 0, 0, 1, 0}
	tied := []int{1, 2, 4}
	const trials = 30000

	rng := rand.New(rand.NewPCG(42, 7))
	counts := make(map[int]int)
	for i := 0; i < trials; i++ {
		got, err := ChooseTarget(sizes, rng)
		if err != nil {
			t.Fatalf("ChooseTarget() error = %v", err)
		}
		counts[got]++
	}

	expected := float64(trials) / float64(len(tied))
	for _, idx := range tied {
		deviation := math.Abs(float64(counts[idx])-expected) / expected
		if deviation > 0.05 {
			t.Errorf("index %d chosen %d times, expected about %.0f (deviation %.3f)", idx, counts[idx], expected, deviation)
		}
	}
	if len(counts) != len(tied) {
		t.Errorf("chose %d distinct indices, want %d: %v", len(counts), len(tied), counts)
	}
}

func TestPicker_DeterministicForSeed(t *testing.T) {
	groups := [][]string{{}, {}, {}, {}}

	sequence := func(p *Picker) []int {
		var out []int
		g := make([][]string, len(groups))
		for i := 0; i < 12; i++ {
			idx, err := p.Choose(g)
			if err != nil {
				t.Fatalf("Choose() error = %v", err)
			}
			g[idx] = append(g[idx], "x")
			out = append(out, idx)
		}
		return out
	}

	a := sequence(NewPicker(99))
	b := sequence(NewPicker(99))
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sequences diverge at %d: %v vs %v", i, a, b)
		}
	}
}

func TestPicker_BalancesGroups(t *testing.T) {
	p := NewPicker(3)
	groups := make([][]string, 4)
	for i := 0; i < 13; i++ {
		idx, err := p.Choose(groups)
		if err != nil {
			t.Fatalf("Choose() error = %v", err)
		}
		groups[idx] = append(groups[idx], "p")
	}

	minSize, maxSize := len(groups[0]), len(groups[0])
	for _, g := range groups {
		minSize = min(minSize, len(g))
		maxSize = max(maxSize, len(g))
	}
	if maxSize-minSize > 1 {
		t.Errorf("groups unbalanced: sizes spread %d..%d", minSize, maxSize)
	}
}

func TestSeedFromString(t *testing.T) {
	if SeedFromString("offsite") != SeedFromString("offsite") {
		t.Error("SeedFromString should be stable")
	}
	if SeedFromString("offsite") == SeedFromString("offsite-2") {
		t.Error("different strings should produce different seeds")
	}
	if got := NewPickerFromString("offsite").Seed(); got != SeedFromString("offsite") {
		t.Errorf("Seed() = %d, want %d", got, SeedFromString("offsite"))
	}
}

func TestLowest(t *testing.T) {
	tests := []struct {
		name   string
		groups [][]string
		want   int
	}{
		{"all empty", [][]string{{}, {}}, 0},
		{"second smaller", [][]string{{"a"}, {}}, 1},
		{"tie after growth", [][]string{{"a"}, {"b"}, {"c", "d"}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lowest{}.Choose(tt.groups)
			if err != nil {
				t.Fatalf("Choose() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Choose() = %d, want %d", got, tt.want)
			}
		})
	}

	if _, err := (Lowest{}).Choose(nil); !errors.Is(err, errors.ErrInvalidConfiguration) {
		t.Errorf("Choose(nil) error = %v, want ErrInvalidConfiguration", err)
	}
}
