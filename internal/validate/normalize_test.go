package validate

import "testing"

func defaultNormalizer() *Normalizer {
	return NewNormalizer([]string{"the", "a", "in", "та", "у", "на"})
}

func TestNormalize(t *testing.T) {
	n := defaultNormalizer()
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase", "Urban Planning FORUM", "urban planning forum"},
		{"diacritics folded", "Café Résumé", "cafe resume"},
		{"punctuation stripped", "recovery, housing: forum!", "recovery housing forum"},
		{"stop words removed", "the forum in a city", "forum city"},
		{"ukrainian stop words", "форум у Києві на тему", "форум києві тему"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := n.Normalize(tc.in); got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestTitleSimilarity(t *testing.T) {
	n := defaultNormalizer()
	cases := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "Urban Recovery Forum", "Urban Recovery Forum", 1},
		{"reordered", "Recovery Urban Forum", "Urban Recovery Forum", 1},
		{"case and accents", "URBAN recovery fórum", "urban recovery forum", 1},
		{"disjoint", "Housing Policy Seminar", "Biotech Expo Vienna", 0},
		{"short title guard", "Готель", "Готель", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := n.TitleSimilarity(tc.a, tc.b); got != tc.want {
				t.Errorf("TitleSimilarity(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}

	// Partial overlap lands strictly between 0 and 1.
	sim := n.TitleSimilarity("Urban Recovery Forum Kyiv", "Urban Recovery Workshop Lviv")
	if sim <= 0 || sim >= 1 {
		t.Errorf("partial overlap similarity = %v, want in (0,1)", sim)
	}
}

func TestOverlapCount(t *testing.T) {
	n := defaultNormalizer()

	got := overlapCount(n, "Urban Recovery Forum", "join the annual urban recovery forum in kyiv")
	if got != 3 {
		t.Errorf("overlapCount = %d, want 3", got)
	}

	// Words of 4 runes or fewer never count.
	if got := overlapCount(n, "Kyiv city expo", "kyiv city expo"); got != 0 {
		t.Errorf("short words counted: %d", got)
	}

	// Substring hits inside longer words do not count.
	if got := overlapCount(n, "Urban forum", "suburban conference"); got != 0 {
		t.Errorf("substring matched as word: %d", got)
	}
}
