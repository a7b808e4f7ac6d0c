package version

import "testing"

func TestCompare(t *testing.T) {
	tt := []struct {
		name string
		a, b string
		want Comparison
	}{
		{"identical", "1.2.3", "1.2.3", Equal},
		{"tilde pre-release", "1.2.3~rc0", "1.2.3", BNewer},
		{"shorter is older", "1.2", "1.2.3", BNewer},
		{"alpha tail ordering", "1.1.1c", "1.1.1k", BNewer},
		{"ubuntu suffix vs tilde", "20211016~20.04.1", "20211016ubuntu0.20.04.1", BNewer},
		{"reverse is mirrored", "1.2.3", "1.2.3~rc0", ANewer},
		{"trailing letter is newer", "1.0", "1.0a", BNewer},
		{"leading zero insensitive", "1.01", "1.1", Equal},
		{"longer digit run wins", "1.9", "1.10", BNewer},
		{"rpm patch bump", "6.6.1p1-25.4.h3", "6.6.1p1-25.4.h4", BNewer},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			if got := Compare(tc.a, tc.b); got != tc.want {
				t.Errorf("Compare(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestCompareSymmetry(t *testing.T) {
	pairs := [][2]string{
		{"1.2.3~rc0", "1.2.3"},
		{"1.1.1c", "1.1.1k"},
		{"20211016~20.04.1", "20211016ubuntu0.20.04.1"},
		{"1.2", "1.2.3"},
	}
	invert := func(c Comparison) Comparison {
		switch c {
		case ANewer:
			return BNewer
		case BNewer:
			return ANewer
		default:
			return Equal
		}
	}
	for _, p := range pairs {
		fwd := Compare(p[0], p[1])
		rev := Compare(p[1], p[0])
		if invert(fwd) != rev {
			t.Errorf("Compare(%q,%q)=%v but Compare(%q,%q)=%v, not mirrored", p[0], p[1], fwd, p[1], p[0], rev)
		}
	}
}
