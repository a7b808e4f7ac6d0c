package rpm

import (
	"testing"

	"github.com/greenbone/notus-scanner-go/model"
)

func TestFromFullNameRoundTrip(t *testing.T) {
	names := []string{
		"openssh-6.6.1p1-25.4.h3.x86_64",
		"openssh-clients-6.6.1p1-25.4.h4.x86_64",
		"gnutls-3.6.16-4.el8.x86_64",
		"gnutls-3.6.16-4.0.1.el8_fips.x86_64",
		"bash-4.2.46-34.el7.x86_64",
	}
	for _, n := range names {
		p, ok := FromFullName(n)
		if !ok {
			t.Fatalf("FromFullName(%q) failed to parse", n)
		}
		if p.FullName() != n {
			t.Errorf("FromFullName(%q).FullName() = %q, want round-trip", n, p.FullName())
		}
	}
}

func TestFromNameAndFullVersionEquivalence(t *testing.T) {
	full := "openssh-clients-6.6.1p1-25.4.h3.x86_64"
	a, ok := FromFullName(full)
	if !ok {
		t.Fatal("FromFullName failed")
	}
	b, ok := FromNameAndFullVersion(a.Name(), a.FullVersion())
	if !ok {
		t.Fatal("FromNameAndFullVersion failed")
	}
	if a.Compare(b) != model.Equal {
		t.Errorf("expected equivalent packages, got comparison %v", a.Compare(b))
	}
}

func TestCompareS1(t *testing.T) {
	a, _ := FromFullName("openssh-6.6.1p1-25.4.h3.x86_64")
	b, _ := FromFullName("openssh-6.6.1p1-25.4.h4.x86_64")
	if got := b.Compare(a); got != model.ANewer {
		t.Errorf("b.Compare(a) = %v, want A_NEWER", got)
	}
	if got := a.Compare(b); got != model.BNewer {
		t.Errorf("a.Compare(b) = %v, want B_NEWER", got)
	}
	if a.Compare(b) == model.Equal {
		t.Error("a and b must not compare equal")
	}
}

func TestCompareS2Incomparable(t *testing.T) {
	a, _ := FromFullName("gnutls-3.6.16-4.el8.x86_64")
	b, _ := FromFullName("gnutls-3.6.16-4.0.1.el8_fips.x86_64")
	if got := a.Compare(b); got != model.NotComparable {
		t.Errorf("a.Compare(b) = %v, want NOT_COMPARABLE", got)
	}
}

func TestCompareCrossArchIncomparable(t *testing.T) {
	a, _ := FromFullName("openssh-6.6.1p1-25.4.h3.x86_64")
	b, _ := FromFullName("openssh-6.6.1p1-25.4.h3.i686")
	if got := a.Compare(b); got != model.NotComparable {
		t.Errorf("got %v, want NOT_COMPARABLE", got)
	}
}

func TestCompareCrossNameIncomparable(t *testing.T) {
	a, _ := FromFullName("openssh-6.6.1p1-25.4.h3.x86_64")
	b, _ := FromFullName("openssh-clients-6.6.1p1-25.4.h3.x86_64")
	if got := a.Compare(b); got != model.NotComparable {
		t.Errorf("got %v, want NOT_COMPARABLE", got)
	}
}

func TestFromFullNameRejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "nodashesatall", "name-version"} {
		if _, ok := FromFullName(s); ok {
			t.Errorf("FromFullName(%q) unexpectedly succeeded", s)
		}
	}
}
