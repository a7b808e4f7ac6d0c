package windows

import (
	"testing"

	"github.com/greenbone/notus-scanner-go/model"
)

func TestFromFullNameRoundTrip(t *testing.T) {
	names := []string{
		"Windows Server 2019;10.0.17763",
		"Microsoft Edge;120.0.2210",
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
	full := "Windows Server 2019;10.0.17763"
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

func TestCompareBuildBump(t *testing.T) {
	a, _ := FromFullName("Windows Server 2019;10.0.17763")
	b, _ := FromFullName("Windows Server 2019;10.0.20348")
	if got := b.Compare(a); got != model.ANewer {
		t.Errorf("b.Compare(a) = %v, want A_NEWER", got)
	}
}

func TestCompareCrossPrefixIncomparable(t *testing.T) {
	a, _ := FromFullName("Windows Server 2019;10.0.17763")
	b, _ := FromFullName("Windows Server 2019;6.3.17763")
	if got := a.Compare(b); got != model.NotComparable {
		t.Errorf("got %v, want NOT_COMPARABLE", got)
	}
}

func TestRejectsUnlabeledForm(t *testing.T) {
	for _, s := range []string{"", "10.0.17763", "no-semicolon-here"} {
		if _, ok := FromFullName(s); ok {
			t.Errorf("FromFullName(%q) unexpectedly succeeded for unlabeled form", s)
		}
	}
}
