package deb

import (
	"testing"

	"github.com/greenbone/notus-scanner-go/model"
)

func TestFromFullNameRoundTrip(t *testing.T) {
	names := []string{
		"gitlab-ce-15.11.1",
		"gitlab-ce-15.11.1-2",
		"python3-pip-20.0.2-5ubuntu1.6",
		"openssl-1.1.1f-1ubuntu2.19",
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

func TestFromFullNameSplitsMultiWordName(t *testing.T) {
	p, ok := FromFullName("gitlab-ce-15.11.1")
	if !ok {
		t.Fatal("FromFullName failed")
	}
	if p.Name() != "gitlab-ce" {
		t.Errorf("Name() = %q, want %q", p.Name(), "gitlab-ce")
	}
	if p.FullVersion() != "15.11.1" {
		t.Errorf("FullVersion() = %q, want %q", p.FullVersion(), "15.11.1")
	}
}

func TestFromNameAndFullVersionEquivalence(t *testing.T) {
	full := "python3-pip-20.0.2-5ubuntu1.6"
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

func TestFromNameAndFullVersionWithEpoch(t *testing.T) {
	p, ok := FromNameAndFullVersion("curl", "2:7.68.0-1ubuntu2.18")
	if !ok {
		t.Fatal("FromNameAndFullVersion failed")
	}
	if p.FullVersion() != "2:7.68.0-1ubuntu2.18" {
		t.Errorf("FullVersion() = %q, want epoch preserved", p.FullVersion())
	}
}

func TestFullVersionOmitsDefaultEpoch(t *testing.T) {
	p, ok := FromNameAndFullVersion("curl", "0:7.68.0-1ubuntu2.18")
	if !ok {
		t.Fatal("FromNameAndFullVersion failed")
	}
	if p.FullVersion() != "7.68.0-1ubuntu2.18" {
		t.Errorf("FullVersion() = %q, want 0: epoch omitted", p.FullVersion())
	}
}

// S4: gitlab-ce installed at 15.11.1 satisfies both ">=15.11.1" and
// "<=15.11.1"; installed at 15.10.1 fails the "<=15.11.1" constraint.
func TestCompareS4RangeAdvisory(t *testing.T) {
	installedAt, _ := FromNameAndFullVersion("gitlab-ce", "15.11.1")
	fixedAt, _ := FromNameAndFullVersion("gitlab-ce", "15.11.1")
	if got := fixedAt.Compare(installedAt); got != model.Equal {
		t.Errorf("fixedAt.Compare(installedAt) = %v, want EQUAL", got)
	}

	installedBehind, _ := FromNameAndFullVersion("gitlab-ce", "15.10.1")
	if got := fixedAt.Compare(installedBehind); got != model.ANewer {
		t.Errorf("fixedAt.Compare(installedBehind) = %v, want A_NEWER", got)
	}
}

func TestCompareCrossNameIncomparable(t *testing.T) {
	a, _ := FromFullName("gitlab-ce-15.11.1")
	b, _ := FromFullName("gitlab-ee-15.11.1")
	if got := a.Compare(b); got != model.NotComparable {
		t.Errorf("got %v, want NOT_COMPARABLE", got)
	}
}

func TestCompareEpochDominates(t *testing.T) {
	a, _ := FromNameAndFullVersion("curl", "1:7.68.0-1")
	b, _ := FromNameAndFullVersion("curl", "2:1.0.0-1")
	if got := a.Compare(b); got != model.BNewer {
		t.Errorf("a.Compare(b) = %v, want B_NEWER (lower epoch is older)", got)
	}
}

func TestFromFullNameRejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "nodashesatall", "name-notaversion"} {
		if _, ok := FromFullName(s); ok {
			t.Errorf("FromFullName(%q) unexpectedly succeeded", s)
		}
	}
}
