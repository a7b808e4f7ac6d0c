// Package deb implements the DEB package variant (spec §4.2): parsing of
// NAME-[EPOCH:]UPSTREAM[-DEBIAN_REVISION] strings and epoch/upstream/
// revision comparison.
//
// The version-start heuristic (the first dash followed by something that
// looks like an epoch-or-digit) mirrors real dpkg version syntax, where a
// debian_revision may never itself contain a hyphen — unlike the Python
// original's ambiguous greedy regex (see DESIGN.md), this gives an
// unambiguous split for multi-word package names such as "gitlab-ce".
package deb

import (
	"strings"

	"github.com/greenbone/notus-scanner-go/model"
	"github.com/greenbone/notus-scanner-go/version"
)

// Package is a DEB package: NAME-[EPOCH:]UPSTREAM[-REVISION].
type Package struct {
	name     string
	fullName string
	epoch    string
	upstream string
	revision string
}

var _ model.Package = Package{}

func (p Package) Type() model.PackageType { return model.DEB }
func (p Package) Name() string            { return p.name }
func (p Package) FullName() string        { return p.fullName }

// FullVersion renders "[EPOCH:]UPSTREAM[-REVISION]", omitting the epoch
// prefix when it's the default "0" (spec §4.2).
func (p Package) FullVersion() string {
	var b strings.Builder
	if p.epoch != "0" {
		b.WriteString(p.epoch)
		b.WriteByte(':')
	}
	b.WriteString(p.upstream)
	if p.revision != "" {
		b.WriteByte('-')
		b.WriteString(p.revision)
	}
	return b.String()
}

// Compare implements model.Package.
func (p Package) Compare(other model.Package) model.Comparison {
	o, ok := other.(Package)
	if !ok {
		return model.NotComparable
	}
	if p.name != o.name {
		return model.NotComparable
	}
	if c := compareEpoch(p.epoch, o.epoch); c != model.Equal {
		return c
	}
	if c := fromVersionComparison(version.Compare(p.upstream, o.upstream)); c != model.Equal {
		return c
	}
	return fromVersionComparison(version.Compare(p.revision, o.revision))
}

// compareEpoch compares epochs lexicographically, numerically when both
// sides are numeric (spec §4.2).
func compareEpoch(a, b string) model.Comparison {
	if a == b {
		return model.Equal
	}
	if isAllDigits(a) && isAllDigits(b) {
		return fromVersionComparison(version.Compare(a, b))
	}
	if a < b {
		return model.BNewer
	}
	return model.ANewer
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func fromVersionComparison(c version.Comparison) model.Comparison {
	switch c {
	case version.Equal:
		return model.Equal
	case version.ANewer:
		return model.ANewer
	default:
		return model.BNewer
	}
}

// looksLikeVersionStart reports whether s could open a "[EPOCH:]UPSTREAM"
// segment: either an epoch (digits followed by ':' then a digit) or a bare
// upstream version (starting with a digit).
func looksLikeVersionStart(s string) bool {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i > 0 && i < len(s) && s[i] == ':' {
		return i+1 < len(s) && s[i+1] >= '0' && s[i+1] <= '9'
	}
	return len(s) > 0 && s[0] >= '0' && s[0] <= '9'
}

// parseVersion splits "[EPOCH:]UPSTREAM[-REVISION]" into its parts. The
// debian_revision, per real dpkg syntax, is whatever follows the last '-';
// everything before that '-' is the upstream_version, which may itself
// contain further '-' characters.
func parseVersion(s string) (epoch, upstream, revision string, ok bool) {
	if s == "" {
		return "", "", "", false
	}
	epoch = "0"
	rest := s
	if i := strings.IndexByte(s, ':'); i > 0 && isAllDigits(s[:i]) {
		epoch = s[:i]
		rest = s[i+1:]
	}
	if rest == "" {
		return "", "", "", false
	}
	if j := strings.LastIndexByte(rest, '-'); j >= 0 {
		upstream, revision = rest[:j], rest[j+1:]
	} else {
		upstream, revision = rest, ""
	}
	if upstream == "" {
		return "", "", "", false
	}
	return epoch, upstream, revision, true
}

// FromFullName parses "NAME-[EPOCH:]UPSTREAM[-REVISION]".
func FromFullName(fullName string) (Package, bool) {
	s := strings.Trim(fullName, " \t\r\n")
	if s == "" {
		return Package{}, false
	}

	for i := 0; i < len(s); i++ {
		if s[i] != '-' {
			continue
		}
		candidate := s[i+1:]
		if !looksLikeVersionStart(candidate) {
			continue
		}
		name := s[:i]
		if name == "" {
			continue
		}
		epoch, upstream, revision, ok := parseVersion(candidate)
		if !ok {
			continue
		}
		return Package{
			name:     name,
			fullName: s,
			epoch:    epoch,
			upstream: upstream,
			revision: revision,
		}, true
	}
	return Package{}, false
}

// FromNameAndFullVersion parses name plus a "[EPOCH:]UPSTREAM[-REVISION]"
// full-version string.
func FromNameAndFullVersion(name, fullVersion string) (Package, bool) {
	name = strings.Trim(name, " \t\r\n")
	fullVersion = strings.Trim(fullVersion, " \t\r\n")
	if name == "" || fullVersion == "" {
		return Package{}, false
	}
	epoch, upstream, revision, ok := parseVersion(fullVersion)
	if !ok {
		return Package{}, false
	}
	return Package{
		name:     name,
		fullName: name + "-" + fullVersion,
		epoch:    epoch,
		upstream: upstream,
		revision: revision,
	}, true
}
