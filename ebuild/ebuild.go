// Package ebuild implements the Gentoo ebuild package variant (spec §4.2):
// parsing of CATEGORY/NAME-VERSION[-rREVISION] strings and version/revision
// comparison. Two packages compare only when CATEGORY/NAME match exactly;
// "apache" and "www-servers/apache" are different packages, not a category
// fragment to strip (grounded on the original's test_ebuild.py, which
// checks exactly this case).
package ebuild

import (
	"strings"

	"github.com/greenbone/notus-scanner-go/model"
	"github.com/greenbone/notus-scanner-go/version"
)

// Package is a Gentoo ebuild package: CATEGORY/NAME-VERSION[-rREVISION].
type Package struct {
	name     string // "CATEGORY/NAME"
	fullName string
	ver      string
	revision string // digits only, without the "r" prefix; "" if absent
}

var _ model.Package = Package{}

func (p Package) Type() model.PackageType { return model.Ebuild }
func (p Package) Name() string            { return p.name }
func (p Package) FullName() string        { return p.fullName }

// FullVersion renders "VERSION[-rREVISION]".
func (p Package) FullVersion() string {
	if p.revision == "" {
		return p.ver
	}
	return p.ver + "-r" + p.revision
}

// Compare implements model.Package: CATEGORY/NAME must match exactly, then
// version and revision decide.
func (p Package) Compare(other model.Package) model.Comparison {
	o, ok := other.(Package)
	if !ok {
		return model.NotComparable
	}
	if p.name != o.name {
		return model.NotComparable
	}
	if c := fromVersionComparison(version.Compare(p.ver, o.ver)); c != model.Equal {
		return c
	}
	return fromVersionComparison(version.Compare(revisionOrZero(p.revision), revisionOrZero(o.revision)))
}

func revisionOrZero(r string) string {
	if r == "" {
		return "0"
	}
	return r
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

// looksLikeVersionStart reports whether s could open a VERSION segment: it
// must start with a digit.
func looksLikeVersionStart(s string) bool {
	return len(s) > 0 && s[0] >= '0' && s[0] <= '9'
}

// parseVersion splits "VERSION[-rREVISION]" into its parts.
func parseVersion(s string) (ver, revision string, ok bool) {
	if s == "" || !looksLikeVersionStart(s) {
		return "", "", false
	}
	if i := strings.LastIndexByte(s, '-'); i >= 0 && len(s[i+1:]) > 1 && s[i+1] == 'r' && isAllDigits(s[i+2:]) {
		return s[:i], s[i+2:], true
	}
	return s, "", true
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

// FromFullName parses "CATEGORY/NAME-VERSION[-rREVISION]".
func FromFullName(fullName string) (Package, bool) {
	s := strings.Trim(fullName, " \t\r\n")
	if s == "" {
		return Package{}, false
	}
	slash := strings.IndexByte(s, '/')
	if slash < 0 {
		return Package{}, false
	}
	category := s[:slash]
	rest := s[slash+1:]
	if category == "" || rest == "" {
		return Package{}, false
	}

	for i := 0; i < len(rest); i++ {
		if rest[i] != '-' {
			continue
		}
		candidate := rest[i+1:]
		if !looksLikeVersionStart(candidate) {
			continue
		}
		name := rest[:i]
		if name == "" {
			continue
		}
		ver, revision, ok := parseVersion(candidate)
		if !ok {
			continue
		}
		return Package{
			name:     category + "/" + name,
			fullName: s,
			ver:      ver,
			revision: revision,
		}, true
	}
	return Package{}, false
}

// FromNameAndFullVersion parses a "CATEGORY/NAME" name plus a
// "VERSION[-rREVISION]" full-version string.
func FromNameAndFullVersion(name, fullVersion string) (Package, bool) {
	name = strings.Trim(name, " \t\r\n")
	fullVersion = strings.Trim(fullVersion, " \t\r\n")
	if name == "" || fullVersion == "" {
		return Package{}, false
	}
	ver, revision, ok := parseVersion(fullVersion)
	if !ok {
		return Package{}, false
	}
	return Package{
		name:     name,
		fullName: name + "-" + fullVersion,
		ver:      ver,
		revision: revision,
	}, true
}
