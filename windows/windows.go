// Package windows implements the Windows/MSP package variant (spec §4.2):
// parsing of "<Display Name>;<PREFIX>.<BUILD>" strings and build
// comparison.
//
// Only this labeled dialect is implemented. An older, unlabeled
// "PREFIX.BUILD" form existed in earlier revisions of the original but
// carried no display name to key advisories on; per spec §9's design
// notes, that form is rejected rather than supported.
package windows

import (
	"strings"

	"github.com/greenbone/notus-scanner-go/model"
	"github.com/greenbone/notus-scanner-go/version"
)

// Package is a Windows package: "<Display Name>;<PREFIX>.<BUILD>".
type Package struct {
	name        string
	fullName    string
	fullVersion string
	prefix      string
	build       string
}

var _ model.Package = Package{}

func (p Package) Type() model.PackageType { return model.Windows }
func (p Package) Name() string            { return p.name }
func (p Package) FullName() string        { return p.fullName }
func (p Package) FullVersion() string     { return p.fullVersion }

// Compare implements model.Package: name and prefix must match, then build
// decides.
func (p Package) Compare(other model.Package) model.Comparison {
	o, ok := other.(Package)
	if !ok {
		return model.NotComparable
	}
	if p.name != o.name || p.prefix != o.prefix {
		return model.NotComparable
	}
	return fromVersionComparison(version.Compare(p.build, o.build))
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

// splitPrefixBuild splits "PREFIX.BUILD" at the last '.'.
func splitPrefixBuild(fullVersion string) (prefix, build string, ok bool) {
	i := strings.LastIndexByte(fullVersion, '.')
	if i < 0 {
		return "", "", false
	}
	prefix, build = fullVersion[:i], fullVersion[i+1:]
	if prefix == "" || build == "" {
		return "", "", false
	}
	return prefix, build, true
}

// FromFullName parses "<Display Name>;<PREFIX>.<BUILD>".
func FromFullName(fullName string) (Package, bool) {
	s := strings.Trim(fullName, " \t\r\n")
	if s == "" {
		return Package{}, false
	}
	i := strings.IndexByte(s, ';')
	if i < 0 {
		return Package{}, false
	}
	name := s[:i]
	fullVersion := s[i+1:]
	prefix, build, ok := splitPrefixBuild(fullVersion)
	if !ok {
		return Package{}, false
	}
	return Package{
		name:        name,
		fullName:    s,
		fullVersion: fullVersion,
		prefix:      prefix,
		build:       build,
	}, true
}

// FromNameAndFullVersion parses a display name plus a "PREFIX.BUILD"
// full-version string.
func FromNameAndFullVersion(name, fullVersion string) (Package, bool) {
	name = strings.Trim(name, " \t\r\n")
	fullVersion = strings.Trim(fullVersion, " \t\r\n")
	if name == "" || fullVersion == "" {
		return Package{}, false
	}
	prefix, build, ok := splitPrefixBuild(fullVersion)
	if !ok {
		return Package{}, false
	}
	return Package{
		name:        name,
		fullName:    name + ";" + fullVersion,
		fullVersion: fullVersion,
		prefix:      prefix,
		build:       build,
	}, true
}
