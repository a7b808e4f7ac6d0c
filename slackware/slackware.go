// Package slackware implements the Slackware package variant (spec §4.2):
// parsing of NAME-VERSION-ARCH-BUILD[_slackTARGET] strings and
// version/target/build comparison.
//
// The "_slack" suffix marker (appended directly to BUILD with no
// separating dash) and the version/target/build comparison order are
// grounded on the original's ihiji/version_utils-derived slackware.py.
package slackware

import (
	"strings"

	"github.com/greenbone/notus-scanner-go/model"
	"github.com/greenbone/notus-scanner-go/version"
)

const slackMarker = "_slack"

// Package is a Slackware package: NAME-VERSION-ARCH-BUILD[_slackTARGET].
type Package struct {
	name     string
	fullName string
	ver      string
	arch     string
	build    string
	target   string
}

var _ model.Package = Package{}

func (p Package) Type() model.PackageType { return model.Slack }
func (p Package) Name() string            { return p.name }
func (p Package) FullName() string        { return p.fullName }

// FullVersion renders "VERSION-ARCH-BUILD[_slackTARGET]".
func (p Package) FullVersion() string {
	var b strings.Builder
	b.WriteString(p.ver)
	b.WriteByte('-')
	b.WriteString(p.arch)
	b.WriteByte('-')
	b.WriteString(p.build)
	if p.target != "" {
		b.WriteString(slackMarker)
		b.WriteString(p.target)
	}
	return b.String()
}

// Compare implements model.Package: name and arch must match, then version,
// target (only when both sides carry one), and build decide, in that order.
func (p Package) Compare(other model.Package) model.Comparison {
	o, ok := other.(Package)
	if !ok {
		return model.NotComparable
	}
	if p.name != o.name || p.arch != o.arch {
		return model.NotComparable
	}
	if c := fromVersionComparison(version.Compare(p.ver, o.ver)); c != model.Equal {
		return c
	}
	if p.target != "" && o.target != "" {
		if c := fromVersionComparison(version.Compare(p.target, o.target)); c != model.Equal {
			return c
		}
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

// parse splits "NAME-VERSION-ARCH-BUILD[_slackTARGET]" into its parts.
func parse(s string) (name, ver, arch, build, target string, ok bool) {
	if idx := strings.Index(s, slackMarker); idx >= 0 {
		target = s[idx+len(slackMarker):]
		s = s[:idx]
	}

	i := strings.LastIndexByte(s, '-')
	if i < 0 {
		return "", "", "", "", "", false
	}
	build = s[i+1:]
	s = s[:i]

	i = strings.LastIndexByte(s, '-')
	if i < 0 {
		return "", "", "", "", "", false
	}
	arch = s[i+1:]
	s = s[:i]

	i = strings.LastIndexByte(s, '-')
	if i < 0 {
		return "", "", "", "", "", false
	}
	ver = s[i+1:]
	name = s[:i]

	if name == "" || ver == "" || arch == "" || build == "" {
		return "", "", "", "", "", false
	}
	return name, ver, arch, build, target, true
}

// FromFullName parses "NAME-VERSION-ARCH-BUILD[_slackTARGET]".
func FromFullName(fullName string) (Package, bool) {
	s := strings.Trim(fullName, " \t\r\n")
	if s == "" {
		return Package{}, false
	}
	name, ver, arch, build, target, ok := parse(s)
	if !ok {
		return Package{}, false
	}
	return Package{
		name:     name,
		fullName: s,
		ver:      ver,
		arch:     arch,
		build:    build,
		target:   target,
	}, true
}

// FromNameAndFullVersion parses name plus a
// "VERSION-ARCH-BUILD[_slackTARGET]" full-version string.
func FromNameAndFullVersion(name, fullVersion string) (Package, bool) {
	name = strings.Trim(name, " \t\r\n")
	fullVersion = strings.Trim(fullVersion, " \t\r\n")
	if name == "" || fullVersion == "" {
		return Package{}, false
	}
	return FromFullName(name + "-" + fullVersion)
}
