// Package rpm implements the RPM package variant (spec §4.2): parsing of
// NAME-[EPOCH:]VERSION-RELEASE.ARCH strings and EVR-plus-arch comparison.
//
// The string-splitting parse strategy (walk back from the end on '.' then
// '-', rather than a single monolithic regexp) is adapted from the
// teacher's internal/rpmver package, which parses the same NEVRA shape for
// RPM header signature handling.
package rpm

import (
	"strconv"
	"strings"

	"github.com/greenbone/notus-scanner-go/model"
	"github.com/greenbone/notus-scanner-go/version"
)

// Package is an RPM package: NAME-[EPOCH:]VERSION-RELEASE.ARCH.
type Package struct {
	name     string
	fullName string
	epoch    string
	ver      string
	release  string
	arch     string
}

var _ model.Package = Package{}

func (p Package) Type() model.PackageType { return model.RPM }
func (p Package) Name() string            { return p.name }
func (p Package) FullName() string        { return p.fullName }

// FullVersion renders "[EPOCH:]VERSION-RELEASE.ARCH", omitting the epoch
// prefix when it's the default "0".
func (p Package) FullVersion() string {
	var b strings.Builder
	if p.epoch != "0" {
		b.WriteString(p.epoch)
		b.WriteByte(':')
	}
	b.WriteString(p.ver)
	b.WriteByte('-')
	b.WriteString(p.release)
	b.WriteByte('.')
	b.WriteString(p.arch)
	return b.String()
}

// hasFipsOrKsplice reports whether s carries an "_fips" or ".ksplice"
// marker, which makes a package NOT_COMPARABLE against one that doesn't
// (spec §3).
func hasFipsOrKsplice(s string) bool {
	return strings.Contains(s, "_fips") || strings.Contains(s, ".ksplice")
}

// Compare implements model.Package.
func (p Package) Compare(other model.Package) model.Comparison {
	o, ok := other.(Package)
	if !ok {
		return model.NotComparable
	}
	if p.name != o.name || p.arch != o.arch {
		return model.NotComparable
	}
	if hasFipsOrKsplice(p.fullName) != hasFipsOrKsplice(o.fullName) {
		return model.NotComparable
	}

	if c := compareEpoch(p.epoch, o.epoch); c != model.Equal {
		return c
	}
	if c := fromVersionComparison(version.Compare(p.ver, o.ver)); c != model.Equal {
		return c
	}
	return fromVersionComparison(version.Compare(p.release, o.release))
}

func compareEpoch(a, b string) model.Comparison {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	if aerr != nil {
		ai = 0
	}
	if berr != nil {
		bi = 0
	}
	switch {
	case ai == bi:
		return model.Equal
	case ai > bi:
		return model.ANewer
	default:
		return model.BNewer
	}
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

// FromFullName parses "NAME-[EPOCH:]VERSION-RELEASE.ARCH". It returns
// ok=false (and logs nothing itself; the caller is responsible, per spec
// §4.2) when the string doesn't have the minimum NAME-VERSION-RELEASE.ARCH
// shape.
func FromFullName(fullName string) (Package, bool) {
	s := strings.Trim(fullName, " \t\r\n")
	if s == "" {
		return Package{}, false
	}

	dot := strings.LastIndexByte(s, '.')
	if dot < 0 {
		return Package{}, false
	}
	arch := s[dot+1:]
	rest := s[:dot]

	dash := strings.LastIndexByte(rest, '-')
	if dash < 0 {
		return Package{}, false
	}
	release := rest[dash+1:]
	rest = rest[:dash]

	dash = strings.LastIndexByte(rest, '-')
	if dash < 0 {
		return Package{}, false
	}
	name := rest[:dash]
	verPart := rest[dash+1:]
	if name == "" || verPart == "" || release == "" || arch == "" {
		return Package{}, false
	}

	epoch, ver := "0", verPart
	if i := strings.IndexByte(verPart, ':'); i >= 0 {
		if verPart[:i] != "" {
			epoch = verPart[:i]
		}
		ver = verPart[i+1:]
	}

	return Package{
		name:     name,
		fullName: s,
		epoch:    epoch,
		ver:      ver,
		release:  release,
		arch:     arch,
	}, true
}

// FromNameAndFullVersion parses name plus a "[EPOCH:]VERSION-RELEASE.ARCH"
// full-version string (spec §4.2, §4.6).
func FromNameAndFullVersion(name, fullVersion string) (Package, bool) {
	name = strings.Trim(name, " \t\r\n")
	fullVersion = strings.Trim(fullVersion, " \t\r\n")
	if name == "" || fullVersion == "" {
		return Package{}, false
	}
	return FromFullName(name + "-" + fullVersion)
}
