// Package model holds the polymorphic package model (spec §3, §4.2) and the
// in-memory advisory store (spec §4.4) shared by every package-ecosystem
// variant.
//
// Individual ecosystems (RPM, DEB, Slackware, ebuild, Windows/MSP) live in
// their own packages and implement the Package interface defined here,
// following the teacher's one-package-per-ecosystem layout (see the
// now-removed rpm/ and dpkg/ directories this was adapted from).
package model

// PackageType identifies which ecosystem a Package, and the advisories
// indexed against it, belong to. The string values match the JSON
// "package_type" tag in an advisory file (spec §4.6).
type PackageType string

const (
	RPM     PackageType = "rpm"
	DEB     PackageType = "deb"
	Ebuild  PackageType = "ebuild"
	Slack   PackageType = "slack"
	Windows PackageType = "msp"
)

// Comparison is the tagged result of comparing two packages.
type Comparison int

const (
	Equal Comparison = iota
	ANewer
	BNewer
	NotComparable
)

// String implements fmt.Stringer.
func (c Comparison) String() string {
	switch c {
	case Equal:
		return "EQUAL"
	case ANewer:
		return "A_NEWER"
	case BNewer:
		return "B_NEWER"
	case NotComparable:
		return "NOT_COMPARABLE"
	default:
		return "UNKNOWN"
	}
}

// Package is implemented by every ecosystem-specific package type. A
// Package is produced by parsing and is immutable thereafter.
//
// Two packages compare only when they report the same PackageType and the
// implementation's own notion of "same identity" (name, and architecture
// where applicable) matches; otherwise Compare returns NotComparable. This
// is why Compare takes a Package interface rather than being a generic
// function: each ecosystem owns its own compatibility rule (spec §3's
// invariant).
type Package interface {
	// Type reports the owning ecosystem.
	Type() PackageType
	// Name is the package identifier within the ecosystem, used as the
	// advisory-store index key.
	Name() string
	// FullName is the canonical printable form; parsing it back must
	// reproduce an equal Package (spec §8 property 1).
	FullName() string
	// FullVersion is the printable version portion.
	FullVersion() string
	// Compare reports how the receiver relates to other. Comparing across
	// variants (different concrete Go type) must also report
	// NotComparable, never panic: a Package only ever receives another
	// Package of its own ecosystem in practice (the scan driver parses
	// every installed entry with a single variant, see spec §4.7), but the
	// interface contract stays total.
	Compare(other Package) Comparison
}

// Symbol is a comparison operator attached to a fixed-package advisory
// constraint (spec §3 PackageAdvisory, §4.3).
type Symbol string

const (
	GT Symbol = ">"
	GE Symbol = ">="
	EQ Symbol = "="
	LT Symbol = "<"
	LE Symbol = "<="
)

// Normalize maps an unknown or empty symbol to the default ">=", per
// spec §4.3 step 3.
func (s Symbol) Normalize() Symbol {
	switch s {
	case GT, GE, EQ, LT, LE:
		return s
	default:
		return GE
	}
}

// PackageAdvisory is the triple {package, oid, symbol} from spec §3. The
// "package" field holds the declared fixed package for the constraint.
// Equality is over {Package, OID, Symbol} alone, which holds automatically
// here since IsVulnerable is a method, not a stored field — unlike the
// Python original's closure-capturing dataclass, there's nothing to
// exclude from a derived hash/equality.
type PackageAdvisory struct {
	Package Package
	OID     string
	Symbol  Symbol
}

// IsVulnerable implements the predicate from spec §4.3: installed is
// vulnerable under this constraint exactly when "fixed SYMBOL installed"
// holds, symbol taken at face value (">=" true for equal or newer fixed,
// and so on). ok is false when the fixed package and installed package are
// NotComparable, in which case the pair must be silently skipped by the
// caller; vulnerable is only meaningful when ok is true.
func (pa PackageAdvisory) IsVulnerable(installed Package) (vulnerable, ok bool) {
	c := pa.Package.Compare(installed)
	if c == NotComparable {
		return false, false
	}
	switch pa.Symbol.Normalize() {
	case GE:
		return c == ANewer || c == Equal, true
	case GT:
		return c == ANewer, true
	case EQ:
		return c == Equal, true
	case LE:
		return c == BNewer || c == Equal, true
	case LT:
		return c == BNewer, true
	default:
		// Unreachable: Normalize always returns one of the above.
		return c == ANewer || c == Equal, true
	}
}
