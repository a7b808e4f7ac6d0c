// Package packages provides the PackageType-to-ecosystem dispatch used by
// the advisory loader and scan driver (spec §4.6, §4.7).
//
// The original's loader picked a concrete package class with
// `DEBPackage if PackageType.DEB else RPMPackage`, which tests the enum
// member itself (always truthy) and so picked DEB for every ecosystem. This
// registry
// replaces that with an explicit, total switch (spec §9).
package packages

import (
	"github.com/greenbone/notus-scanner-go/deb"
	"github.com/greenbone/notus-scanner-go/ebuild"
	"github.com/greenbone/notus-scanner-go/model"
	"github.com/greenbone/notus-scanner-go/rpm"
	"github.com/greenbone/notus-scanner-go/slackware"
	"github.com/greenbone/notus-scanner-go/windows"
)

// FromFullName parses fullName using the variant registered for pt. ok is
// false both when pt is unknown and when the variant itself rejects
// fullName.
func FromFullName(pt model.PackageType, fullName string) (model.Package, bool) {
	switch pt {
	case model.RPM:
		return asPackage(rpm.FromFullName(fullName))
	case model.DEB:
		return asPackage(deb.FromFullName(fullName))
	case model.Ebuild:
		return asPackage(ebuild.FromFullName(fullName))
	case model.Slack:
		return asPackage(slackware.FromFullName(fullName))
	case model.Windows:
		return asPackage(windows.FromFullName(fullName))
	default:
		return nil, false
	}
}

// FromNameAndFullVersion parses name and fullVersion using the variant
// registered for pt.
func FromNameAndFullVersion(pt model.PackageType, name, fullVersion string) (model.Package, bool) {
	switch pt {
	case model.RPM:
		return asPackage(rpm.FromNameAndFullVersion(name, fullVersion))
	case model.DEB:
		return asPackage(deb.FromNameAndFullVersion(name, fullVersion))
	case model.Ebuild:
		return asPackage(ebuild.FromNameAndFullVersion(name, fullVersion))
	case model.Slack:
		return asPackage(slackware.FromNameAndFullVersion(name, fullVersion))
	case model.Windows:
		return asPackage(windows.FromNameAndFullVersion(name, fullVersion))
	default:
		return nil, false
	}
}

// Known reports whether pt has a registered variant.
func Known(pt model.PackageType) bool {
	switch pt {
	case model.RPM, model.DEB, model.Ebuild, model.Slack, model.Windows:
		return true
	default:
		return false
	}
}

func asPackage[P model.Package](p P, ok bool) (model.Package, bool) {
	if !ok {
		return nil, false
	}
	return p, true
}
