// Package loader implements the per-OS advisory loader (spec §4.6): it
// turns an OS release string into a *.notus file under a products
// directory, verifies it, and parses it into a model.Store.
//
// The normalize/verify/size-guard/decode pipeline, including the exact
// "file absent is not an error" and "< 2 bytes is the empty sentinel"
// rules, is grounded on the original's loader/json.py.
package loader

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	notus "github.com/greenbone/notus-scanner-go"
	"github.com/greenbone/notus-scanner-go/model"
	"github.com/greenbone/notus-scanner-go/packages"
	"github.com/quay/zlog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/greenbone/notus-scanner-go/loader")

// verificationResult mirrors verify.VerificationResult's outcomes the
// loader distinguishes, without importing the verify package directly: the
// loader only needs a plain verify func, so any implementation (including a
// fake in tests) can supply one.
type verificationResult = int

const (
	resultSuccess     verificationResult = 0
	resultInvalidName verificationResult = 3
)

// Loader loads PackageAdvisories for an OS release out of a directory of
// *.notus files.
type Loader struct {
	AdvisoriesDirectory string
	Verify              func(path string) (verificationResult, error)
}

// fileName normalizes an OS release string into its advisory filename stem
// (spec §4.6): trim, lowercase, collapse whitespace runs into "_".
func fileName(osRelease string) string {
	trimmed := strings.TrimSpace(osRelease)
	fields := strings.Fields(trimmed)
	return strings.ToLower(strings.Join(fields, "_")) + ".notus"
}

type advisoryFile struct {
	PackageType string             `json:"package_type"`
	Advisories  []advisoryFileEntry `json:"advisories"`
}

type advisoryFileEntry struct {
	OID           string                  `json:"oid"`
	FixedPackages []fixedPackageFileEntry `json:"fixed_packages"`
}

type fixedPackageFileEntry struct {
	FullName    string `json:"full_name"`
	Name        string `json:"name"`
	FullVersion string `json:"full_version"`
	Specifier   string `json:"specifier"`
}

// Load returns the Store for osRelease, or (nil, nil) when no advisories are
// known for that OS (file absent, or present but empty — neither is an
// error; spec §4.6/§7). A non-nil error is always *notus.Error with
// KindAdvisoriesLoading.
func (l *Loader) Load(ctx context.Context, osRelease string) (*model.Store, error) {
	ctx, span := tracer.Start(ctx, "Load", trace.WithAttributes(attribute.String("os_release", osRelease)))
	defer span.End()

	path := filepath.Join(l.AdvisoriesDirectory, fileName(osRelease))

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		zlog.Warn(ctx).Str("path", path).Msg("advisory file does not exist")
		return nil, nil
	}
	if err != nil {
		span.RecordError(err)
		return nil, &notus.Error{Kind: notus.KindAdvisoriesLoading, Message: "statting advisory file", Op: "loader.Load", Inner: err}
	}

	result, err := l.Verify(path)
	if err != nil {
		span.RecordError(err)
		return nil, &notus.Error{Kind: notus.KindAdvisoriesLoading, Message: "verifying advisory file", Op: "loader.Load", Inner: err}
	}
	if result != resultSuccess {
		reason := "file verification failed"
		if result == resultInvalidName {
			reason = "OS name does not match filename"
		}
		return nil, &notus.Error{Kind: notus.KindAdvisoriesLoading, Message: "could not load advisories from " + path + ": " + reason, Op: "loader.Load"}
	}

	if info.Size() < 2 {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &notus.Error{Kind: notus.KindAdvisoriesLoading, Message: "reading advisory file", Op: "loader.Load", Inner: err}
	}

	var parsed advisoryFile
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, &notus.Error{Kind: notus.KindAdvisoriesLoading, Message: "could not load advisories from " + path + ": error decoding JSON data", Op: "loader.Load", Inner: err}
	}

	pt := model.PackageType(parsed.PackageType)
	if !packages.Known(pt) {
		zlog.Warn(ctx).Str("package_type", parsed.PackageType).Msg("invalid package type")
		return nil, nil
	}

	store := model.NewStore(pt)
	for _, adv := range parsed.Advisories {
		if adv.OID == "" {
			zlog.Error(ctx).Str("path", path).Msg("no OID found for JSON advisory")
			continue
		}
		for _, fp := range adv.FixedPackages {
			var pkg model.Package
			var ok bool
			if fp.FullName != "" {
				pkg, ok = packages.FromFullName(pt, fp.FullName)
			} else {
				pkg, ok = packages.FromNameAndFullVersion(pt, fp.Name, fp.FullVersion)
			}
			if !ok {
				zlog.Warn(ctx).Str("oid", adv.OID).Msg("could not parse fixed package information")
				continue
			}
			store.Add(pkg, adv.OID, model.Symbol(fp.Specifier))
		}
	}

	return store, nil
}
