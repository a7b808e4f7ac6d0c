// Package scan implements the scan driver (spec §4.7): it loads advisories
// for a host's OS release, matches its installed package list against them,
// and publishes RUNNING/FINISHED status plus one result per vulnerable OID.
//
// The precondition checks, the per-package/per-OID AND-of-comparables
// matching rule, and the report's exact line layout are all grounded on the
// original's scanner.py.
package scan

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/greenbone/notus-scanner-go/bus"
	"github.com/greenbone/notus-scanner-go/model"
	"github.com/greenbone/notus-scanner-go/packages"
	"github.com/quay/zlog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/greenbone/notus-scanner-go/scan")

// AdvisoryLoader is the subset of *loader.Loader the driver depends on.
type AdvisoryLoader interface {
	Load(ctx context.Context, osRelease string) (*model.Store, error)
}

// Clock supplies the Unix timestamp stamped on every published message. A
// driver never stamps a message with time.Now itself, keeping RunScan's
// output deterministic to test; time.Now is read only to measure the
// scan.duration metric.
type Clock func() float64

// Driver is one scan-start handler. Per spec §5, a single Driver processes
// one scan-start message to completion before the next; distinct Driver
// instances (even against the same Loader/Publisher) may run concurrently,
// since neither interface carries request-scoped mutable state.
type Driver struct {
	Loader    AdvisoryLoader
	Publisher bus.Publisher
	Now       Clock
}

// perPackageMatch holds, for one installed package, every fixed-package
// constraint that made it vulnerable for a single OID.
type perPackageMatch struct {
	installed model.Package
	matched   []model.PackageAdvisory
}

// RunScan handles one scan-start message end to end (spec §4.7).
func (d *Driver) RunScan(ctx context.Context, msg bus.ScanStartMessage) {
	ctx, span := tracer.Start(ctx, "RunScan", trace.WithAttributes(
		attribute.String("os_release", msg.OSRelease),
		attribute.String("scan_id", msg.ScanID),
	))
	defer span.End()
	scansStarted.Inc()
	begin := time.Now()
	defer func() { scanDuration.Record(ctx, time.Since(begin).Seconds()) }()

	if msg.OSRelease == "" {
		zlog.Error(ctx).Str("host_ip", msg.HostIP).Msg("unable to start scan: os_release is empty")
		return
	}
	if len(msg.PackageList) == 0 {
		zlog.Error(ctx).Str("host_ip", msg.HostIP).Msg("unable to start scan: package_list is empty")
		return
	}

	store, err := d.Loader.Load(ctx, msg.OSRelease)
	if err != nil {
		span.RecordError(err)
		zlog.Error(ctx).Err(err).Msg("unable to load package advisories")
		return
	}
	if store == nil {
		zlog.Error(ctx).Str("host_ip", msg.HostIP).Str("os_release", msg.OSRelease).
			Msg("unable to start scan: no advisories for this OS-release found")
		return
	}

	pt := store.Type()
	if !packages.Known(pt) {
		zlog.Error(ctx).Str("host_ip", msg.HostIP).Str("os_release", msg.OSRelease).
			Msg("unable to start scan: no package implementation for this OS-release found")
		return
	}

	var installed []model.Package
	for _, name := range msg.PackageList {
		pkg, ok := packages.FromFullName(pt, name)
		if !ok {
			zlog.Warn(ctx).Str("package", name).Msg("could not parse installed package, skipping")
			continue
		}
		installed = append(installed, pkg)
	}

	d.publishStatus(ctx, msg.GroupID, msg.ScanID, msg.HostIP, bus.StatusRunning)
	zlog.Info(ctx).Str("host_ip", msg.HostIP).Str("host_name", msg.HostName).
		Msg("start to identify vulnerable packages")

	vulnerable := d.findVulnerablePackages(installed, store)
	total := d.publishResults(ctx, msg.GroupID, msg.ScanID, msg.HostIP, msg.HostName, vulnerable)
	packagesFoundTotal.Add(float64(total))
	span.SetAttributes(attribute.Int("vulnerable_packages", total))

	zlog.Info(ctx).Int("count", total).Msg("total number of vulnerable packages")
	d.publishStatus(ctx, msg.GroupID, msg.ScanID, msg.HostIP, bus.StatusFinished)
	scansFinished.Inc()
}

// findVulnerablePackages implements spec §4.7 step 5: for every installed
// package and every OID it has constraints for, the OID only counts as
// matched when every comparable constraint is vulnerable and at least one
// constraint was comparable at all.
func (d *Driver) findVulnerablePackages(installed []model.Package, store *model.Store) map[string][]perPackageMatch {
	byOID := make(map[string][]perPackageMatch)

	for _, pkg := range installed {
		for oid, constraints := range store.Get(pkg) {
			matched, ok := checkPackage(pkg, constraints)
			if !ok {
				continue
			}
			byOID[oid] = append(byOID[oid], perPackageMatch{installed: pkg, matched: matched})
		}
	}
	return byOID
}

// checkPackage evaluates every constraint in constraints against pkg. ok is
// false when no constraint was comparable, or when any comparable
// constraint rejected pkg.
func checkPackage(pkg model.Package, constraints map[model.PackageAdvisory]struct{}) (matched []model.PackageAdvisory, ok bool) {
	for pa := range constraints {
		vulnerable, comparable := pa.IsVulnerable(pkg)
		if !comparable {
			continue
		}
		if !vulnerable {
			return nil, false
		}
		matched = append(matched, pa)
	}
	if len(matched) == 0 {
		return nil, false
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Symbol != matched[j].Symbol {
			return matched[i].Symbol < matched[j].Symbol
		}
		return matched[i].Package.FullName() < matched[j].Package.FullName()
	})
	return matched, true
}

func (d *Driver) publishStatus(ctx context.Context, groupID, scanID, hostIP string, status bus.ScanStatus) {
	msg := bus.NewScanStatusMessage(groupID, d.now(), scanID, hostIP, status)
	if err := d.Publisher.PublishScanStatus(bus.TopicScanStatus, msg); err != nil {
		zlog.Error(ctx).Err(err).Str("status", string(status)).Msg("failed to publish scan status")
	}
}

// publishResults renders and publishes one ResultMessage per OID with a
// non-empty finding, returning the total number of vulnerable packages
// across every OID.
func (d *Driver) publishResults(ctx context.Context, groupID, scanID, hostIP, hostName string, vulnerable map[string][]perPackageMatch) int {
	total := 0
	for oid, matches := range vulnerable {
		sort.Slice(matches, func(i, j int) bool {
			return matches[i].installed.FullName() < matches[j].installed.FullName()
		})

		var report strings.Builder
		for _, m := range matches {
			total++
			first := m.matched[0]
			fmt.Fprintf(&report, "\n%-22s%s\n", "Vulnerable package:", m.installed.Name())
			fmt.Fprintf(&report, "%-22s%s\n", "Installed version:", m.installed.FullName())
			fmt.Fprintf(&report, "%-20s%2s%s\n", "Fixed version:", string(first.Symbol), first.Package.FullName())
			for _, extra := range m.matched[1:] {
				fmt.Fprintf(&report, "%-20s%2s%s\n", "", string(extra.Symbol), extra.Package.FullName())
			}
		}

		msg := bus.NewResultMessage(groupID, d.now(), scanID, hostIP, hostName, oid, report.String())
		if err := d.Publisher.PublishResult(bus.TopicResultScan, msg); err != nil {
			zlog.Error(ctx).Err(err).Str("oid", oid).Msg("failed to publish result")
		}
	}
	return total
}

func (d *Driver) now() float64 {
	if d.Now == nil {
		return 0
	}
	return d.Now()
}
