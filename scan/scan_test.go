package scan

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/greenbone/notus-scanner-go/bus"
	"github.com/greenbone/notus-scanner-go/model"
	"github.com/greenbone/notus-scanner-go/packages"
	"golang.org/x/sync/errgroup"
)

type fakeLoader struct {
	store *model.Store
	err   error
}

func (f fakeLoader) Load(context.Context, string) (*model.Store, error) { return f.store, f.err }

type fakePublisher struct {
	statuses []bus.ScanStatusMessage
	results  []bus.ResultMessage
}

func (p *fakePublisher) PublishScanStatus(topic string, msg bus.ScanStatusMessage) error {
	p.statuses = append(p.statuses, msg)
	return nil
}

func (p *fakePublisher) PublishResult(topic string, msg bus.ResultMessage) error {
	p.results = append(p.results, msg)
	return nil
}

// S5: an empty package_list aborts before any status message is published.
func TestRunScanEmptyPackageList(t *testing.T) {
	pub := &fakePublisher{}
	d := &Driver{Loader: fakeLoader{}, Publisher: pub}
	d.RunScan(context.Background(), bus.ScanStartMessage{OSRelease: "EulerOS V2.0SP1"})

	if len(pub.statuses) != 0 || len(pub.results) != 0 {
		t.Errorf("expected no messages published, got %d statuses and %d results", len(pub.statuses), len(pub.results))
	}
}

func TestRunScanEmptyOSRelease(t *testing.T) {
	pub := &fakePublisher{}
	d := &Driver{Loader: fakeLoader{}, Publisher: pub}
	d.RunScan(context.Background(), bus.ScanStartMessage{PackageList: []string{"openssh-6.6.1p1-25.4.h3.x86_64"}})

	if len(pub.statuses) != 0 || len(pub.results) != 0 {
		t.Errorf("expected no messages published, got %d statuses and %d results", len(pub.statuses), len(pub.results))
	}
}

func TestRunScanNoAdvisoriesForOS(t *testing.T) {
	pub := &fakePublisher{}
	d := &Driver{Loader: fakeLoader{store: nil}, Publisher: pub}
	d.RunScan(context.Background(), bus.ScanStartMessage{
		OSRelease:   "Some Unknown OS",
		PackageList: []string{"openssh-6.6.1p1-25.4.h3.x86_64"},
	})
	if len(pub.statuses) != 0 || len(pub.results) != 0 {
		t.Errorf("expected no messages published, got %d statuses and %d results", len(pub.statuses), len(pub.results))
	}
}

// S6: two installed packages, one fixture advisory, should publish
// [RUNNING, result.scan, FINISHED] with the result containing two
// "Vulnerable package:" lines.
func TestRunScanS6MatchedScan(t *testing.T) {
	store := model.NewStore(model.RPM)
	vulnerable1, _ := packages.FromFullName(model.RPM, "openssh-6.6.1p1-25.4.h3.x86_64")
	fixed1, _ := packages.FromFullName(model.RPM, "openssh-6.6.1p1-25.4.h4.x86_64")
	store.Add(fixed1, "1.3.6.1.4.1.25623.1.1.2.2016.1008", model.GE)

	vulnerable2, _ := packages.FromFullName(model.RPM, "openssh-clients-6.6.1p1-25.4.h3.x86_64")
	fixed2, _ := packages.FromFullName(model.RPM, "openssh-clients-6.6.1p1-25.4.h4.x86_64")
	store.Add(fixed2, "1.3.6.1.4.1.25623.1.1.2.2016.1008", model.GE)

	pub := &fakePublisher{}
	d := &Driver{Loader: fakeLoader{store: store}, Publisher: pub, Now: func() float64 { return 1700000000 }}
	d.RunScan(context.Background(), bus.ScanStartMessage{
		ScanID:      "scan-1",
		HostIP:      "10.0.0.1",
		HostName:    "host-a",
		OSRelease:   "EulerOS V2.0SP1",
		PackageList: []string{vulnerable1.FullName(), vulnerable2.FullName()},
	})

	if len(pub.statuses) != 2 {
		t.Fatalf("got %d status messages, want 2", len(pub.statuses))
	}
	if pub.statuses[0].Status != bus.StatusRunning {
		t.Errorf("first status = %v, want RUNNING", pub.statuses[0].Status)
	}
	if pub.statuses[1].Status != bus.StatusFinished {
		t.Errorf("last status = %v, want FINISHED", pub.statuses[1].Status)
	}
	if len(pub.results) != 1 {
		t.Fatalf("got %d result messages, want 1", len(pub.results))
	}
	if got := strings.Count(pub.results[0].Value, "Vulnerable package:"); got != 2 {
		t.Errorf("report has %d \"Vulnerable package:\" lines, want 2:\n%s", got, pub.results[0].Value)
	}
}

// S4: a range advisory (>=15.11.1 AND <=15.11.1) must reject an installed
// package that fails either comparable constraint.
func TestRunScanS4RangeAdvisory(t *testing.T) {
	store := model.NewStore(model.DEB)
	lower, _ := packages.FromFullName(model.DEB, "gitlab-ce-15.11.1")
	upper, _ := packages.FromFullName(model.DEB, "gitlab-ce-15.11.1")
	store.Add(lower, "range-oid", model.GE)
	store.Add(upper, "range-oid", model.LE)

	installedMatching, _ := packages.FromFullName(model.DEB, "gitlab-ce-15.11.1")
	pub := &fakePublisher{}
	d := &Driver{Loader: fakeLoader{store: store}, Publisher: pub, Now: func() float64 { return 0 }}
	d.RunScan(context.Background(), bus.ScanStartMessage{
		OSRelease:   "Debian 11",
		PackageList: []string{installedMatching.FullName()},
	})
	if len(pub.results) != 1 {
		t.Fatalf("installed==fixed should match both constraints: got %d results, want 1", len(pub.results))
	}

	pub2 := &fakePublisher{}
	d2 := &Driver{Loader: fakeLoader{store: store}, Publisher: pub2, Now: func() float64 { return 0 }}
	installedBehind, _ := packages.FromFullName(model.DEB, "gitlab-ce-15.10.1")
	d2.RunScan(context.Background(), bus.ScanStartMessage{
		OSRelease:   "Debian 11",
		PackageList: []string{installedBehind.FullName()},
	})
	if len(pub2.results) != 0 {
		t.Fatalf("installed behind fixed should fail the <= constraint: got %d results, want 0", len(pub2.results))
	}
}

// syncPublisher is a fakePublisher safe for concurrent use, for
// TestConcurrentDriversAreIndependent below.
type syncPublisher struct {
	mu       sync.Mutex
	statuses []bus.ScanStatusMessage
	results  []bus.ResultMessage
}

func (p *syncPublisher) PublishScanStatus(topic string, msg bus.ScanStatusMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.statuses = append(p.statuses, msg)
	return nil
}

func (p *syncPublisher) PublishResult(topic string, msg bus.ResultMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.results = append(p.results, msg)
	return nil
}

// TestConcurrentDriversAreIndependent exercises the guarantee from spec §5:
// distinct Driver values sharing no mutable state may run RunScan
// concurrently without interference, since every request-scoped value
// (installed packages, match results) lives on the call stack rather than on
// the Driver.
func TestConcurrentDriversAreIndependent(t *testing.T) {
	store := model.NewStore(model.RPM)
	fixed, _ := packages.FromFullName(model.RPM, "libssh2-1.4.3-10.el7_2.1.x86_64")
	store.Add(fixed, "oid-1", model.GE)

	const hosts = 8
	pubs := make([]*syncPublisher, hosts)
	var g errgroup.Group
	for i := 0; i < hosts; i++ {
		i := i
		pubs[i] = &syncPublisher{}
		d := &Driver{Loader: fakeLoader{store: store}, Publisher: pubs[i], Now: func() float64 { return 0 }}
		g.Go(func() error {
			d.RunScan(context.Background(), bus.ScanStartMessage{
				ScanID:      fmt.Sprintf("scan-%d", i),
				HostIP:      fmt.Sprintf("10.0.0.%d", i),
				OSRelease:   "EulerOS V2.0SP1",
				PackageList: []string{"libssh2-1.4.3-9.el7.x86_64"},
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("errgroup reported an error from a RunScan goroutine: %v", err)
	}

	for i, pub := range pubs {
		if len(pub.results) != 1 {
			t.Errorf("host %d: got %d results, want 1", i, len(pub.results))
		}
		if len(pub.statuses) != 2 {
			t.Errorf("host %d: got %d status messages, want 2 (running, finished)", i, len(pub.statuses))
		}
	}
}
