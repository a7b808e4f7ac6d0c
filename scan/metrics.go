package scan

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	scansStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "notus",
		Subsystem: "scan",
		Name:      "started_total",
		Help:      "Number of scan-start messages handled, including those rejected before matching.",
	})
	scansFinished = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "notus",
		Subsystem: "scan",
		Name:      "finished_total",
		Help:      "Number of scans that completed host-package matching.",
	})
	packagesFoundTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "notus",
		Subsystem: "scan",
		Name:      "vulnerable_packages_total",
		Help:      "Vulnerable packages reported, cumulative across scans.",
	})
)

// scanDuration is an OTel histogram rather than a Prometheus one: it feeds
// the same exporter pipeline as the package's tracing spans, so a scan's
// duration shows up alongside its trace without a second registry to wire.
var scanDuration metric.Float64Histogram

func init() {
	meter := otel.Meter("github.com/greenbone/notus-scanner-go/scan")
	var err error
	scanDuration, err = meter.Float64Histogram("scan.duration",
		metric.WithDescription("Wall-clock time RunScan spent matching one host's package list."),
		metric.WithUnit("s"))
	if err != nil {
		panic(err)
	}
}
