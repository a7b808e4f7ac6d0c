// Package hostcache implements the host-name de-duplicator (spec §4.8): a
// per-scan cache of which host names have already been seen, so a flaky
// transport's redelivery of the same scan-start message doesn't restart a
// scan on the same host twice.
//
// Hashing the host name rather than storing it directly, and resetting the
// whole cache on a time window rather than expiring entries individually,
// are both grounded on the original's hostname.py.
package hostcache

import (
	"crypto/sha1"
	"sync"
	"time"
)

// Decision is the result of Cache.Verify.
type Decision int

const (
	Continue Decision = iota
	Stop
)

// String implements fmt.Stringer.
func (d Decision) String() string {
	if d == Stop {
		return "STOP"
	}
	return "CONTINUE"
}

// Cache de-duplicates (scan_id, host_name) pairs within a sliding time
// window. The zero value is not usable; construct with New.
type Cache struct {
	period time.Duration
	now    func() time.Time

	mu        sync.Mutex
	lookup    map[string]map[[sha1.Size]byte]struct{}
	lastReset time.Time
}

// New constructs a Cache that forgets everything it has seen once period
// has elapsed since the last reset.
func New(period time.Duration) *Cache {
	return &Cache{
		period:    period,
		now:       time.Now,
		lookup:    make(map[string]map[[sha1.Size]byte]struct{}),
		lastReset: time.Now(),
	}
}

// Verify records (scanID, hostName) and reports whether processing should
// continue. An empty scanID or hostName always returns Continue without
// recording anything (spec §4.8).
func (c *Cache) Verify(scanID, hostName string) Decision {
	if scanID == "" || hostName == "" {
		return Continue
	}
	hash := sha1.Sum([]byte(hostName))

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if now.After(c.lastReset.Add(c.period)) {
		c.lookup = make(map[string]map[[sha1.Size]byte]struct{})
		c.lastReset = now
	}

	seen, ok := c.lookup[scanID]
	if !ok {
		seen = make(map[[sha1.Size]byte]struct{})
		c.lookup[scanID] = seen
	}
	if _, dup := seen[hash]; dup {
		return Stop
	}
	seen[hash] = struct{}{}
	return Continue
}
