package model

import "sync"

// Store is the in-memory advisory index from spec §4.4: a mapping
// package-name → advisory-OID → set of fixed-package constraints.
//
// A Store is built once by the loader for a given OS release and is
// read-only thereafter (spec §3's PackageAdvisories lifecycle); the mutex
// serializes Add against Get and Len, since a loader may be asked to
// populate a cached Store concurrently by independent scan-driver
// instances (spec §5).
type Store struct {
	mu          sync.RWMutex
	packageType PackageType
	advisories  map[string]map[string]map[PackageAdvisory]struct{}
}

// NewStore constructs an empty Store for the given package ecosystem.
func NewStore(pt PackageType) *Store {
	return &Store{
		packageType: pt,
		advisories:  make(map[string]map[string]map[PackageAdvisory]struct{}),
	}
}

// Type reports the ecosystem every entry in this Store belongs to.
func (s *Store) Type() PackageType {
	return s.packageType
}

// Add inserts a fixed-package constraint under pkg.Name() and oid.
// Duplicate (package, oid, symbol) triples are idempotent.
func (s *Store) Add(pkg Package, oid string, symbol Symbol) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byOID, ok := s.advisories[pkg.Name()]
	if !ok {
		byOID = make(map[string]map[PackageAdvisory]struct{})
		s.advisories[pkg.Name()] = byOID
	}
	set, ok := byOID[oid]
	if !ok {
		set = make(map[PackageAdvisory]struct{})
		byOID[oid] = set
	}
	set[PackageAdvisory{Package: pkg, OID: oid, Symbol: symbol.Normalize()}] = struct{}{}
}

// Get returns the OID-indexed constraint groups for the given package's
// name. The returned map is a defensive copy; mutating it never affects
// the Store (spec §4.4).
func (s *Store) Get(pkg Package) map[string]map[PackageAdvisory]struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byOID, ok := s.advisories[pkg.Name()]
	if !ok {
		return map[string]map[PackageAdvisory]struct{}{}
	}
	out := make(map[string]map[PackageAdvisory]struct{}, len(byOID))
	for oid, set := range byOID {
		cp := make(map[PackageAdvisory]struct{}, len(set))
		for pa := range set {
			cp[pa] = struct{}{}
		}
		out[oid] = cp
	}
	return out
}

// Len reports the number of distinct package names indexed.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.advisories)
}
