// Package verify implements the signature-gated hashsum verifier from spec
// §4.5: a cache over the products directory's sha256sums manifest, gated by
// an OpenPGP detached signature, and a per-file verification check built on
// top of it.
//
// The cache/reload shape — hash the manifest, skip re-verification when its
// fingerprint hasn't moved, otherwise re-check the signature and reparse —
// is grounded on the original's gpg_sha_verifier.py. Detached-signature
// checking itself uses golang.org/x/crypto/openpgp, the same package family
// the teacher uses for RPM header signatures (see rpm/info.go).
package verify

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/crypto/openpgp"

	notus "github.com/greenbone/notus-scanner-go"
)

// VerificationResult is the outcome of checking a single advisory file
// against the cached manifest (spec §3).
type VerificationResult int

const (
	Success VerificationResult = iota
	InvalidFile
	InvalidHash
	InvalidName
)

// String implements fmt.Stringer.
func (r VerificationResult) String() string {
	switch r {
	case Success:
		return "SUCCESS"
	case InvalidFile:
		return "INVALID_FILE"
	case InvalidHash:
		return "INVALID_HASH"
	case InvalidName:
		return "INVALID_NAME"
	default:
		return "UNKNOWN"
	}
}

// Config holds the options consumed by the verifier (spec §6).
type Config struct {
	// ProductsDirectory holds sha256sums, sha256sums.asc and every *.notus
	// advisory file.
	ProductsDirectory string
	// DisableHashsumVerification short-circuits every check to Success.
	DisableHashsumVerification bool
	// GPGHome is the public keyring directory. Empty defers to GPG_HOME,
	// then "$HOME/.gnupg".
	GPGHome string
	// OnVerificationFailure, if set, is called whenever the manifest's
	// signature fails to verify, before the Sha256SumLoading error is
	// returned to the caller.
	OnVerificationFailure func(error)
}

func (c Config) gpgHome() string {
	if c.GPGHome != "" {
		return c.GPGHome
	}
	if h := os.Getenv("GPG_HOME"); h != "" {
		return h
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".gnupg")
	}
	return ".gnupg"
}

// Verifier caches the hashsum manifest for one products directory. The
// cached {fingerprint, sums} pair is the only mutable state (spec §5); a
// single RWMutex around reload is sufficient since reloads are rare and the
// map is immutable once produced.
type Verifier struct {
	cfg Config

	mu          sync.RWMutex
	loaded      bool
	fingerprint [sha1.Size]byte
	sums        map[string]string
}

// NewVerifier constructs a Verifier for cfg.
func NewVerifier(cfg Config) *Verifier {
	return &Verifier{cfg: cfg}
}

// Sums returns the current basename → sha256-hex map, reloading and
// re-verifying the signature only when the manifest file's contents have
// changed since the last call. Errors are always *notus.Error with
// KindSha256SumLoading.
func (v *Verifier) Sums() (map[string]string, error) {
	if v.cfg.DisableHashsumVerification {
		return nil, nil
	}

	path := filepath.Join(v.cfg.ProductsDirectory, "sha256sums")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &notus.Error{
			Kind:    notus.KindSha256SumLoading,
			Message: "reading sha256sums manifest",
			Op:      "verify.Sums",
			Inner:   err,
		}
	}
	fp := sha1.Sum(data)

	v.mu.RLock()
	if v.loaded && fp == v.fingerprint {
		cached := v.sums
		v.mu.RUnlock()
		return cached, nil
	}
	v.mu.RUnlock()

	if err := v.verifySignature(path, data); err != nil {
		if v.cfg.OnVerificationFailure != nil {
			v.cfg.OnVerificationFailure(err)
		}
		return nil, err
	}
	sums, err := parseSHA256Sums(data)
	if err != nil {
		return nil, err
	}

	v.mu.Lock()
	v.fingerprint = fp
	v.sums = sums
	v.loaded = true
	v.mu.Unlock()

	return sums, nil
}

func (v *Verifier) verifySignature(manifestPath string, data []byte) error {
	keyringPath := filepath.Join(v.cfg.gpgHome(), "pubring.gpg")
	keyringFile, err := os.Open(keyringPath)
	if err != nil {
		return &notus.Error{
			Kind:    notus.KindSha256SumLoading,
			Message: "opening gpg keyring",
			Op:      "verify.verifySignature",
			Inner:   err,
		}
	}
	defer keyringFile.Close()

	keyring, err := openpgp.ReadKeyRing(keyringFile)
	if err != nil {
		return &notus.Error{
			Kind:    notus.KindSha256SumLoading,
			Message: "reading gpg keyring",
			Op:      "verify.verifySignature",
			Inner:   err,
		}
	}

	sigFile, err := os.Open(manifestPath + ".asc")
	if err != nil {
		return &notus.Error{
			Kind:    notus.KindSha256SumLoading,
			Message: "opening sha256sums signature",
			Op:      "verify.verifySignature",
			Inner:   err,
		}
	}
	defer sigFile.Close()

	if _, err := openpgp.CheckArmoredDetachedSignature(keyring, bytes.NewReader(data), sigFile, nil); err != nil {
		return &notus.Error{
			Kind:    notus.KindSha256SumLoading,
			Message: "sha256sums signature is invalid",
			Op:      "verify.verifySignature",
			Inner:   err,
		}
	}
	return nil
}

// parseSHA256Sums parses "<sha256_hex>  <path>" lines, keyed by the
// basename of path (spec §6).
func parseSHA256Sums(data []byte) (map[string]string, error) {
	sums := make(map[string]string)
	sc := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.SplitN(line, "  ", 2)
		if len(parts) != 2 {
			return nil, &notus.Error{
				Kind:    notus.KindSha256SumLoading,
				Message: fmt.Sprintf("malformed sha256sums line %d", lineNo),
				Op:      "verify.parseSHA256Sums",
			}
		}
		sums[filepath.Base(strings.TrimSpace(parts[1]))] = parts[0]
	}
	if err := sc.Err(); err != nil {
		return nil, &notus.Error{
			Kind:    notus.KindSha256SumLoading,
			Message: "scanning sha256sums manifest",
			Op:      "verify.parseSHA256Sums",
			Inner:   err,
		}
	}
	return sums, nil
}

// Verify checks path against the manifest: file existence/regularity
// (InvalidFile), manifest membership by basename (InvalidName), and
// content hash (InvalidHash). When the verifier is configured to disable
// verification, it always returns Success.
func (v *Verifier) Verify(path string) (VerificationResult, error) {
	if v.cfg.DisableHashsumVerification {
		return Success, nil
	}

	sums, err := v.Sums()
	if err != nil {
		return InvalidFile, err
	}

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return InvalidFile, nil
	}

	want, ok := sums[filepath.Base(path)]
	if !ok {
		return InvalidName, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return InvalidFile, nil
	}
	sum := sha256.Sum256(data)
	if hex.EncodeToString(sum[:]) != want {
		return InvalidHash, nil
	}
	return Success, nil
}
