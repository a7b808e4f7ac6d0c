package notus

import "errors"

// Config holds the three options spec §6 names for the core: where
// advisory/signature files live, where the GPG public keyring lives, and
// whether hashsum verification is disabled outright. Loading these values
// from flags, environment, or a config file is explicitly out of scope
// (spec §1); callers resolve a Config however they like and pass it to
// New.
//
// The Option/New shape follows the teacher's libvuln/updates.ManagerOption
// pattern: every field defaults to its zero value unless an Option
// overrides it, and options apply in the order given.
type Config struct {
	ProductsDirectory          string
	GPGHome                    string
	DisableHashsumVerification bool
}

// Option configures a Config under construction.
type Option func(*Config)

// WithProductsDirectory sets the directory holding sha256sums,
// sha256sums.asc, and every *.notus advisory file.
func WithProductsDirectory(dir string) Option {
	return func(c *Config) { c.ProductsDirectory = dir }
}

// WithGPGHome sets the public keyring directory. Leaving it unset defers
// to verify.Config's own GPG_HOME/$HOME/.gnupg fallback chain.
func WithGPGHome(dir string) Option {
	return func(c *Config) { c.GPGHome = dir }
}

// WithHashsumVerificationDisabled turns off signature/hash checking
// entirely; every verification call reports success unconditionally. This
// exists for local development against an unsigned products directory and
// must never be set in production (spec §6).
func WithHashsumVerificationDisabled() Option {
	return func(c *Config) { c.DisableHashsumVerification = true }
}

// New builds a Config from opts, applied in order. ProductsDirectory must
// end up non-empty unless hashsum verification is disabled, since the
// loader and verifier both resolve every path relative to it.
func New(opts ...Option) (*Config, error) {
	c := &Config{}
	for _, opt := range opts {
		opt(c)
	}
	if c.ProductsDirectory == "" && !c.DisableHashsumVerification {
		return nil, errors.New("notus: products directory must be set unless hashsum verification is disabled")
	}
	return c, nil
}
