package ot

import (
	"github.com/go-logr/logr"
	"github.com/optable/baseot/internal/kdf"
)

// config holds the knobs Option can set on a Sender or Receiver.
type config struct {
	kdfMode int
	logger  *logr.Logger
}

func defaultConfig() config {
	return config{kdfMode: kdf.SHA256Compat}
}

// Option configures a Sender or Receiver at construction time.
type Option func(*config)

// WithKeyDerivation selects the key-derivation mode. Defaults to
// kdf.SHA256Compat, the wire-compatible mode required to interoperate with
// any existing deployment of this protocol (SPEC_FULL.md §4, §5). A
// greenfield-only deployment may pick kdf.Blake3Fast or kdf.Blake2bFast
// instead; both peers of a batch must agree on the mode out of band, the
// same way they agree on the batch size.
func WithKeyDerivation(mode int) Option {
	return func(c *config) { c.kdfMode = mode }
}

// WithLogger attaches logger to a Sender or Receiver, overriding whatever
// logger the call's context.Context carries.
func WithLogger(logger logr.Logger) Option {
	return func(c *config) { c.logger = &logger }
}
