package ot

import (
	"errors"
	"fmt"

	"github.com/optable/baseot/internal/curve"
	"github.com/optable/baseot/internal/kdf"
	"github.com/optable/baseot/internal/wire"
)

// ErrInvalidArgument is returned for malformed call arguments: a negative
// batch size, or a choice bit outside {0, 1}. A zero batch size is not an
// error; see the n=0 decision in DESIGN.md.
var ErrInvalidArgument = errors.New("ot: invalid argument")

// TransportError wraps any I/O failure on the underlying channel. It is
// always fatal to the batch.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("ot: transport error: %v", e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolErrorKind distinguishes the ways bytes received from a peer can
// fail to form a valid protocol message.
type ProtocolErrorKind int

const (
	// InvalidPoint means the received bytes did not parse as a point on
	// the curve.
	InvalidPoint ProtocolErrorKind = iota
	// ZeroLengthPoint means the peer sent a length prefix of zero.
	ZeroLengthPoint
)

func (k ProtocolErrorKind) String() string {
	switch k {
	case InvalidPoint:
		return "invalid point"
	case ZeroLengthPoint:
		return "zero-length point"
	default:
		return "unknown protocol error"
	}
}

// ProtocolError reports a malformed message from the peer.
type ProtocolError struct {
	Kind ProtocolErrorKind
	Err  error
}

func (e *ProtocolError) Error() string { return fmt.Sprintf("ot: protocol error: %s", e.Kind) }
func (e *ProtocolError) Unwrap() error { return e.Err }

// CryptoError wraps a failure in a group operation or scalar sampling at
// the library layer: not an adversarial condition, but a failure of the
// underlying crypto primitives (e.g. the system CSPRNG).
type CryptoError struct {
	Err error
}

func (e *CryptoError) Error() string { return fmt.Sprintf("ot: crypto error: %v", e.Err) }
func (e *CryptoError) Unwrap() error { return e.Err }

// zeroKeys overwrites every key in keys. Used on an abort partway through
// key derivation, so a partially-populated m0/m1/m slice never outlives the
// failed batch that produced it.
func zeroKeys(keys []kdf.Key) {
	for i := range keys {
		keys[i].Zero()
	}
}

// classifyPointErr turns an error returned from internal/wire's point codec
// into one of the typed errors this package exposes to callers.
func classifyPointErr(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, curve.ErrInvalidPoint):
		return &ProtocolError{Kind: InvalidPoint, Err: err}
	case errors.Is(err, wire.ErrZeroLengthPoint):
		return &ProtocolError{Kind: ZeroLengthPoint, Err: err}
	default:
		return &TransportError{Err: err}
	}
}
