// Package ot implements a batched 1-out-of-2 base Oblivious Transfer
// following the Naor-Pinkas construction over NIST P-256. A Sender that
// derives n pairs of keys and a Receiver holding n choice bits run one Send
// and one Receive call against a shared io.ReadWriter; the receiver learns
// exactly one key per instance and the sender learns nothing about which.
//
// This package targets semi-honest security only, and P-256 only. See
// SPEC_FULL.md for the full set of non-goals. It is meant to be consumed as
// the seed OT for an OT-extension protocol, not used directly to transfer
// application messages at scale.
package ot

import "github.com/optable/baseot/internal/kdf"

// Key is a 128-bit symmetric key derived from one OT instance. Sender.Send
// returns one Key pair per instance; Receiver.Receive returns one Key per
// instance, equal to the sender's Key at the index the receiver chose.
type Key = kdf.Key

// KeyLen is the length in bytes of a Key.
const KeyLen = kdf.KeyLen

// Re-export the key-derivation mode constants so callers configuring
// WithKeyDerivation don't need to import internal/kdf.
const (
	// SHA256Compat is the default, wire-compatible key-derivation mode.
	SHA256Compat = kdf.SHA256Compat
	// Blake3Fast is a greenfield-only key-derivation mode.
	Blake3Fast = kdf.Blake3Fast
	// Blake2bFast is a second greenfield-only key-derivation mode.
	Blake2bFast = kdf.Blake2bFast
)
