// Package kdf derives the 128-bit symmetric keys the OT protocol hands back
// to its caller from a group element plus a small role nonce.
package kdf

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	gr "golang.org/x/crypto/blake2b"

	"github.com/optable/baseot/internal/curve"
	"github.com/zeebo/blake3"
)

const (
	// SHA256Compat hashes the hex-encoded compressed point concatenated
	// with an 8-byte little-endian nonce through SHA-256, then keeps the
	// first 16 digest bytes in reversed byte order. This reproduces the
	// reference implementation's hashPoint bit-for-bit (see SPEC_FULL.md
	// §5) and is required for interop with any existing deployment of
	// this protocol.
	SHA256Compat = iota
	// Blake3Fast hashes the raw compressed point bytes (no hex round
	// trip, no byte reversal) with BLAKE3. Faster, and the natural choice
	// for a greenfield deployment that never needs to interoperate with
	// the legacy derivation. See SPEC_FULL.md §4.
	Blake3Fast
	// Blake2bFast is the same greenfield shape as Blake3Fast, backed by
	// BLAKE2b instead, offered as a second library-backed alternative to
	// the legacy SHA-256 derivation.
	Blake2bFast
)

// ErrUnknownMode is returned by New for an unrecognized Mode value.
var ErrUnknownMode = fmt.Errorf("kdf: unknown key derivation mode")

// KeyLen is the length in bytes of a derived key (128 bits).
const KeyLen = 16

// Key is a 128-bit symmetric key derived from a curve point.
type Key [KeyLen]byte

// Zero overwrites k's bytes. Best-effort hygiene for key material that
// turned out to be discarded (e.g. on a protocol failure mid-batch).
func (k *Key) Zero() {
	for i := range k {
		k[i] = 0
	}
}

// KDF derives a Key from a curve point and a role nonce.
type KDF interface {
	HashPoint(p curve.Point, nonce uint64) Key
}

// New returns the KDF implementing mode.
func New(mode int) (KDF, error) {
	switch mode {
	case SHA256Compat:
		return sha256Compat{}, nil
	case Blake3Fast:
		return blake3Fast{}, nil
	case Blake2bFast:
		return blake2bFast{}, nil
	default:
		return nil, ErrUnknownMode
	}
}

type sha256Compat struct{}

func (sha256Compat) HashPoint(p curve.Point, nonce uint64) Key {
	var nonceBytes [8]byte
	binary.LittleEndian.PutUint64(nonceBytes[:], nonce)

	h := sha256.New()
	h.Write([]byte(p.ToHex()))
	h.Write(nonceBytes[:])
	digest := h.Sum(nil)

	var key Key
	// the reference implementation assembles the 128-bit output with the
	// digest's leading byte in the high lane; reproduced here by reversing
	// the first KeyLen digest bytes. See SPEC_FULL.md §5.
	for i := 0; i < KeyLen; i++ {
		key[i] = digest[KeyLen-1-i]
	}
	return key
}

type blake3Fast struct{}

func (blake3Fast) HashPoint(p curve.Point, nonce uint64) Key {
	var nonceBytes [8]byte
	binary.LittleEndian.PutUint64(nonceBytes[:], nonce)

	h := blake3.New()
	h.Write(p.Bytes())
	h.Write(nonceBytes[:])
	d := h.Digest()

	var key Key
	d.Read(key[:])
	return key
}

type blake2bFast struct{}

func (blake2bFast) HashPoint(p curve.Point, nonce uint64) Key {
	var nonceBytes [8]byte
	binary.LittleEndian.PutUint64(nonceBytes[:], nonce)

	xof, err := gr.NewXOF(uint32(KeyLen), nil)
	if err != nil {
		// NewXOF only fails for an oversized hash size or bad key; KeyLen
		// and a nil key are both always valid, so this is unreachable.
		panic(err)
	}
	xof.Write(p.Bytes())
	xof.Write(nonceBytes[:])

	var key Key
	xof.Read(key[:])
	return key
}
