// Package curve wraps crypto/elliptic's NIST P-256 group at the altitude the
// Naor-Pinkas protocol is written at: scalars, points, and the handful of
// group operations the protocol needs, with a compressed hex encoding for
// points on the wire.
package curve

import (
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"math/big"
)

// ErrInvalidPoint is returned when bytes received from a peer do not decode
// to a point on the curve.
var ErrInvalidPoint = errors.New("curve: invalid point encoding")

// P256 is the single curve this package operates over. The protocol this
// module implements is specified against NIST P-256 only; there is no
// provision for parameterizing over other curves.
var P256 = elliptic.P256()

// order is the prime order q of the P-256 group.
var order = P256.Params().N

// EncodedLen is the length in bytes of a compressed point encoding.
var EncodedLen = 1 + (P256.Params().BitSize+7)/8

// Scalar is an integer in [0, q). Scalars carry secret randomness (the
// sender's r_i, the receiver's d_i) and should be discarded with Zeroize
// once no longer needed.
type Scalar struct {
	v *big.Int
}

// Bytes returns the big-endian byte representation of the scalar, suitable
// for crypto/elliptic's ScalarMult/ScalarBaseMult.
func (s Scalar) Bytes() []byte {
	return s.v.Bytes()
}

// Zeroize overwrites the scalar's backing storage. Best-effort: Go's GC can
// still retain copies made before this call, but it denies the obvious
// long-lived reference.
func (s *Scalar) Zeroize() {
	if s == nil || s.v == nil {
		return
	}
	words := s.v.Bits()
	for i := range words {
		words[i] = 0
	}
	s.v.SetInt64(0)
}

// RandomScalar samples a scalar uniformly in [0, q).
func RandomScalar() (Scalar, error) {
	v, err := rand.Int(rand.Reader, order)
	if err != nil {
		return Scalar{}, err
	}
	return Scalar{v: v}, nil
}

// RandomScalarNonzero samples a scalar uniformly in [1, q-1]. It is used for
// the receiver's d_i, where a zero scalar would make g^d_i the identity
// point, a public value that must never appear on the wire.
func RandomScalarNonzero() (Scalar, error) {
	// sample uniformly in [0, q-2], then shift into [1, q-1].
	bound := new(big.Int).Sub(order, big.NewInt(1))
	v, err := rand.Int(rand.Reader, bound)
	if err != nil {
		return Scalar{}, err
	}
	v.Add(v, big.NewInt(1))
	return Scalar{v: v}, nil
}

// Point is a point on the P-256 curve, represented by affine coordinates.
// The identity element is represented the way crypto/elliptic represents it
// internally: x = y = 0.
type Point struct {
	x, y *big.Int
}

// GeneratorMul computes g^x, the generator raised to the scalar x.
func GeneratorMul(x Scalar) Point {
	px, py := P256.ScalarBaseMult(x.Bytes())
	return Point{x: px, y: py}
}

// RandomPoint returns g^r for a freshly sampled r. Used by the sender to
// pick the shared point M for a batch; a fresh M must be sampled for every
// batch and never reused.
func RandomPoint() (Point, error) {
	r, err := RandomScalar()
	if err != nil {
		return Point{}, err
	}
	defer r.Zeroize()
	return GeneratorMul(r), nil
}

// Mul computes p^x (p raised to the scalar x), i.e. variable-point
// multiplication.
func (p Point) Mul(x Scalar) Point {
	qx, qy := P256.ScalarMult(p.x, p.y, x.Bytes())
	return Point{x: qx, y: qy}
}

// Add computes p + q on the curve.
func (p Point) Add(q Point) Point {
	rx, ry := P256.Add(p.x, p.y, q.x, q.y)
	return Point{x: rx, y: ry}
}

// Negate returns -p.
func (p Point) Negate() Point {
	negY := new(big.Int).Neg(p.y)
	negY.Mod(negY, P256.Params().P)
	return Point{x: new(big.Int).Set(p.x), y: negY}
}

// Sub computes p - q.
func (p Point) Sub(q Point) Point {
	return p.Add(q.Negate())
}

// Equal reports whether p and q are the same point.
func (p Point) Equal(q Point) bool {
	return p.x.Cmp(q.x) == 0 && p.y.Cmp(q.y) == 0
}

// Bytes returns the compressed encoding of p, the same encoding ToHex hex-
// encodes. The Blake3Fast and Blake2bFast modes of internal/kdf hash these
// raw bytes; its SHA256Compat mode hashes the hex string instead.
func (p Point) Bytes() []byte {
	return elliptic.MarshalCompressed(P256, p.x, p.y)
}

// ToHex returns the compressed point encoding of p as a hex string. This is
// the canonical on-the-wire and pre-hash representation for points
// throughout this module.
func (p Point) ToHex() string {
	return encodeHex(p.Bytes())
}

// FromHex parses a compressed point encoding previously produced by ToHex.
// It fails with ErrInvalidPoint if s does not decode to a valid point on
// the curve.
func FromHex(s string) (Point, error) {
	b, err := decodeHex(s)
	if err != nil {
		return Point{}, ErrInvalidPoint
	}
	x, y := elliptic.UnmarshalCompressed(P256, b)
	if x == nil {
		return Point{}, ErrInvalidPoint
	}
	return Point{x: x, y: y}, nil
}
