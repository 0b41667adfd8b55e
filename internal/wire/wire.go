// Package wire implements the length-prefixed point codec the sender and
// receiver use to exchange points over an io.ReadWriter. Both ends must
// agree on the integer width used for the length prefix (spec.md §4.2); this
// module fixes it at unsigned 64-bit little-endian rather than the
// reference implementation's machine word, per the portability
// recommendation in spec.md §9; see SPEC_FULL.md §6.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/optable/baseot/internal/curve"
)

// ErrZeroLengthPoint is returned by ReceivePoint when the peer sends a
// length prefix of zero.
var ErrZeroLengthPoint = errors.New("wire: zero-length point")

// SendPoint writes p to w as its compressed hex encoding, preceded by an
// unsigned 64-bit little-endian byte count.
func SendPoint(w io.Writer, p curve.Point) error {
	hex := p.ToHex()

	var length [8]byte
	binary.LittleEndian.PutUint64(length[:], uint64(len(hex)))

	if _, err := w.Write(length[:]); err != nil {
		return fmt.Errorf("wire: writing point length: %w", err)
	}
	if _, err := io.WriteString(w, hex); err != nil {
		return fmt.Errorf("wire: writing point: %w", err)
	}
	return nil
}

// ReceivePoint reads a point previously written by SendPoint. It fails with
// ErrZeroLengthPoint on a zero length prefix, or with curve.ErrInvalidPoint
// if the bytes received do not decode to a point on the curve.
func ReceivePoint(r io.Reader) (curve.Point, error) {
	var length [8]byte
	if _, err := io.ReadFull(r, length[:]); err != nil {
		return curve.Point{}, fmt.Errorf("wire: reading point length: %w", err)
	}

	n := binary.LittleEndian.Uint64(length[:])
	if n == 0 {
		return curve.Point{}, ErrZeroLengthPoint
	}

	hex := make([]byte, n)
	if _, err := io.ReadFull(r, hex); err != nil {
		return curve.Point{}, fmt.Errorf("wire: reading point: %w", err)
	}

	p, err := curve.FromHex(string(hex))
	if err != nil {
		return curve.Point{}, err
	}
	return p, nil
}
