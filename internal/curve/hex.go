package curve

import "encoding/hex"

// encodeHex and decodeHex isolate the hex codec used for points so the
// casing convention is defined in exactly one place. Both peers of this
// protocol must agree on the textual form fed into the key-derivation hash
// (internal/kdf); encoding/hex's lowercase output is that agreed form.
func encodeHex(b []byte) string {
	return hex.EncodeToString(b)
}

func decodeHex(s string) ([]byte, error) {
	return hex.DecodeString(s)
}
