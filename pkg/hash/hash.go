package hash

import (
	"crypto/sha256"
	"encoding/hex"
)

// SHA256Hex returns the hex-encoded SHA256 hash of the input string.
func SHA256Hex(input string) string {
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:])
}

// ShortHex returns the first n characters of SHA256Hex(input). Used for log
// correlation fields where the full digest is noise.
func ShortHex(input string, n int) string {
	full := SHA256Hex(input)
	if n > len(full) {
		return full
	}
	return full[:n]
}

// HashIP hashes an IP address with a salt, truncated for log fields, so raw
// client addresses are never persisted or logged. An empty salt still hashes,
// it just loses the protection against offline address enumeration.
func HashIP(ip, salt string) string {
	return ShortHex(salt+ip, 12)
}
