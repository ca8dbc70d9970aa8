package citekey

import (
	"golang.org/x/crypto/blake2b"
)

const (
	// shortDigestSize is the BLAKE2b digest size used for short citekeys.
	shortDigestSize = 6

	// ShortLength is the fixed length of a short citekey: the smallest
	// base62 width that can represent any 6-byte digest.
	ShortLength = 9
)

const base62Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// Shorten derives a fixed-length short citekey from ck by base62-encoding
// a 6-byte BLAKE2b digest. The input should already be standardized, since
// any difference in the input produces a different short citekey. Short
// citekeys consist of characters in 0-9, A-Z, and a-z, and are stable
// across processes.
func Shorten(ck string) string {
	hasher, err := blake2b.New(shortDigestSize, nil)
	if err != nil {
		// blake2b.New only fails for invalid digest sizes.
		panic(err)
	}
	hasher.Write([]byte(ck))
	return encodeBase62(hasher.Sum(nil))
}

// encodeBase62 encodes a digest of up to 8 bytes as a big-endian integer
// in base62, left-padded with '0' to ShortLength characters.
func encodeBase62(digest []byte) string {
	var n uint64
	for _, b := range digest {
		n = n<<8 | uint64(b)
	}
	buf := make([]byte, ShortLength)
	for i := ShortLength - 1; i >= 0; i-- {
		buf[i] = base62Alphabet[n%62]
		n /= 62
	}
	return string(buf)
}
