package object

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
)

// ZeroHash is the all-zero digest used in reflog entries to denote the
// absence of an old or new value.
const ZeroHash Hash = "0000000000000000000000000000000000000000"

// HashBytes computes the raw SHA-1 hash of data and returns it as a
// lowercase hex-encoded Hash.
func HashBytes(data []byte) Hash {
	sum := sha1.Sum(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// HashObject computes the SHA-1 of the envelope "type len\0content",
// applied before any on-disk compression so the digest is independent of
// the storage encoding.
func HashObject(objType ObjectType, data []byte) Hash {
	header := fmt.Sprintf("%s %d\x00", objType, len(data))
	h := sha1.New()
	h.Write([]byte(header))
	h.Write(data)
	return Hash(hex.EncodeToString(h.Sum(nil)))
}
