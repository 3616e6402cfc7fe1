package irfile

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Digest is the keyed BLAKE3 hash of a file payload.
type Digest [32]byte

// String returns the lowercase hex form.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// payloadKey is the ASCII domain name zero-padded to 32 bytes. Changing
// it invalidates every existing file.
var payloadKey = [32]byte{
	'a', 'u', 'x', 'd', 'a', 't', 'a', '.', 'i', 'r', 'f', 'i', 'l', 'e', '.',
	'p', 'a', 'y', 'l', 'o', 'a', 'd',
}

// digestPayload hashes the uncompressed payload.
func digestPayload(payload []byte) Digest {
	h, err := blake3.NewKeyed(payloadKey[:])
	if err != nil {
		// Only returned for a key of the wrong length.
		panic("irfile: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	h.Write(payload)
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}
