package fitting

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint returns a hex BLAKE2b-256 digest of the dropsuit name and the
// ordered (kind, name) pairs of every fitted item. Two fittings built by adding
// the same items in the same order share a fingerprint.
func (f *Fitting) Fingerprint() string {
	h, _ := blake2b.New256(nil)
	h.Write([]byte(f.dropsuit.Name))
	h.Write([]byte{0})
	for _, it := range f.ledger.chain {
		h.Write([]byte(it.Kind))
		h.Write([]byte{0})
		h.Write([]byte(it.Name))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
