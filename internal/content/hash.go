package content

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Hash computes a deterministic digest of a set: source paths and canonical
// JSON (sorted keys) of every record, in set order.
func Hash(s Set) (string, error) {
	h := sha256.New()
	if len(s) == 0 {
		h.Write([]byte("empty-content-set"))
	}
	for _, r := range s {
		data, err := json.Marshal(r)
		if err != nil {
			return "", fmt.Errorf("marshal %s: %w", r.Source(), err)
		}
		h.Write([]byte(r.Source()))
		h.Write([]byte("\n"))
		h.Write(data)
		h.Write([]byte("\n"))
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
