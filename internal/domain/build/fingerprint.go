package build

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint identifies one set of ingestion inputs. Two runs with the same
// InputHash produce the same snapshot.
type Fingerprint struct {
	IssuesHash   string
	SubjectsHash string
	ConfigHash   string
	InputHash    string
}

func (f *Fingerprint) ComputeInputHash() {
	h := sha256.New()
	h.Write([]byte(f.IssuesHash))
	h.Write([]byte{0})
	h.Write([]byte(f.SubjectsHash))
	h.Write([]byte{0})
	h.Write([]byte(f.ConfigHash))
	f.InputHash = hex.EncodeToString(h.Sum(nil))
}

func (f Fingerprint) Equal(other Fingerprint) bool {
	return f.InputHash != "" && f.InputHash == other.InputHash
}

func HashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
