package report

import (
	"encoding/hex"
	"encoding/json"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint hashes the serialized evidence and environment payloads
// with blake2b-256 and returns the hex digest. Two stored runs with
// identical evidence but a mismatched fingerprint indicate the row was
// edited after the fact — a cheap tamper-evidence check for an
// external auditor of the SQLite file, not something the probe itself
// ever re-verifies.
func Fingerprint(environmentJSON, evidenceJSON string) string {
	sum := blake2b.Sum256(append([]byte(environmentJSON), []byte(evidenceJSON)...))
	return hex.EncodeToString(sum[:])
}

// MarshalJSON is a small helper so the entry point doesn't need to
// import encoding/json directly just to build a report.Run.
func MarshalJSON(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
