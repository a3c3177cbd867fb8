package dedupe

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"

	"github.com/rxtsh/ai-for-bharat/internal/models"
)

// Fingerprint derives a stable identity for a record from its canonicalized
// JSON form (RFC 8785). Byte-different encodings of the same record, key
// order or whitespace, fingerprint identically.
func Fingerprint(record *models.ProcurementRecord) (string, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("failed to marshal record: %w", err)
	}

	canonical, err := jcs.Transform(raw)
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize record: %w", err)
	}

	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
