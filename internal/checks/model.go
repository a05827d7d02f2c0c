package checks

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"

	"github.com/myposcore/backend/internal/collection"
)

// Run mirrors one row of `collection_checks`.
type Run struct {
	ID          uuid.UUID          `json:"id"`
	Name        string             `json:"name"`
	Fingerprint string             `json:"fingerprint"`
	Total       int                `json:"total"`
	Valid       int                `json:"valid"`
	Issues      []collection.Issue `json:"issues"`
	CreatedAt   time.Time          `json:"created_at"`
}

// NewRun records a check report for doc. An empty name falls back to info.name.
func NewRun(name string, doc *collection.Document, rep collection.Report) Run {
	if name == "" {
		name = doc.Name()
	}
	issues := rep.Issues
	if issues == nil {
		issues = []collection.Issue{}
	}
	return Run{
		Name:        name,
		Fingerprint: Fingerprint(doc.Bytes()),
		Total:       rep.Total,
		Valid:       rep.Valid,
		Issues:      issues,
	}
}

// Fingerprint is the hex sha256 of the collection content.
func Fingerprint(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
