package categories

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/JaimeStill/clearcase/internal/text"
)

// KeyPrefix marks values produced by Fingerprint.
const KeyPrefix = "inc_"

// Fingerprint derives the incident key from raw notes and the event date.
// Notes and date are case-folded and whitespace-collapsed first, so re-edits
// that only change capitalization or spacing keep the same key.
func Fingerprint(notes, date string) string {
	sum := sha256.Sum256([]byte(text.Fold(notes) + "\x1f" + text.Fold(date)))
	return KeyPrefix + hex.EncodeToString(sum[:])[:16]
}
