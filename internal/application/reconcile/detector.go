package reconcile

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/bizorder/backend/internal/domain/geo"
	"github.com/bizorder/backend/internal/infrastructure/feed"
)

// The change detector compares the stored reference-code set against an
// incoming feed by fingerprint. The fingerprint covers code, fee class and
// active flag; address text is descriptive only and changes to it alone do
// not trigger a replace. Row order never matters: lines are sorted before
// hashing, so a reordered feed with identical content maps to the same
// fingerprint.

func fingerprintLine(code string, feeClass geo.FeeClass, active bool) string {
	return fmt.Sprintf("%s|%s|%t", code, feeClass, active)
}

func canonicalFingerprint(lines []string) string {
	sort.Strings(lines)
	sum := sha256.Sum256([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(sum[:])
}

// FingerprintIncoming fingerprints a parsed feed
func FingerprintIncoming(records []feed.ReferenceRecord) string {
	lines := make([]string, 0, len(records))
	for _, r := range records {
		lines = append(lines, fingerprintLine(r.Code, r.FeeClass, r.Active))
	}
	return canonicalFingerprint(lines)
}

// FingerprintStored fingerprints the stored reference-code set
func FingerprintStored(rows []geo.ReferenceCode) string {
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, fingerprintLine(r.Code, r.FeeClass, r.Active))
	}
	return canonicalFingerprint(lines)
}

// DetectBranch decides the resync path. An empty destination is always an
// empty-load regardless of fingerprints; otherwise equal fingerprints mean
// no work and differing fingerprints mean a full replace. There is no
// row-level diffing path.
func DetectBranch(storedCount int64, stored []geo.ReferenceCode, incoming []feed.ReferenceRecord) ResyncBranch {
	if storedCount == 0 {
		return BranchEmptyLoad
	}
	if FingerprintStored(stored) == FingerprintIncoming(incoming) {
		return BranchNone
	}
	return BranchFullReplace
}
