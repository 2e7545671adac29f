package detect

import "jellywatch/internal/media"

// IsRename reports whether the new record is existing content under a
// different identifier. A candidate matches when its fingerprint and
// name both equal the new record's while its item identifier differs;
// the first match wins. Candidates are assumed pre-filtered to
// same-name records by the caller.
//
// Fingerprint collisions across genuinely different content are treated
// as rare enough to ignore; this is a probabilistic heuristic inherited
// from the fingerprint design, not a correctness guarantee.
func (d *Detector) IsRename(newRec *media.Record, candidates []*media.Record) (bool, *media.Record) {
	if newRec == nil || newRec.Fingerprint == "" {
		return false, nil
	}
	for _, candidate := range candidates {
		if candidate == nil {
			continue
		}
		if candidate.Fingerprint == newRec.Fingerprint &&
			candidate.Name == newRec.Name &&
			candidate.ItemID != newRec.ItemID {
			return true, candidate
		}
	}
	return false, nil
}
