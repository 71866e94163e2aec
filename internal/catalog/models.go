package catalog

import (
	"strings"
	"time"
)

// Status represents the classification state of a catalog entry.
type Status string

const (
	// StatusDiscovered is the transient state between discovery and
	// classification.
	StatusDiscovered Status = "discovered"
	// StatusProcessed marks files whose metadata decoded and that sit in the
	// processed folder. Identifier and Title are always present.
	StatusProcessed Status = "processed"
	// StatusFailed marks files whose metadata could not be decoded; they sit
	// in the failed folder with no identifier or title.
	StatusFailed Status = "failed"
	// StatusDuplicate marks files sharing an identifier with at least one
	// other processed file; all of them move to the duplicates folder.
	StatusDuplicate Status = "duplicate"
	// StatusInconsistent marks entries whose on-disk relocation failed. The
	// recorded Path is the last verified location; the entry needs manual
	// follow-up and is skipped by later stages.
	StatusInconsistent Status = "inconsistent"
)

var allStatuses = []Status{
	StatusDiscovered,
	StatusProcessed,
	StatusFailed,
	StatusDuplicate,
	StatusInconsistent,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// Entry is the in-memory record tracking one file's metadata, location, and
// classification state.
type Entry struct {
	ID int64
	// SourcePath is the path the file was discovered at. Unique per run.
	SourcePath string
	// Path is the current on-disk location, authoritative for where the
	// physical file sits.
	Path string
	// OriginalName is the basename at discovery time, reported in the file
	// column.
	OriginalName string
	Identifier   string
	Title        string
	Authors      []string
	Status       Status
	// ErrorMessage records the per-file failure that produced a failed or
	// inconsistent state.
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsDuplicate reports whether the entry was reclassified as a duplicate.
func (e *Entry) IsDuplicate() bool { return e.Status == StatusDuplicate }

// IsFailed reports whether metadata extraction failed for the entry.
func (e *Entry) IsFailed() bool { return e.Status == StatusFailed }

// SetInconsistent parks the entry for manual follow-up after a failed
// relocation, keeping the last verified location.
func (e *Entry) SetInconsistent(message string) {
	e.Status = StatusInconsistent
	e.ErrorMessage = message
}
