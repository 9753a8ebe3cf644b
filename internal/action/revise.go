package action

import (
	"strings"
	"time"

	"github.com/kobocore/supplemental/internal/schema"
)

// CheckReservedKeys rejects any top-level leading-underscore key in an edit.
// Metadata keys are assigned during merge and are never legal inbound, the
// reserved three included. Data-schema validation catches these first; this
// is the defensive check guarding the merge itself.
func CheckReservedKeys(edit map[string]any) error {
	for k := range edit {
		if strings.HasPrefix(k, "_") {
			return &ReservedKeyError{Key: k}
		}
	}
	return nil
}

// Revise merges a validated edit into the current stored value for one
// (question, action) pair and returns the new value.
//
// The merge:
//
//  1. Reads now exactly once; every timestamp assigned in this call agrees.
//  2. Snapshots current as a revision: _revisions is popped off, and
//     _dateModified is popped and becomes the revision's _dateCreated (the
//     revision is stamped with when its state was produced). A current
//     value with no _dateModified stamps the revision with now.
//  3. Deep-copies the edit and stamps _dateModified = now.
//  4. If current was non-empty, prepends the revision to the popped list
//     and attaches it as _revisions — index 0 is always the
//     most-recently-superseded state.
//  5. Carries _dateCreated over from current, or stamps now on the first
//     edit. Creation date never changes after that.
//
// An empty edit is an ordinary revision: the payload fields disappear from
// the top level and the prior state joins the history. Compare the delete
// sentinel, handled by each action before calling Revise, which discards
// the record entirely.
//
// Pure: neither argument is mutated, and the returned value shares no
// mutable structure with either.
func Revise(current, edit map[string]any, now time.Time) (map[string]any, error) {
	if err := CheckReservedKeys(edit); err != nil {
		return nil, err
	}
	stamp := now.UTC().Format(schema.Timestamp)

	created, hadCreated := current[DateCreatedKey].(string)

	revision := copyMap(current)
	revisions, _ := revision[RevisionsKey].([]any)
	delete(revision, RevisionsKey)
	if modified, ok := revision[DateModifiedKey].(string); ok {
		delete(revision, DateModifiedKey)
		revision[DateCreatedKey] = modified
	} else {
		revision[DateCreatedKey] = stamp
	}

	record := copyMap(edit)
	record[DateModifiedKey] = stamp
	if len(current) > 0 {
		record[RevisionsKey] = append([]any{map[string]any(revision)}, revisions...)
	}
	if hadCreated {
		record[DateCreatedKey] = created
	} else {
		record[DateCreatedKey] = stamp
	}
	return record, nil
}
