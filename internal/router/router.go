// Package router dispatches inbound supplemental-data edits.
//
// Given an asset and a nested payload of {question_xpath: {action_id:
// data}}, the router checks that every requested pair is configured on the
// asset, resolves actions through the registry, applies each edit with the
// action's revision merge, and persists the combined document in a single
// compare-and-swap write. A failure on any pair aborts the whole request:
// nothing is persisted.
package router

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/kobocore/supplemental/internal/action"
	"github.com/kobocore/supplemental/internal/registry"
)

// SubmissionKey is the reserved payload key naming the target submission.
const SubmissionKey = "_submission"

// Asset exposes the slices of the (external) asset entity the router needs.
// The advanced-features document is read-only from this side.
type Asset interface {
	UID() string
	AdvancedFeatures() map[string]any
}

// Record is one stored supplemental-data document together with the
// revision counter used for compare-and-swap writes.
type Record struct {
	Content map[string]any
	Rev     int64
}

// Store persists supplemental-data documents keyed by (asset, submission).
//
// Update must be conditional on expectRev matching the stored revision and
// return ErrConflict otherwise. This closes the lost-update window between
// concurrent edits to different questions of the same submission: the loser
// fails cleanly instead of silently clobbering the winner's write.
type Store interface {
	GetOrCreate(ctx context.Context, assetUID, submissionUUID string) (Record, error)
	Update(ctx context.Context, assetUID, submissionUUID string, content map[string]any, expectRev int64) error
}

// ErrConflict is returned by Store.Update when the stored revision no
// longer matches expectRev. Callers retry by re-reading and re-applying.
var ErrConflict = &DispatchError{
	Code:    ErrCodeConflict,
	Message: "document was modified concurrently",
}

// Router applies edit payloads to persisted supplemental-data documents.
type Router struct {
	registry *registry.Registry
	store    Store
	clock    action.Clock
}

// New creates a Router. The registry and clock are shared values
// constructed once at process start and passed in explicitly.
func New(reg *registry.Registry, store Store, clock action.Clock) *Router {
	return &Router{registry: reg, store: store, clock: clock}
}

// Apply validates and applies one edit payload against the asset's stored
// supplemental data, returning the persisted document.
//
// The payload carries two reserved keys — _version (must equal the
// supported schema version) and _submission (the target submission UUID) —
// plus one entry per question xpath being edited. Questions and actions
// are applied in sorted order so a multi-field request is deterministic.
func (r *Router) Apply(ctx context.Context, asset Asset, payload map[string]any) (map[string]any, error) {
	if err := checkVersion(payload[registry.VersionKey]); err != nil {
		return nil, err
	}

	features := asset.AdvancedFeatures()
	if err := checkVersion(features[registry.VersionKey]); err != nil {
		return nil, err
	}
	configured, _ := features[registry.SchemaKey].(map[string]any)

	submission, ok := payload[SubmissionKey].(string)
	if !ok || submission == "" {
		return nil, NewBadPayloadError("missing %s", SubmissionKey)
	}
	if _, err := uuid.Parse(submission); err != nil {
		return nil, NewBadPayloadError("%s %q is not a valid UUID", SubmissionKey, submission)
	}

	xpaths := make([]string, 0, len(payload))
	for k := range payload {
		if k == registry.VersionKey || k == SubmissionKey {
			continue
		}
		xpaths = append(xpaths, k)
	}
	sort.Strings(xpaths)

	rec, err := r.store.GetOrCreate(ctx, asset.UID(), submission)
	if err != nil {
		return nil, err
	}
	doc := rec.Content
	if doc == nil {
		doc = map[string]any{}
	}

	for _, xpath := range xpaths {
		questionCfg, ok := configured[xpath].(map[string]any)
		if !ok {
			return nil, NewInvalidXPathError(xpath)
		}
		edits, ok := payload[xpath].(map[string]any)
		if !ok {
			return nil, NewBadPayloadError("entry for %q is not an object", xpath)
		}
		if err := r.applyQuestion(doc, xpath, questionCfg, edits); err != nil {
			return nil, err
		}
	}

	if err := r.store.Update(ctx, asset.UID(), submission, doc, rec.Rev); err != nil {
		return nil, err
	}
	return doc, nil
}

// applyQuestion applies all action edits for one question, mutating doc in
// place. doc is the router's private working copy; the caller persists it.
func (r *Router) applyQuestion(doc map[string]any, xpath string, questionCfg, edits map[string]any) error {
	actionIDs := make([]string, 0, len(edits))
	for id := range edits {
		actionIDs = append(actionIDs, id)
	}
	sort.Strings(actionIDs)

	for _, actionID := range actionIDs {
		def, ok := r.registry.Lookup(actionID)
		if !ok {
			return NewInvalidActionError(xpath, actionID, "unknown action")
		}
		params, ok := paramObjects(questionCfg[actionID])
		if !ok {
			return NewInvalidActionError(xpath, actionID, "action is not configured for this question")
		}

		act, err := def.New(xpath, params, r.clock)
		if err != nil {
			return err
		}

		edit, ok := edits[actionID].(map[string]any)
		if !ok {
			return NewBadPayloadError("edit for %q/%q is not an object", xpath, actionID)
		}
		if err := act.ValidateData(edit); err != nil {
			return err
		}

		current := currentValue(doc, xpath, actionID)
		revised, err := act.ReviseField(current, edit)
		if err != nil {
			return err
		}
		// A deleted record is the empty object and has no metadata to
		// satisfy the result schema; only live records are checked.
		if len(revised) > 0 {
			if err := act.ValidateResult(revised); err != nil {
				return err
			}
		}

		question, ok := doc[xpath].(map[string]any)
		if !ok {
			question = map[string]any{}
			doc[xpath] = question
		}
		question[actionID] = revised
	}
	return nil
}

// currentValue returns the stored value for one (question, action) pair,
// or an empty object when none exists yet.
func currentValue(doc map[string]any, xpath, actionID string) map[string]any {
	question, ok := doc[xpath].(map[string]any)
	if !ok {
		return map[string]any{}
	}
	value, ok := question[actionID].(map[string]any)
	if !ok {
		return map[string]any{}
	}
	return value
}

// paramObjects converts a configured params array from its JSON-decoded
// form. A missing or malformed array means the action was not configured
// for the question; the caller reports that as an invalid-action error.
func paramObjects(raw any) ([]map[string]any, bool) {
	list, ok := raw.([]any)
	if !ok {
		return nil, false
	}
	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, false
		}
		out = append(out, obj)
	}
	return out, true
}

// checkVersion pins a document's _version to the supported constant.
func checkVersion(v any) error {
	version, _ := v.(string)
	if version != registry.SchemaVersion {
		return NewUnsupportedVersionError(version, registry.SchemaVersion)
	}
	return nil
}
