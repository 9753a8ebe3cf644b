package action

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kobocore/supplemental/internal/testutil"
)

func newTranslationAction(t *testing.T, clock Clock) Action {
	t.Helper()
	act, err := ManualTranslation().New("q1", []map[string]any{{"language": "de"}}, clock)
	require.NoError(t, err)
	return act
}

func TestManualTranslation_PayloadFieldIsValue(t *testing.T) {
	act := newTranslationAction(t, SystemClock{})

	assert.NoError(t, act.ValidateData(map[string]any{"language": "de", "value": "Keine Ahnung"}))
	assert.Error(t, act.ValidateData(map[string]any{"language": "de", "transcript": "wrong field"}))
}

func TestManualTranslation_Revise(t *testing.T) {
	clock := testutil.NewStepClock(t1, time.Minute)
	act := newTranslationAction(t, clock)

	record, err := act.ReviseField(map[string]any{}, map[string]any{"language": "de", "value": "Keine Ahnung"})
	require.NoError(t, err)
	assert.Equal(t, "Keine Ahnung", record["value"])
	assert.Equal(t, stamp1, record[DateCreatedKey])
	require.NoError(t, act.ValidateResult(record))
}

func TestManualTranslation_RecordRepr(t *testing.T) {
	act := newTranslationAction(t, SystemClock{})

	assert.Equal(t, "Keine Ahnung", act.RecordRepr(map[string]any{"value": "Keine Ahnung"}))
	assert.Equal(t, "", act.RecordRepr(map[string]any{}))
}

func TestManualTranslation_DeleteSentinel(t *testing.T) {
	act := newTranslationAction(t, SystemClock{})

	record, err := act.ReviseField(
		map[string]any{"language": "de", "value": "alt", DateCreatedKey: stamp1, DateModifiedKey: stamp1},
		map[string]any{"language": "de", "value": DeleteSentinel},
	)
	require.NoError(t, err)
	assert.Empty(t, record)
}
