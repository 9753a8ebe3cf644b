package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kobocore/supplemental/internal/action"
	"github.com/kobocore/supplemental/internal/schema"
)

func validConfig() map[string]any {
	return map[string]any{
		VersionKey: SchemaVersion,
		SchemaKey: map[string]any{
			"group_intro/recording": map[string]any{
				action.ManualTranscriptionID: []any{
					map[string]any{"language": "fr"},
					map[string]any{"language": "en"},
				},
				action.ManualTranslationID: []any{
					map[string]any{"language": "de"},
				},
			},
		},
	}
}

func TestLookup(t *testing.T) {
	reg := New()

	def, ok := reg.Lookup(action.ManualTranscriptionID)
	require.True(t, ok)
	assert.Equal(t, action.ManualTranscriptionID, def.ID)

	_, ok = reg.Lookup("automatic_levitation")
	assert.False(t, ok)
}

func TestIDs_Sorted(t *testing.T) {
	assert.Equal(t, []string{action.ManualTranscriptionID, action.ManualTranslationID}, New().IDs())
}

func TestValidateConfig_Valid(t *testing.T) {
	assert.NoError(t, New().ValidateConfig(validConfig()))
}

func TestValidateConfig_VersionPinned(t *testing.T) {
	reg := New()

	cfg := validConfig()
	cfg[VersionKey] = "0"
	err := reg.ValidateConfig(cfg)
	require.Error(t, err, "a version mismatch is a hard failure, not a warning")
	assert.True(t, schema.IsValidationError(err))

	delete(cfg, VersionKey)
	assert.Error(t, reg.ValidateConfig(cfg))
}

func TestValidateConfig_XPathShape(t *testing.T) {
	reg := New()

	cfg := validConfig()
	cfg[SchemaKey].(map[string]any)["1starts_with_digit"] = map[string]any{
		action.ManualTranscriptionID: []any{map[string]any{"language": "fr"}},
	}
	assert.Error(t, reg.ValidateConfig(cfg), "xpath segments must be valid XML names")

	cfg = validConfig()
	cfg[SchemaKey].(map[string]any)["group/child.v2"] = map[string]any{
		action.ManualTranscriptionID: []any{map[string]any{"language": "fr"}},
	}
	assert.NoError(t, reg.ValidateConfig(cfg))
}

func TestValidateConfig_UnknownAction(t *testing.T) {
	cfg := validConfig()
	cfg[SchemaKey].(map[string]any)["group_intro/recording"].(map[string]any)["automatic_levitation"] = []any{}
	assert.Error(t, New().ValidateConfig(cfg))
}

func TestValidateConfig_Params(t *testing.T) {
	reg := New()

	cfg := validConfig()
	question := cfg[SchemaKey].(map[string]any)["group_intro/recording"].(map[string]any)
	question[action.ManualTranscriptionID] = []any{map[string]any{"lang": "fr"}}
	assert.Error(t, reg.ValidateConfig(cfg), "params entry must match the action's params schema")

	question[action.ManualTranscriptionID] = []any{}
	assert.Error(t, reg.ValidateConfig(cfg), "a configured action needs at least one entry")
}

func TestAdvancedFeaturesSchema_CoversAllRegisteredActions(t *testing.T) {
	reg := New()
	composed := reg.AdvancedFeaturesSchema()

	perQuestion := composed["properties"].(map[string]any)[SchemaKey].(map[string]any)["patternProperties"].(map[string]any)[XPathPattern].(map[string]any)["properties"].(map[string]any)
	for _, id := range reg.IDs() {
		assert.Contains(t, perQuestion, id)
	}
}
