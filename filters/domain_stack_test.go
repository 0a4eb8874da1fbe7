package filters

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownFilterRendersCommonMark(t *testing.T) {
	out, err := MarkdownFilter("# hi")
	require.NoError(t, err)
	safe, ok := out.(SafeValue)
	require.True(t, ok)
	assert.Contains(t, safe.String(), "<h1")
}

func TestMarkdownLegacyFilterRendersWithBlackfriday(t *testing.T) {
	out, err := MarkdownLegacyFilter("**bold**")
	require.NoError(t, err)
	safe, ok := out.(SafeValue)
	require.True(t, ok)
	assert.Contains(t, safe.String(), "<strong>")
}

func TestToYAMLFilterMarshalsValue(t *testing.T) {
	out, err := ToYAMLFilter(map[string]int{"a": 1})
	require.NoError(t, err)
	safe, ok := out.(SafeValue)
	require.True(t, ok)
	assert.Contains(t, safe.String(), "a: 1")
}

func TestSlugifyFilterStripsDiacritics(t *testing.T) {
	out, err := SlugifyFilter("Café Déjà Vu")
	require.NoError(t, err)
	assert.Equal(t, "cafe-deja-vu", out)
}

func TestUpperFilterIsLocaleAware(t *testing.T) {
	out, err := UpperFilter("straße")
	require.NoError(t, err)
	assert.True(t, strings.Contains(out.(string), "STRA"))
}

func TestValidateCallRejectsUnknownFilter(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.ValidateCall("nope", 0))
}

func TestValidateCallEnforcesArity(t *testing.T) {
	r := NewRegistry()
	assert.NoError(t, r.ValidateCall("default", 1))
	assert.Error(t, r.ValidateCall("default", 0))
	assert.Error(t, r.ValidateCall("upper", 1))
}
