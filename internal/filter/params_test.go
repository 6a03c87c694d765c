package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSplitsMultiTermValues(t *testing.T) {
	params := Normalize(map[string]any{
		"identifier_or_title_cont_all": "lion,  tiger\nbear",
		"title_cont":                   "lion, tiger",
	})
	assert.Equal(t, []string{"lion", "tiger", "bear"}, params["identifier_or_title_cont_all"])
	// single-term keys keep their raw value
	assert.Equal(t, "lion, tiger", params["title_cont"])
}

func TestNormalizeSplitsAnySuffix(t *testing.T) {
	params := Normalize(map[string]any{
		"identifier_or_title_cont_any": []string{"lion tiger", "bear"},
	})
	assert.Equal(t, []string{"lion", "tiger", "bear"}, params["identifier_or_title_cont_any"])
}

func TestNormalizeExpandsScopes(t *testing.T) {
	params := Normalize(map[string]any{
		ScopeKey:     []string{"represented", "by_date"},
		"title_cont": "cat",
	})
	assert.Equal(t, true, params["represented"])
	assert.Equal(t, true, params["by_date"])
	assert.NotContains(t, params, ScopeKey)
	assert.Equal(t, "cat", params["title_cont"])
}

func TestNormalizeScalarScope(t *testing.T) {
	params := Normalize(map[string]any{ScopeKey: "unassigned"})
	assert.Equal(t, Params{"unassigned": true}, params)
}

func TestNormalizeEmpty(t *testing.T) {
	assert.True(t, Normalize(nil).Empty())
	assert.True(t, Normalize(map[string]any{}).Empty())
	assert.False(t, Normalize(map[string]any{"title_cont": "x"}).Empty())
}
