package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFence(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n[1,2]\n```":         `[1,2]`,
		`{"a":1}`:                 `{"a":1}`,
		"  \n{\"a\":1}\n  ":       `{"a":1}`,
	}
	for input, expected := range cases {
		assert.Equal(t, expected, StripCodeFence(input))
	}
}

func TestExtractJSONObject(t *testing.T) {
	raw := "Here is your recipe:\n```json\n{\"title\":\"Pancakes\"}\n```\nEnjoy!"
	assert.Equal(t, `{"title":"Pancakes"}`, ExtractJSONObject(raw))

	// 沒有物件時原樣返回，交由解析階段報錯
	assert.Equal(t, "no json here", ExtractJSONObject("no json here"))
}

func TestExtractJSONArray(t *testing.T) {
	raw := "Sure!\n```json\n[{\"title\":\"A\"},{\"title\":\"B\"}]\n```"
	assert.Equal(t, `[{"title":"A"},{"title":"B"}]`, ExtractJSONArray(raw))
}

func TestParseJSON_TrailingData(t *testing.T) {
	var v map[string]interface{}
	require.NoError(t, ParseJSON(`{"a":1}`, &v))

	err := ParseJSON(`{"a":1}{"b":2}`, &v)
	require.Error(t, err)
}

func TestParseJSONStrict_UnknownField(t *testing.T) {
	var v struct {
		Title string `json:"title"`
	}
	require.NoError(t, ParseJSON(`{"title":"A","extra":true}`, &v))
	require.Error(t, ParseJSONStrict(`{"title":"A","extra":true}`, &v))
}

func TestQuoteJSONKeys(t *testing.T) {
	raw := `{title: "A", servings: 4, nested: {step: 1}}`
	quoted := QuoteJSONKeys(raw)

	var v map[string]interface{}
	require.NoError(t, ParseJSON(quoted, &v))
	assert.Equal(t, "A", v["title"])
}
