package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseJSONRejectsTrailingData(t *testing.T) {
	var v map[string]string
	require.NoError(t, ParseJSON(`{"a":"b"}`, &v))
	require.Equal(t, "b", v["a"])

	require.Error(t, ParseJSON(`{"a":"b"} {"c":"d"}`, &v))
}

func TestQuoteJSONKeys(t *testing.T) {
	require.Equal(t, `{"title":"x", "steps":[1]}`, QuoteJSONKeys(`{title:"x", steps:[1]}`))
}

func TestExtractJSONObject(t *testing.T) {
	require.Equal(t, `{"a":1}`, ExtractJSONObject("```json\n{\"a\":1}\n```"))
	require.Equal(t, "no json", ExtractJSONObject("  no json "))
}
