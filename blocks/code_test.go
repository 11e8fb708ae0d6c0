package blocks

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestParseCodePayloadStructured verifies a JSON object becomes one entry
// per top-level key with string values carried verbatim.
func TestParseCodePayloadStructured(t *testing.T) {
	t.Parallel()

	p := ParseCodePayload(`{"traceback":"line1\nline2","query":"SELECT 1"}`)
	require.True(t, p.Structured)
	require.Len(t, p.Entries, 2)
	require.Equal(t, CodeEntry{Key: "traceback", Text: "line1\nline2"}, p.Entries[0])
	require.Equal(t, CodeEntry{Key: "query", Text: "SELECT 1"}, p.Entries[1])
}

// TestParseCodePayloadKeyOrder verifies entries come back in the order the
// keys appear in the source text, not sorted.
func TestParseCodePayloadKeyOrder(t *testing.T) {
	t.Parallel()

	p := ParseCodePayload(`{"zeta":"1","alpha":"2","mid":"3"}`)
	require.True(t, p.Structured)
	keys := make([]string, 0, len(p.Entries))
	for _, e := range p.Entries {
		keys = append(keys, e.Key)
	}
	require.Equal(t, []string{"zeta", "alpha", "mid"}, keys)
}

// TestParseCodePayloadDuplicateKeys verifies repeated keys collapse to one
// entry holding the last value at the first key's position.
func TestParseCodePayloadDuplicateKeys(t *testing.T) {
	t.Parallel()

	p := ParseCodePayload(`{"a":"x","b":"1","a":"y"}`)
	require.True(t, p.Structured)
	require.Len(t, p.Entries, 2)
	require.Equal(t, CodeEntry{Key: "a", Text: "y"}, p.Entries[0])
	require.Equal(t, CodeEntry{Key: "b", Text: "1"}, p.Entries[1])
}

// TestParseCodePayloadNonStringValues verifies non-string object values keep
// their compact JSON form.
func TestParseCodePayloadNonStringValues(t *testing.T) {
	t.Parallel()

	p := ParseCodePayload(`{"count": 3, "detail": {"x": 1, "y": [2, 3]}}`)
	require.True(t, p.Structured)
	require.Equal(t, "3", p.Entries[0].Text)
	require.Equal(t, `{"x":1,"y":[2,3]}`, p.Entries[1].Text)
}

// TestParseCodePayloadFallback verifies text that is not JSON stays raw.
func TestParseCodePayloadFallback(t *testing.T) {
	t.Parallel()

	p := ParseCodePayload("panic: runtime error at main.go:42")
	require.False(t, p.Structured)
	require.Empty(t, p.Entries)
	require.Equal(t, "panic: runtime error at main.go:42", p.Raw)
}

// TestParseCodePayloadNonObjectJSON verifies valid JSON without top-level
// keys is treated as raw text rather than structured entries.
func TestParseCodePayloadNonObjectJSON(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{`[1,2,3]`, `"quoted"`, `42`, `true`} {
		p := ParseCodePayload(raw)
		require.False(t, p.Structured, "input %s", raw)
		require.Equal(t, raw, p.Raw)
	}
}

// TestParseCodePayloadTrailingContent verifies an object followed by extra
// content is rejected as a whole.
func TestParseCodePayloadTrailingContent(t *testing.T) {
	t.Parallel()

	p := ParseCodePayload(`{"a":"1"} trailing`)
	require.False(t, p.Structured)
	require.Equal(t, `{"a":"1"} trailing`, p.Raw)
}
