package blocks

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
)

// CodeEntry is one key and body taken from a structured code payload.
type CodeEntry struct {
	Key  string
	Text string
}

// CodePayload is the outcome of interpreting a raw code payload string:
// either the entries of a JSON object in their original key order, or the
// raw text itself when the string does not decode as one.
type CodePayload struct {
	Entries    []CodeEntry
	Raw        string
	Structured bool
}

// ParseCodePayload interprets raw as a JSON object. Object values that are
// JSON strings become entry text verbatim; other values keep their compact
// JSON form. A repeated key collapses to one entry at its first position
// carrying the last value. Anything else, including valid JSON that is not
// an object, yields an unstructured payload carrying raw untouched.
func ParseCodePayload(raw string) CodePayload {
	dec := json.NewDecoder(strings.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return CodePayload{Raw: raw}
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return CodePayload{Raw: raw}
	}
	var entries []CodeEntry
	index := make(map[string]int)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return CodePayload{Raw: raw}
		}
		key, ok := keyTok.(string)
		if !ok {
			return CodePayload{Raw: raw}
		}
		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return CodePayload{Raw: raw}
		}
		if i, seen := index[key]; seen {
			entries[i].Text = codeText(val)
			continue
		}
		index[key] = len(entries)
		entries = append(entries, CodeEntry{Key: key, Text: codeText(val)})
	}
	if _, err := dec.Token(); err != nil {
		return CodePayload{Raw: raw}
	}
	// Trailing content after the object means the string as a whole is not
	// valid JSON.
	if _, err := dec.Token(); err != io.EOF {
		return CodePayload{Raw: raw}
	}
	return CodePayload{Entries: entries, Structured: true}
}

func codeText(val json.RawMessage) string {
	var s string
	if err := json.Unmarshal(val, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, val); err != nil {
		return string(val)
	}
	return buf.String()
}
