package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/JakeFAU/pipeline-notify/blocks"
)

// footerTimeLayout formats the send time in the context footer.
const footerTimeLayout = "2006-01-02 15:04:05"

// renderBlocks builds the Block Kit sequence for one notification: optional
// header, glyph+severity body, field sections chunked at the Block Kit
// limit, fenced code sections, and the system footer.
func renderBlocks(level Level, text string, m message, system string, sentAt time.Time) blocks.Payload {
	seq := make([]blocks.Block, 0, 4)
	if m.title != "" {
		seq = append(seq, blocks.Header(m.title))
	}
	seq = append(seq, blocks.Section(fmt.Sprintf("%s *%s*\n%s", level.Glyph(), level, text)))

	if len(m.fields) > 0 {
		texts := make([]string, 0, len(m.fields))
		for _, f := range m.fields {
			texts = append(texts, fmt.Sprintf("*%s:*\n%s", f.Name, fieldText(f)))
		}
		seq = append(seq, blocks.FieldSections(texts)...)
	}

	for _, e := range codeEntries(m) {
		if e.Key == "" {
			seq = append(seq, blocks.Section(fmt.Sprintf("```%s```", e.Text)))
			continue
		}
		seq = append(seq, blocks.Section(fmt.Sprintf("*%s:*\n```%s```", e.Key, e.Text)))
	}

	footer := fmt.Sprintf("System: %s | Sent at: %s", system, sentAt.Format(footerTimeLayout))
	seq = append(seq, blocks.Context(footer))
	return blocks.Payload{Blocks: seq}
}

// renderRecord builds the multi-line text record appended to the local
// notification log: optional title banner, glyph+severity line, then the
// Fields and Code Blocks sections when present.
func renderRecord(level Level, text string, m message) string {
	var parts []string
	if m.title != "" {
		parts = append(parts, fmt.Sprintf("=== %s ===", m.title))
	}
	parts = append(parts, fmt.Sprintf("%s %s: %s", level.Glyph(), level, text))

	if len(m.fields) > 0 {
		lines := make([]string, 0, len(m.fields))
		for _, f := range m.fields {
			if len(f.Items) > 0 {
				nested := make([]string, 0, len(f.Items))
				for _, it := range f.Items {
					nested = append(nested, fmt.Sprintf("    %s: %s", it.Key, it.Value))
				}
				lines = append(lines, f.Name+":\n"+strings.Join(nested, "\n"))
			} else {
				lines = append(lines, fmt.Sprintf("%s: %s", f.Name, f.Value))
			}
		}
		parts = append(parts, "Fields:\n"+strings.Join(lines, "\n"))
	}

	if entries := codeEntries(m); len(entries) > 0 {
		lines := make([]string, 0, len(entries))
		for _, e := range entries {
			if e.Key == "" {
				lines = append(lines, e.Text)
				continue
			}
			lines = append(lines, e.Key+":\n"+e.Text)
		}
		parts = append(parts, "Code Blocks:\n"+strings.Join(lines, "\n"))
	}

	return strings.Join(parts, "\n")
}

// fieldText renders a field value for remote sections. Grouped items become
// bulleted lines.
func fieldText(f Field) string {
	if len(f.Items) == 0 {
		return f.Value
	}
	lines := make([]string, 0, len(f.Items))
	for _, it := range f.Items {
		lines = append(lines, fmt.Sprintf("• %s: %s", it.Key, it.Value))
	}
	return strings.Join(lines, "\n")
}

// codeEntries resolves explicit code blocks plus the raw payload into one
// ordered list. An unstructured raw payload yields a single keyless entry.
func codeEntries(m message) []blocks.CodeEntry {
	entries := make([]blocks.CodeEntry, 0, len(m.code))
	for _, cb := range m.code {
		entries = append(entries, blocks.CodeEntry{Key: cb.Name, Text: cb.Text})
	}
	if m.hasRaw {
		parsed := blocks.ParseCodePayload(m.rawCode)
		if parsed.Structured {
			entries = append(entries, parsed.Entries...)
		} else {
			entries = append(entries, blocks.CodeEntry{Text: parsed.Raw})
		}
	}
	return entries
}
