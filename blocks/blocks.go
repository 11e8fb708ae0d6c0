package blocks

// Block and text object type identifiers defined by Block Kit.
const (
	TypeHeader    = "header"
	TypeSection   = "section"
	TypeContext   = "context"
	TypePlainText = "plain_text"
	TypeMrkdwn    = "mrkdwn"
)

// MaxSectionFields is the Block Kit limit on fields carried by one section.
const MaxSectionFields = 10

// Text is a Block Kit text object.
type Text struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Block is a single layout block. Only the members used by the block's type
// are populated; the rest are omitted from the wire form.
type Block struct {
	Type     string `json:"type"`
	Text     *Text  `json:"text,omitempty"`
	Fields   []Text `json:"fields,omitempty"`
	Elements []Text `json:"elements,omitempty"`
}

// Payload is the webhook request body, {"blocks":[...]}.
type Payload struct {
	Blocks []Block `json:"blocks"`
}

// PlainText builds a plain_text text object.
func PlainText(s string) Text {
	return Text{Type: TypePlainText, Text: s}
}

// Mrkdwn builds a mrkdwn text object.
func Mrkdwn(s string) Text {
	return Text{Type: TypeMrkdwn, Text: s}
}

// Header builds a header block carrying a plain_text title.
func Header(title string) Block {
	t := PlainText(title)
	return Block{Type: TypeHeader, Text: &t}
}

// Section builds a section block with a mrkdwn body.
func Section(md string) Block {
	t := Mrkdwn(md)
	return Block{Type: TypeSection, Text: &t}
}

// Context builds a context footer block with a single mrkdwn element.
func Context(md string) Block {
	return Block{Type: TypeContext, Elements: []Text{Mrkdwn(md)}}
}

// FieldSections chunks pre-rendered field texts into section blocks holding
// at most MaxSectionFields mrkdwn entries each, preserving order.
func FieldSections(texts []string) []Block {
	var out []Block
	for start := 0; start < len(texts); start += MaxSectionFields {
		end := min(start+MaxSectionFields, len(texts))
		fields := make([]Text, 0, end-start)
		for _, s := range texts[start:end] {
			fields = append(fields, Mrkdwn(s))
		}
		out = append(out, Block{Type: TypeSection, Fields: fields})
	}
	return out
}
