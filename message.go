package notify

// Item is one entry of a grouped field value.
type Item struct {
	Key   string
	Value string
}

// Field is a single named entry of a notification. Plain fields carry
// Value; grouped fields carry Items and render as a bulleted sub-list.
// Fields keep the order they were given in, unlike a map.
type Field struct {
	Name  string
	Value string
	Items []Item
}

// String builds a plain field.
func String(name, value string) Field {
	return Field{Name: name, Value: value}
}

// Group builds a field whose value renders as a list of key/value items.
func Group(name string, items ...Item) Field {
	return Field{Name: name, Items: items}
}

// Pair builds one entry of a grouped field.
func Pair(key, value string) Item {
	return Item{Key: key, Value: value}
}

// CodeBlock is a named preformatted payload rendered as a fenced block.
type CodeBlock struct {
	Name string
	Text string
}

// message collects the per-call options of a single notification.
type message struct {
	title   string
	fields  []Field
	code    []CodeBlock
	rawCode string
	hasRaw  bool
}

func newMessage(opts ...MessageOption) message {
	var m message
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// MessageOption customizes a single notification.
type MessageOption func(*message)

// WithTitle adds a header above the notification body.
func WithTitle(title string) MessageOption {
	return func(m *message) { m.title = title }
}

// WithFields appends ordered fields to the notification.
func WithFields(fields ...Field) MessageOption {
	return func(m *message) { m.fields = append(m.fields, fields...) }
}

// WithCodeBlocks appends named fenced blocks to the notification.
func WithCodeBlocks(code ...CodeBlock) MessageOption {
	return func(m *message) { m.code = append(m.code, code...) }
}

// WithRawCodeBlock attaches a preformatted payload as one raw string. A
// string that parses as a JSON object expands into one fenced block per
// top-level key, like WithCodeBlocks; anything else renders whole as a
// single fenced block.
func WithRawCodeBlock(raw string) MessageOption {
	return func(m *message) {
		m.rawCode = raw
		m.hasRaw = true
	}
}
