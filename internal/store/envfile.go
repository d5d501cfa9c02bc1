package store

import (
	"regexp"
	"strings"
)

// keyLine matches a KEY=VALUE line. Values may be bare or double-quoted;
// anything else is a foreign line and survives rewrites byte for byte.
var keyLine = regexp.MustCompile(`^\s*([A-Za-z_][A-Za-z0-9_]*)\s*=\s*(.*?)\s*$`)

// Document is the parsed form of a credentials file. It keeps every line,
// including comments, blanks and lines it cannot parse, so that a
// parse-mutate-serialize cycle only changes the lines that were set.
type Document struct {
	lines []docLine
}

type docLine struct {
	raw   string // emitted verbatim unless the line is rewritten by Set
	key   string // empty for foreign lines
	value string
}

// Parse builds a Document from raw file contents.
func Parse(data []byte) *Document {
	doc := &Document{}
	if len(data) == 0 {
		return doc
	}

	text := strings.TrimSuffix(string(data), "\n")
	for _, raw := range strings.Split(text, "\n") {
		line := docLine{raw: raw}
		trimmed := strings.TrimSpace(raw)
		if trimmed != "" && !strings.HasPrefix(trimmed, "#") {
			if m := keyLine.FindStringSubmatch(raw); m != nil {
				line.key = m[1]
				line.value = unquote(m[2])
			}
		}
		doc.lines = append(doc.lines, line)
	}
	return doc
}

// Get returns the value of the last line carrying the key.
func (d *Document) Get(key string) (string, bool) {
	value, found := "", false
	for _, line := range d.lines {
		if line.key == key {
			value, found = line.value, true
		}
	}
	return value, found
}

// Set rewrites the lines holding key in place, or appends a new line.
// Every duplicate of the key is rewritten so Get stays consistent.
func (d *Document) Set(key, value string) {
	found := false
	for i, line := range d.lines {
		if line.key == key {
			d.lines[i] = docLine{raw: formatLine(key, value), key: key, value: value}
			found = true
		}
	}
	if !found {
		d.lines = append(d.lines, docLine{raw: formatLine(key, value), key: key, value: value})
	}
}

// Pair is one parsed KEY=VALUE entry.
type Pair struct {
	Key   string
	Value string
}

// Pairs returns all parsed entries in file order.
func (d *Document) Pairs() []Pair {
	var pairs []Pair
	for _, line := range d.lines {
		if line.key != "" {
			pairs = append(pairs, Pair{Key: line.key, Value: line.value})
		}
	}
	return pairs
}

// Bytes serializes the document back to file contents.
func (d *Document) Bytes() []byte {
	if len(d.lines) == 0 {
		return nil
	}
	var b strings.Builder
	for _, line := range d.lines {
		b.WriteString(line.raw)
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

func formatLine(key, value string) string {
	return key + "=\"" + value + "\""
}

func unquote(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}
