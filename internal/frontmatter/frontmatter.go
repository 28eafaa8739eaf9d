// Package frontmatter splits `---` delimited YAML front matter from a markdown
// body and decodes it.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document opened a front matter
// block but never closed it.
var ErrMissingClosingDelimiter = errors.New("front matter opening delimiter found but closing delimiter is missing")

var bom = []byte("\xef\xbb\xbf")

// Style records the newline convention of a document so that Join and Encode
// can write it back the same way.
type Style struct {
	Newline            string
	HasTrailingNewline bool
}

// Split separates front matter from the markdown body.
//
// The opening and closing delimiters are lines consisting of `---`, optionally
// followed by spaces or tabs. A closing delimiter on the last line without a
// newline is accepted. When the document does not open with a delimiter, had is
// false and body is the whole input. A leading UTF-8 byte order mark is dropped.
func Split(content []byte) (fm []byte, body []byte, had bool, style Style, err error) {
	content = bytes.TrimPrefix(content, bom)
	style = detectStyle(content)

	first, rest := cutLine(content)
	if !isDelimiter(first) {
		return nil, content, false, style, nil
	}

	start := len(content) - len(rest)
	offset := start
	for len(rest) > 0 {
		line, next := cutLine(rest)
		if isDelimiter(line) {
			return content[start:offset], next, true, style, nil
		}
		offset += len(rest) - len(next)
		rest = next
	}
	return nil, nil, false, style, ErrMissingClosingDelimiter
}

// Join reassembles a document from raw front matter and body. When had is false
// the body is returned unchanged.
func Join(fm []byte, body []byte, had bool, style Style) []byte {
	if !had {
		return body
	}

	delim := []byte("---" + newline(style))
	out := make([]byte, 0, 2*len(delim)+len(fm)+len(body))
	out = append(out, delim...)
	out = append(out, fm...)
	out = append(out, delim...)
	return append(out, body...)
}

// ParseYAML decodes raw front matter (without delimiters) into a generic map.
// Empty input yields an empty map.
func ParseYAML(fm []byte) (map[string]any, error) {
	fields := map[string]any{}
	if err := Decode(fm, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// Decode unmarshals raw front matter into out. Blank input leaves out untouched.
func Decode(fm []byte, out any) error {
	if len(bytes.TrimSpace(fm)) == 0 {
		return nil
	}
	return yaml.Unmarshal(fm, out)
}

// Encode marshals v as front matter YAML using the newline convention of style.
// A value that encodes to an empty mapping yields an empty slice.
func Encode(v any, style Style) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	out := buf.Bytes()
	if bytes.Equal(bytes.TrimSpace(out), []byte("{}")) {
		return []byte{}, nil
	}
	if nl := newline(style); nl != "\n" {
		out = bytes.ReplaceAll(out, []byte("\n"), []byte(nl))
	}
	return out, nil
}

// cutLine returns the first line of b without its line terminator and the
// remainder after the terminator.
func cutLine(b []byte) (line, rest []byte) {
	i := bytes.IndexByte(b, '\n')
	if i < 0 {
		return b, nil
	}
	return bytes.TrimSuffix(b[:i], []byte("\r")), b[i+1:]
}

func isDelimiter(line []byte) bool {
	return string(bytes.TrimRight(line, " \t")) == "---"
}

func newline(style Style) string {
	if style.Newline == "" {
		return "\n"
	}
	return style.Newline
}

func detectStyle(content []byte) Style {
	nl := "\n"
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		nl = "\r\n"
	}
	return Style{
		Newline:            nl,
		HasTrailingNewline: bytes.HasSuffix(content, []byte("\n")),
	}
}
