package frontmatter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplit_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	fm, body, had, _, err := Split(input)
	require.NoError(t, err)
	require.False(t, had)
	require.Empty(t, fm)
	require.Equal(t, input, body)
}

func TestSplit_YAMLFrontmatter_SplitsFrontmatterAndBody(t *testing.T) {
	input := []byte("---\nkey: value\n---\n# Title\n")

	fm, body, had, _, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("key: value\n"), fm)
	require.Equal(t, []byte("# Title\n"), body)
}

func TestSplit_MissingClosingDelimiter_ReturnsError(t *testing.T) {
	input := []byte("---\nkey: value\n# Title\n")

	_, _, had, _, err := Split(input)
	require.Error(t, err)
	require.False(t, had)
	require.True(t, errors.Is(err, ErrMissingClosingDelimiter))
}

func TestSplit_CRLF_SplitsFrontmatterAndBody(t *testing.T) {
	input := []byte("---\r\nkey: value\r\n---\r\n# Title\r\n")

	fm, body, had, _, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("key: value\r\n"), fm)
	require.Equal(t, []byte("# Title\r\n"), body)
}

func TestSplit_EmptyFrontmatterBlock_SplitsAsHadWithEmptyFrontmatter(t *testing.T) {
	input := []byte("---\n---\n# Title\n")

	fm, body, had, _, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Empty(t, fm)
	require.Equal(t, []byte("# Title\n"), body)
}

func TestJoin_RoundTrip_ReconstructsOriginalBytes(t *testing.T) {
	cases := [][]byte{
		[]byte("# Title\n\nHello\n"),
		[]byte("---\nkey: value\n---\n# Title\n"),
		[]byte("---\n---\n# Title\n"),
		[]byte("---\r\nkey: value\r\n---\r\n# Title\r\n"),
	}

	for _, input := range cases {
		fm, body, had, style, err := Split(input)
		require.NoError(t, err)

		out := Join(fm, body, had, style)
		require.Equal(t, input, out)
	}
}

func TestParseYAML_ValidYAML_ReturnsMap(t *testing.T) {
	fm := []byte("title: Hello\ntags:\n  - godot\n")

	fields, err := ParseYAML(fm)
	require.NoError(t, err)
	require.Equal(t, "Hello", fields["title"])
	require.Equal(t, []any{"godot"}, fields["tags"])
}

func TestParseYAML_Empty_ReturnsEmptyMap(t *testing.T) {
	fields, err := ParseYAML(nil)
	require.NoError(t, err)
	require.Empty(t, fields)
}

func TestParseYAML_InvalidYAML_ReturnsError(t *testing.T) {
	_, err := ParseYAML([]byte(": not yaml"))
	require.Error(t, err)
}

func TestSplit_ClosingDelimiterAtEOF(t *testing.T) {
	fm, body, had, _, err := Split([]byte("---\ntitle: x\n---"))
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("title: x\n"), fm)
	require.Empty(t, body)
}

func TestSplit_DelimiterWithTrailingWhitespace(t *testing.T) {
	fm, body, had, _, err := Split([]byte("---  \ntitle: x\n--- \nbody\n"))
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("title: x\n"), fm)
	require.Equal(t, []byte("body\n"), body)
}

func TestSplit_ByteOrderMarkIsDropped(t *testing.T) {
	fm, body, had, _, err := Split([]byte("\xef\xbb\xbf---\ntitle: x\n---\nbody\n"))
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("title: x\n"), fm)
	require.Equal(t, []byte("body\n"), body)
}

func TestSplit_HorizontalRuleLaterInBodyIsNotFrontMatter(t *testing.T) {
	input := []byte("# Title\n\n---\n\nmore\n")
	_, body, had, _, err := Split(input)
	require.NoError(t, err)
	require.False(t, had)
	require.Equal(t, input, body)
}

func TestDecode_IntoStruct(t *testing.T) {
	var out struct {
		Title string   `yaml:"title"`
		Tags  []string `yaml:"tags"`
	}
	require.NoError(t, Decode([]byte("title: Hi\ntags: [a, b]\n"), &out))
	require.Equal(t, "Hi", out.Title)
	require.Equal(t, []string{"a", "b"}, out.Tags)

	require.NoError(t, Decode([]byte("  \n"), &out))
	require.Equal(t, "Hi", out.Title, "blank input leaves target untouched")
}

func TestEncode_UsesStyleNewline(t *testing.T) {
	v := map[string]any{"title": "Hi", "draft": true}

	out, err := Encode(v, Style{Newline: "\r\n"})
	require.NoError(t, err)
	require.Equal(t, "draft: true\r\ntitle: Hi\r\n", string(out))

	out, err = Encode(map[string]any{}, Style{})
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestEncode_JoinSplitRoundTrip(t *testing.T) {
	fm, err := Encode(map[string]any{"title": "Hi"}, Style{})
	require.NoError(t, err)

	doc := Join(fm, []byte("body\n"), true, Style{})
	gotFM, body, had, _, err := Split(doc)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, fm, gotFM)
	require.Equal(t, []byte("body\n"), body)
}
