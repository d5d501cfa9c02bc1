package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmpty(t *testing.T) {
	doc := Parse(nil)
	assert.Empty(t, doc.Pairs())
	assert.Empty(t, doc.Bytes())
}

func TestParseQuotedAndBareValues(t *testing.T) {
	doc := Parse([]byte("A=\"quoted value\"\nB=bare\n"))

	value, ok := doc.Get("A")
	require.True(t, ok)
	assert.Equal(t, "quoted value", value)

	value, ok = doc.Get("B")
	require.True(t, ok)
	assert.Equal(t, "bare", value)
}

func TestGetLastLineWins(t *testing.T) {
	doc := Parse([]byte("K=\"first\"\nK=\"second\"\n"))
	value, ok := doc.Get("K")
	require.True(t, ok)
	assert.Equal(t, "second", value)
}

func TestSetRewritesDuplicates(t *testing.T) {
	doc := Parse([]byte("K=\"first\"\nK=\"second\"\n"))
	doc.Set("K", "third")

	assert.Equal(t, "K=\"third\"\nK=\"third\"\n", string(doc.Bytes()))
	value, _ := doc.Get("K")
	assert.Equal(t, "third", value)
}

func TestSetRewritesInPlace(t *testing.T) {
	doc := Parse([]byte("A=\"1\"\nB=\"2\"\nC=\"3\"\n"))
	doc.Set("B", "two")

	assert.Equal(t, "A=\"1\"\nB=\"two\"\nC=\"3\"\n", string(doc.Bytes()))
}

func TestSetAppendsMissingKey(t *testing.T) {
	doc := Parse([]byte("A=\"1\"\n"))
	doc.Set("B", "2")

	assert.Equal(t, "A=\"1\"\nB=\"2\"\n", string(doc.Bytes()))
}

func TestSetOnEmptyDocument(t *testing.T) {
	doc := Parse(nil)
	doc.Set("A", "1")
	assert.Equal(t, "A=\"1\"\n", string(doc.Bytes()))
}

func TestForeignLinesPreservedVerbatim(t *testing.T) {
	original := "# operator comment\n\nUNRELATED_KEY=keep me unquoted\ngarbage line !!\nA=\"1\"\n"
	doc := Parse([]byte(original))

	// Untouched lines round-trip byte for byte
	assert.Equal(t, original, string(doc.Bytes()))

	// Updating one key leaves all other lines alone
	doc.Set("A", "2")
	assert.Equal(t, "# operator comment\n\nUNRELATED_KEY=keep me unquoted\ngarbage line !!\nA=\"2\"\n", string(doc.Bytes()))
}

func TestPairsSkipsForeignLines(t *testing.T) {
	doc := Parse([]byte("# comment\nA=\"1\"\nnot a pair\nB=\"2\"\n"))
	pairs := doc.Pairs()
	require.Len(t, pairs, 2)
	assert.Equal(t, Pair{Key: "A", Value: "1"}, pairs[0])
	assert.Equal(t, Pair{Key: "B", Value: "2"}, pairs[1])
}

func TestParseToleratesMissingTrailingNewline(t *testing.T) {
	doc := Parse([]byte("A=\"1\""))
	value, ok := doc.Get("A")
	require.True(t, ok)
	assert.Equal(t, "1", value)
	assert.Equal(t, "A=\"1\"\n", string(doc.Bytes()))
}
