package htmlnode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telwick/selq"
	"github.com/telwick/selq/htmlnode"
)

const sampleDoc = `<html><head><title>t</title></head><body>
<div id="a" class="note box"><p id="p1">one</p><p id="p2">two <b id="bb">two</b></p><span id="s1" href="http://example.com/pic.png" data-role="x">x</span></div>
<div id="b"><p id="p3">three</p><br id="br1"/></div>
</body></html>`

func parseSample(t *testing.T) *htmlnode.Element {
	t.Helper()
	root, err := htmlnode.ParseString(sampleDoc)
	require.NoError(t, err)
	require.NotNil(t, root)
	return root
}

func selectIDs(t *testing.T, root *htmlnode.Element, query string) []string {
	t.Helper()
	matches, err := htmlnode.Query(query, root)
	require.NoError(t, err, "query %q", query)
	ids := []string{}
	for _, m := range matches {
		ids = append(ids, m.ID())
	}
	return ids
}

func TestParse(t *testing.T) {
	root := parseSample(t)
	assert.Equal(t, "html", root.TagName())
	assert.True(t, root.IsRoot())
	assert.Nil(t, root.Parent())
}

func TestSelect(t *testing.T) {
	root := parseSample(t)

	tests := []struct {
		query string
		want  []string
	}{
		{query: `div`, want: []string{"a", "b"}},
		{query: `.note`, want: []string{"a"}},
		{query: `#p2`, want: []string{"p2"}},
		{query: `div p`, want: []string{"p1", "p2", "p3"}},
		{query: `div > p`, want: []string{"p1", "p2", "p3"}},
		{query: `p + span`, want: []string{"s1"}},
		{query: `p ~ span`, want: []string{"s1"}},
		{query: `[href^=http]`, want: []string{"s1"}},
		{query: `[href$=.png]`, want: []string{"s1"}},
		{query: `[^data-]`, want: []string{"s1"}},
		{query: `div:has(span)`, want: []string{"a"}},
		{query: `div:has(> p):not(.note)`, want: []string{"b"}},
		{query: `:containsOwn(two)`, want: []string{"p2", "bb"}},
		{query: `:matchesOwn(^x$)`, want: []string{"s1"}},
		{query: `:empty`, want: []string{"br1"}},
		{query: `div:nth-child(even)`, want: []string{"b"}},
		{query: `p:first-child`, want: []string{"p1", "p3"}},
		{query: `p, span`, want: []string{"p1", "p2", "s1", "p3"}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, selectIDs(t, root, tt.query), "query %q", tt.query)
	}
}

func TestSelect_Root(t *testing.T) {
	root := parseSample(t)
	matches := htmlnode.Select(selq.MustParse(":root"), root)
	require.Len(t, matches, 1)
	assert.Equal(t, "html", matches[0].TagName())
}

func TestSelectFirst(t *testing.T) {
	root := parseSample(t)

	first := htmlnode.SelectFirst(selq.MustParse("p"), root)
	require.NotNil(t, first)
	assert.Equal(t, "p1", first.ID())

	assert.Nil(t, htmlnode.SelectFirst(selq.MustParse("table"), root))
}

func TestMatches(t *testing.T) {
	root := parseSample(t)
	p2 := htmlnode.SelectFirst(selq.MustParse("#p2"), root)
	require.NotNil(t, p2)

	assert.True(t, htmlnode.Matches(selq.MustParse("div > p"), root, p2))
	assert.False(t, htmlnode.Matches(selq.MustParse("span"), root, p2))
}

func TestQuery_BadSelector(t *testing.T) {
	root := parseSample(t)
	_, err := htmlnode.Query("div{", root)
	require.Error(t, err)
	var perr *selq.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "unexpected token", perr.Message)
}

func TestElement_Accessors(t *testing.T) {
	root := parseSample(t)

	a := htmlnode.SelectFirst(selq.MustParse("#a"), root)
	require.NotNil(t, a)
	assert.Equal(t, []string{"note", "box"}, a.Classes())
	assert.Equal(t, "one two two x", a.Text())
	assert.Equal(t, "", a.OwnText())

	p2 := htmlnode.SelectFirst(selq.MustParse("#p2"), root)
	require.NotNil(t, p2)
	assert.Equal(t, "two", p2.OwnText())
	assert.Equal(t, "two two", p2.Text())
	assert.Equal(t, 2, p2.SiblingIndex())
	assert.Equal(t, 2, p2.SiblingIndexFromEnd())
	assert.Equal(t, 2, p2.SiblingIndexOfType())

	s1 := htmlnode.SelectFirst(selq.MustParse("#s1"), root)
	require.NotNil(t, s1)
	assert.Equal(t, "http://example.com/pic.png", s1.Attr("HREF"))
	assert.True(t, s1.HasAttr("href"))
	assert.False(t, s1.HasAttr("src"))
	assert.Contains(t, s1.AttrNames(), "data-role")

	prev := s1.PrevSibling()
	require.NotNil(t, prev)
	assert.Equal(t, "p2", prev.(*htmlnode.Element).ID())
}

func TestFromNode_NonElement(t *testing.T) {
	assert.Nil(t, htmlnode.FromNode(nil))
}
