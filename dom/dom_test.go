package dom

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const siblingFixture = `
<html><body>
  <div id="row">
    <span>far prev</span>
    <span>near prev</span>
    <span id="anchor">Sector</span>
    <span>near next</span>
    <span>far next</span>
  </div>
</body></html>`

func TestFindByExactText(t *testing.T) {
	doc, err := Parse(siblingFixture)
	require.NoError(t, err)

	anchor := doc.FindByExactText("Sector")
	require.NotNil(t, anchor)
	id, _ := anchor.Attr("id")
	assert.Equal(t, "anchor", id)

	assert.Nil(t, doc.FindByExactText("Industry"))
}

func TestFindByExactTextFirstMatchWins(t *testing.T) {
	doc, err := Parse(`<html><body><p class="a">Close</p><p class="b">Close</p></body></html>`)
	require.NoError(t, err)

	anchor := doc.FindByExactText("Close")
	require.NotNil(t, anchor)
	class, _ := anchor.Attr("class")
	assert.Equal(t, "a", class)
}

func TestSiblingsNearestFirst(t *testing.T) {
	doc, err := Parse(siblingFixture)
	require.NoError(t, err)
	anchor := doc.FindByExactText("Sector")
	require.NotNil(t, anchor)

	prev := Siblings(anchor, Prev)
	require.Len(t, prev, 2)
	assert.Equal(t, "near prev", TextOf(prev[0]))
	assert.Equal(t, "far prev", TextOf(prev[1]))

	next := Siblings(anchor, Next)
	require.Len(t, next, 2)
	assert.Equal(t, "near next", TextOf(next[0]))
	assert.Equal(t, "far next", TextOf(next[1]))
}

func TestFindByTextMatch(t *testing.T) {
	doc, err := Parse(`<html><body><span>All numbers in thousands</span><span>Currency in USD</span></body></html>`)
	require.NoError(t, err)

	re := regexp.MustCompile(`Currency in (.+)`)
	span := doc.FindByTextMatch("span", re)
	require.NotNil(t, span)
	assert.Equal(t, "Currency in USD", TextOf(span))

	assert.Nil(t, doc.FindByTextMatch("div", re))
}

func TestFirstTextNode(t *testing.T) {
	doc, err := Parse(`<html><body><span id="v"> 1.344255 <span class="unit">SGD</span></span></body></html>`)
	require.NoError(t, err)

	v := doc.Find("#v")
	assert.Equal(t, "1.344255", FirstTextNode(v))
	assert.Equal(t, "", FirstTextNode(nil))
}
