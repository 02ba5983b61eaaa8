package h

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, n H) string {
	t.Helper()
	var b bytes.Buffer
	require.NoError(t, n.Render(&b))
	return b.String()
}

func TestElementsAndAttributes(t *testing.T) {
	out := render(t, Div(ID("hero"), Class("hero fade-in"), H1(Text("Welcome"))))
	assert.Equal(t, `<div id="hero" class="hero fade-in"><h1>Welcome</h1></div>`, out)
}

func TestVoidElements(t *testing.T) {
	assert.Equal(t, `<img src="/a.jpg" alt="A">`, render(t, Img(Src("/a.jpg"), Alt("A"))))
	assert.Equal(t, `<input type="email" required>`, render(t, Input(Type("email"), Required())))
}

func TestTextIsEscaped(t *testing.T) {
	assert.Equal(t, `<p>&lt;b&gt;bold&lt;/b&gt;</p>`, render(t, P(Text("<b>bold</b>"))))
}

func TestIfSkipsNil(t *testing.T) {
	out := render(t, Div(If(false, P(Text("hidden"))), If(true, P(Text("shown")))))
	assert.Equal(t, `<div><p>shown</p></div>`, out)
}

func TestMapPreservesOrder(t *testing.T) {
	items := []string{"a", "b", "c"}
	out := render(t, Ul(Map(items, func(i int, s string) H {
		return Li(Textf("%d:%s", i, s))
	})))
	assert.Equal(t, `<ul><li>0:a</li><li>1:b</li><li>2:c</li></ul>`, out)
}

func TestData(t *testing.T) {
	out := render(t, Button(Data("on:click", "window.location.reload()"), Text("Retry")))
	assert.Equal(t, `<button data-on:click="window.location.reload()">Retry</button>`, out)
}

func TestHTML5(t *testing.T) {
	out := render(t, HTML5(HTML5Props{
		Title: "Elegant Interiors",
		Body:  []H{Div(Text("ok"))},
	}))
	assert.Contains(t, out, "<!doctype html>")
	assert.Contains(t, out, "<title>Elegant Interiors</title>")
	assert.Contains(t, out, "<div>ok</div>")
}
