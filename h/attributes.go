package h

import "strconv"

func Alt(v string) H         { return Attr("alt", v) }
func Charset(v string) H     { return Attr("charset", v) }
func Class(v string) H       { return Attr("class", v) }
func Content(v string) H     { return Attr("content", v) }
func Disabled() H            { return Attr("disabled") }
func For(v string) H         { return Attr("for", v) }
func Href(v string) H        { return Attr("href", v) }
func ID(v string) H          { return Attr("id", v) }
func Loading(v string) H     { return Attr("loading", v) }
func Name(v string) H        { return Attr("name", v) }
func Placeholder(v string) H { return Attr("placeholder", v) }
func Rel(v string) H         { return Attr("rel", v) }
func Required() H            { return Attr("required") }
func Role(v string) H        { return Attr("role", v) }
func Src(v string) H         { return Attr("src", v) }
func Style(v string) H       { return Attr("style", v) }
func Type(v string) H        { return Attr("type", v) }
func Value(v string) H       { return Attr("value", v) }

func Height(v int) H { return Attr("height", strconv.Itoa(v)) }
func Rows(v int) H   { return Attr("rows", strconv.Itoa(v)) }
func Width(v int) H  { return Attr("width", strconv.Itoa(v)) }

// Data creates a data-* attribute. Datastar reads its directives from these,
// e.g. Data("on:click", "@get('/x')") renders data-on:click="@get('/x')".
func Data(name, v string) H {
	return Attr("data-"+name, v)
}
