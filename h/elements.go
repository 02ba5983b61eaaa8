package h

func A(children ...H) H        { return El("a", children...) }
func Article(children ...H) H  { return El("article", children...) }
func Body(children ...H) H     { return El("body", children...) }
func Br(children ...H) H       { return El("br", children...) }
func Button(children ...H) H   { return El("button", children...) }
func Div(children ...H) H      { return El("div", children...) }
func Footer(children ...H) H   { return El("footer", children...) }
func Form(children ...H) H     { return El("form", children...) }
func H1(children ...H) H       { return El("h1", children...) }
func H2(children ...H) H       { return El("h2", children...) }
func H3(children ...H) H       { return El("h3", children...) }
func H4(children ...H) H       { return El("h4", children...) }
func Header(children ...H) H   { return El("header", children...) }
func Hr(children ...H) H       { return El("hr", children...) }
func I(children ...H) H        { return El("i", children...) }
func Img(children ...H) H      { return El("img", children...) }
func Input(children ...H) H    { return El("input", children...) }
func Label(children ...H) H    { return El("label", children...) }
func Li(children ...H) H       { return El("li", children...) }
func Link(children ...H) H     { return El("link", children...) }
func Main(children ...H) H     { return El("main", children...) }
func Meta(children ...H) H     { return El("meta", children...) }
func Nav(children ...H) H      { return El("nav", children...) }
func P(children ...H) H        { return El("p", children...) }
func Script(children ...H) H   { return El("script", children...) }
func Section(children ...H) H  { return El("section", children...) }
func Small(children ...H) H    { return El("small", children...) }
func Span(children ...H) H     { return El("span", children...) }
func Strong(children ...H) H   { return El("strong", children...) }
func Table(children ...H) H    { return El("table", children...) }
func TBody(children ...H) H    { return El("tbody", children...) }
func Td(children ...H) H       { return El("td", children...) }
func Textarea(children ...H) H { return El("textarea", children...) }
func Th(children ...H) H       { return El("th", children...) }
func THead(children ...H) H    { return El("thead", children...) }
func Tr(children ...H) H       { return El("tr", children...) }
func Ul(children ...H) H       { return El("ul", children...) }
