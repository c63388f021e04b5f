package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/heathj/htmldom/parser/spec"
)

func parseToDump(t *testing.T, in string) string {
	t.Helper()
	doc, err := ParseHTMLDocumentString(in)
	require.NoError(t, err)
	return doc.String()
}

func dump(lines ...string) string {
	return strings.Join(lines, "\n")
}

func TestTreeConstructorBasicDocuments(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{
			name: "adoption agency fixes misnested formatting",
			in:   "<!DOCTYPE html><html><head><title>x</title></head><body><p>a<b>b<i>c</p></b>d",
			expected: dump(
				"#document",
				"| <!DOCTYPE html>",
				"| <html>",
				"|   <head>",
				"|     <title>",
				"|       \"x\"",
				"|   <body>",
				"|     <p>",
				"|       \"a\"",
				"|       <b>",
				"|         \"b\"",
				"|         <i>",
				"|           \"c\"",
				"|     <i>",
				"|       \"d\"",
			),
		},
		{
			name: "implicit tbody",
			in:   "<table><tr><td>x<td>y</table>",
			expected: dump(
				"#document",
				"| <html>",
				"|   <head>",
				"|   <body>",
				"|     <table>",
				"|       <tbody>",
				"|         <tr>",
				"|           <td>",
				"|             \"x\"",
				"|           <td>",
				"|             \"y\"",
			),
		},
		{
			name: "p implicitly closed before table",
			in:   "<!DOCTYPE html><p>x<table>",
			expected: dump(
				"#document",
				"| <!DOCTYPE html>",
				"| <html>",
				"|   <head>",
				"|   <body>",
				"|     <p>",
				"|       \"x\"",
				"|     <table>",
			),
		},
		{
			name: "option implicitly closed by option",
			in:   "<select><option>a<option>b</select>",
			expected: dump(
				"#document",
				"| <html>",
				"|   <head>",
				"|   <body>",
				"|     <select>",
				"|       <option>",
				"|         \"a\"",
				"|       <option>",
				"|         \"b\"",
			),
		},
		{
			name: "stray end tag p inserts an empty p",
			in:   "<!DOCTYPE html><body></p>",
			expected: dump(
				"#document",
				"| <!DOCTYPE html>",
				"| <html>",
				"|   <head>",
				"|   <body>",
				"|     <p>",
			),
		},
		{
			name: "table character tokens foster parent",
			in:   "<!DOCTYPE html><table>x<tr></table>",
			expected: dump(
				"#document",
				"| <!DOCTYPE html>",
				"| <html>",
				"|   <head>",
				"|   <body>",
				"|     \"x\"",
				"|     <table>",
				"|       <tbody>",
				"|         <tr>",
			),
		},
		{
			name: "headings close each other",
			in:   "<!DOCTYPE html><h1>a<h2>b",
			expected: dump(
				"#document",
				"| <!DOCTYPE html>",
				"| <html>",
				"|   <head>",
				"|   <body>",
				"|     <h1>",
				"|       \"a\"",
				"|     <h2>",
				"|       \"b\"",
			),
		},
		{
			name: "li closes open li",
			in:   "<!DOCTYPE html><ul><li>a<li>b</ul>",
			expected: dump(
				"#document",
				"| <!DOCTYPE html>",
				"| <html>",
				"|   <head>",
				"|   <body>",
				"|     <ul>",
				"|       <li>",
				"|         \"a\"",
				"|       <li>",
				"|         \"b\"",
			),
		},
		{
			name: "comments and attributes survive",
			in:   "<!DOCTYPE html><!--top--><div id=a class='b c'>x</div>",
			expected: dump(
				"#document",
				"| <!DOCTYPE html>",
				"| <!-- top -->",
				"| <html>",
				"|   <head>",
				"|   <body>",
				"|     <div>",
				"|       class=\"b c\"",
				"|       id=\"a\"",
				"|       \"x\"",
			),
		},
		{
			name: "svg keeps its namespace and case",
			in:   "<!DOCTYPE html><svg><foreignObject><div>x</div></foreignObject></svg>",
			expected: dump(
				"#document",
				"| <!DOCTYPE html>",
				"| <html>",
				"|   <head>",
				"|   <body>",
				"|     <svg svg>",
				"|       <svg foreignObject>",
				"|         <div>",
				"|           \"x\"",
			),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, parseToDump(t, tt.in))
		})
	}
}

func TestTemplateContentsLiveInFragment(t *testing.T) {
	doc, err := ParseHTMLDocumentString("<!DOCTYPE html><template><td>x</td></template>")
	require.NoError(t, err)

	hd := &spec.HTMLDocument{Node: doc}
	head := hd.Head()
	require.NotNil(t, head)
	require.Len(t, head.ChildNodes, 1)
	tmpl := head.ChildNodes[0]
	require.Equal(t, spec.ElementKind("HTMLTemplateElement"), tmpl.Element.Kind)
	require.Empty(t, tmpl.ChildNodes)

	content := tmpl.Element.Template.Content
	require.NotNil(t, content)
	require.Len(t, content.ChildNodes, 1)
	td := content.ChildNodes[0]
	require.Equal(t, "td", string(td.Element.LocalName))
	require.Equal(t, "x", string(td.TextContent()))

	// Template contents belong to the inert template document, not the
	// parsed document.
	require.NotEqual(t, doc, content.OwnerDocument)
	require.True(t, content.OwnerDocument.Document.Inert)
}

func TestQuirksModeSelection(t *testing.T) {
	tests := []struct {
		in   string
		mode string
	}{
		{"<!DOCTYPE html><p>", spec.NoQuirks},
		{"<p>", spec.Quirks},
		{`<!DOCTYPE html PUBLIC "-//W3C//DTD HTML 4.01 Transitional//EN"><p>`, spec.Quirks},
		{`<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Transitional//EN"><p>`, spec.LimitedQuirks},
	}
	for _, tt := range tests {
		doc, err := ParseHTMLDocumentString(tt.in)
		require.NoError(t, err)
		require.Equal(t, tt.mode, doc.Document.Mode, tt.in)
	}
}

func TestPlaintextSwallowsEverything(t *testing.T) {
	doc, err := ParseHTMLDocumentString("<!DOCTYPE html><plaintext></plaintext><div>")
	require.NoError(t, err)
	hd := &spec.HTMLDocument{Node: doc}
	body := hd.Body()
	require.NotNil(t, body)
	require.Len(t, body.ChildNodes, 1)
	pt := body.ChildNodes[0]
	require.Equal(t, "plaintext", string(pt.Element.LocalName))
	// Everything after <plaintext> is text, including would-be tags.
	require.Equal(t, "</plaintext><div>", string(pt.TextContent()))
}

func TestRawTextElements(t *testing.T) {
	doc, err := ParseHTMLDocumentString("<!DOCTYPE html><style>a < b { color: red }</style>")
	require.NoError(t, err)
	hd := &spec.HTMLDocument{Node: doc}
	head := hd.Head()
	require.Len(t, head.ChildNodes, 1)
	style := head.ChildNodes[0]
	require.Equal(t, "a < b { color: red }", string(style.TextContent()))
}

func TestScriptDataStaysText(t *testing.T) {
	doc, err := ParseHTMLDocumentString("<!DOCTYPE html><script>if (a<b) { d.write('</i>') }</script>")
	require.NoError(t, err)
	hd := &spec.HTMLDocument{Node: doc}
	head := hd.Head()
	require.Len(t, head.ChildNodes, 1)
	script := head.ChildNodes[0]
	require.Equal(t, "script", string(script.Element.LocalName))
	// A non-matching end tag inside script data stays part of the text.
	require.Equal(t, "if (a<b) { d.write('</i>') }", string(script.TextContent()))
}

func TestPreSkipsLeadingNewline(t *testing.T) {
	doc, err := ParseHTMLDocumentString("<!DOCTYPE html><pre>\nkeep</pre>")
	require.NoError(t, err)
	hd := &spec.HTMLDocument{Node: doc}
	pre := hd.Body().ChildNodes[0]
	require.Equal(t, "keep", string(pre.TextContent()))
}

func TestFragmentParsing(t *testing.T) {
	t.Run("td context", func(t *testing.T) {
		context := spec.NewDOMElement(nil, "td", spec.Htmlns)
		nodes := ParseHTMLFragment(context, "<b>x</b>y", spec.NoQuirks, false)
		require.Len(t, nodes, 2)
		require.Equal(t, "b", string(nodes[0].Element.LocalName))
		require.Equal(t, "y", string(nodes[1].Text.Data))
	})

	t.Run("table context builds sections", func(t *testing.T) {
		context := spec.NewDOMElement(nil, "table", spec.Htmlns)
		nodes := ParseHTMLFragment(context, "<tr><td>x</td></tr>", spec.NoQuirks, false)
		require.Len(t, nodes, 1)
		require.Equal(t, "tbody", string(nodes[0].Element.LocalName))
	})

	t.Run("script context stays raw", func(t *testing.T) {
		context := spec.NewDOMElement(nil, "script", spec.Htmlns)
		nodes := ParseHTMLFragment(context, "a<b", spec.NoQuirks, false)
		require.Len(t, nodes, 1)
		require.Equal(t, "a<b", string(nodes[0].Text.Data))
	})

	t.Run("title context is rcdata", func(t *testing.T) {
		context := spec.NewDOMElement(nil, "title", spec.Htmlns)
		nodes := ParseHTMLFragment(context, "a&amp;b<i>", spec.NoQuirks, false)
		require.Len(t, nodes, 1)
		require.Equal(t, "a&b<i>", string(nodes[0].Text.Data))
	})
}

func TestParserDeterminism(t *testing.T) {
	in := "<!DOCTYPE html><p>a<b>b<i>c</p></b>d<table><tr><td>x</table>"
	first := parseToDump(t, in)
	for i := 0; i < 3; i++ {
		require.Equal(t, first, parseToDump(t, in))
	}
}

func TestParserPause(t *testing.T) {
	p := NewParser("<!DOCTYPE html><p>hello</p>")
	p.Pause()
	done, err := p.Run()
	require.NoError(t, err)
	require.False(t, done)

	p.Resume()
	doc, err := p.Start()
	require.NoError(t, err)
	require.Contains(t, doc.String(), "<p>")
}
