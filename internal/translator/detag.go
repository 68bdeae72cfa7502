package translator

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// dangerTags are removed together with their content.
const dangerTags = "script, style, object, embed, iframe, form, input, php"

// keptTags survive detagging; every other tag is unwrapped.
var keptTags = map[string]bool{
	"sub": true,
	"sup": true,
	"i":   true,
	"b":   true,
}

var (
	doubleEscaped = regexp.MustCompile(`&amp;(#?\w+);`)
	spaceRun      = regexp.MustCompile(` {2,}`)
	// markupAt matches a complete tag or comment at the start of a string.
	// Attributes may not contain '<', so "x<y in <sub>" is text up to <sub>.
	markupAt = regexp.MustCompile(`^(?:</?[A-Za-z][\w:.-]*(?:\s[^<>]*)?/?>|<!--)`)
)

// detag strips markup from abstract text: dangerous elements are dropped,
// small caps are upper-cased, and all but a few inline tags are unwrapped.
// A '<' that does not open a tag is kept as text.
func detag(s string) string {
	if !strings.Contains(s, "<") {
		return collapseSpace(s)
	}

	root, err := parseInline(escapeStrayLess(s))
	if err != nil {
		return collapseSpace(s)
	}
	body := goquery.NewDocumentFromNode(root).Selection

	body.Find(dangerTags).Remove()

	body.Find("sc").Each(func(_ int, sel *goquery.Selection) {
		sel.SetText(strings.ToUpper(sel.Text()))
	})

	body.Find("*").Each(func(_ int, sel *goquery.Selection) {
		if keptTags[goquery.NodeName(sel)] {
			return
		}
		if sel.Contents().Length() == 0 {
			sel.Remove()
			return
		}
		sel.Contents().Unwrap()
	})

	out, err := body.Html()
	if err != nil {
		return collapseSpace(s)
	}
	out = doubleEscaped.ReplaceAllString(out, "&$1;")
	return collapseSpace(out)
}

// parseInline parses s as the content of a <body> element, so head-only
// elements such as <title> stay where they appear.
func parseInline(s string) (*html.Node, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(s), context)
	if err != nil {
		return nil, err
	}
	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	dropComments(root)
	return root, nil
}

func dropComments(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.CommentNode {
			n.RemoveChild(c)
		} else {
			dropComments(c)
		}
		c = next
	}
}

// escapeStrayLess rewrites every '<' that does not start a tag as "&lt;".
func escapeStrayLess(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '<' && !markupAt.MatchString(s[i:]) {
			b.WriteString("&lt;")
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func collapseSpace(s string) string {
	s = strings.NewReplacer("\r\n", " ", "\n", " ", "\t", " ", "&nbsp;", " ").Replace(s)
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}
