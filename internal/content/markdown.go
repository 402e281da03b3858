// Package content converts act texts (HTML, PDF) into markdown and builds
// the section index used for navigation and search.
package content

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var blankRuns = regexp.MustCompile(`\n{3,}`)

// HTMLToMarkdown converts act HTML into markdown. Headings become ATX
// headings, scripts, styles and images are dropped, and runs of blank lines
// collapse to a single empty line. Document order is preserved so that the
// section index matches the act layout.
func HTMLToMarkdown(rawHTML string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", err
	}

	doc.Find("script, style, img, iframe, noscript").Remove()

	var b strings.Builder
	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}
	body.Each(func(_ int, s *goquery.Selection) {
		for _, node := range s.Nodes {
			renderNode(&b, node)
		}
	})

	out := b.String()
	out = blankRuns.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out), nil
}

func renderNode(b *strings.Builder, node *html.Node) {
	if node.Type == html.TextNode {
		return
	}
	sel := nodeSelection(node)

	switch node.Data {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		if text := collapseSpace(sel.Text()); text != "" {
			level := int(node.Data[1] - '0')
			b.WriteString(strings.Repeat("#", level) + " " + text + "\n\n")
		}
		return
	case "p":
		if text := collapseSpace(sel.Text()); text != "" {
			b.WriteString(text + "\n\n")
		}
		return
	case "li":
		if text := collapseSpace(sel.Text()); text != "" {
			b.WriteString("- " + text + "\n")
		}
		return
	case "ul", "ol":
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			renderNode(b, child)
		}
		b.WriteString("\n")
		return
	case "tr":
		cells := []string{}
		nodeSelection(node).Find("td, th").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, collapseSpace(cell.Text()))
		})
		if len(cells) > 0 {
			b.WriteString(strings.Join(cells, " | ") + "\n")
		}
		return
	case "table":
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			renderNode(b, child)
		}
		b.WriteString("\n")
		return
	case "br":
		b.WriteString("\n")
		return
	}

	// Containers: recurse in document order. A div holding only text still
	// contributes a paragraph.
	hasElementChild := false
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode {
			hasElementChild = true
			break
		}
	}
	if !hasElementChild {
		if text := collapseSpace(sel.Text()); text != "" {
			b.WriteString(text + "\n\n")
		}
		return
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		renderNode(b, child)
	}
}

func nodeSelection(node *html.Node) *goquery.Selection {
	doc := goquery.NewDocumentFromNode(node)
	return doc.Selection
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
