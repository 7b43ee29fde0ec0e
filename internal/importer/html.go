package importer

import (
	"bytes"
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

const blockSelector = "p, div, section, article, header, footer, h1, h2, h3, h4, h5, h6, li, tr, dt, dd"

func extractHTML(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}

	doc.Find("script, style, noscript, template").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("li").PrependHtml("• ")
	doc.Find(blockSelector).AppendHtml("\n")

	body := doc.Find("body")
	if body.Length() == 0 {
		return tidyLines(doc.Text()), nil
	}
	return tidyLines(body.Text()), nil
}
