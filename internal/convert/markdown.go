// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"strings"
)

// Pager is the page view of a parsed document that markdown rendering
// consumes. *Document satisfies it.
type Pager interface {
	PageCount() int
	PageText(page int) (string, error)
	PageImages(page int) []EmbeddedImage
}

// Markdown renders the document as markdown text. Every embedded image,
// whether or not it is later materialized as an attachment, contributes one
// placeholder addressed by its page and global index:
//
//	[IMAGE: <sourceURL>#page_<P>_img_<G>]
//
// Placeholders for a page follow that page's text. Global indices count
// every image in page order, then in-page order, starting at 1.
func Markdown(d Pager, sourceURL string) (string, error) {
	var b strings.Builder
	globalIndex := 0

	for page := 1; page <= d.PageCount(); page++ {
		text, err := d.PageText(page)
		if err != nil {
			return "", &ConversionError{Err: err}
		}
		b.WriteString(text)

		for range d.PageImages(page) {
			globalIndex++
			fmt.Fprintf(&b, "\n[IMAGE: %s#page_%d_img_%d]\n", sourceURL, page, globalIndex)
		}
	}
	return b.String(), nil
}
