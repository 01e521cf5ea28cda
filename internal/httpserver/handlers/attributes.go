package handlers

import (
	"net/url"
	"strings"

	"github.com/MrSnakeDoc/webring/internal/widget"
)

var attributeNames = []string{
	widget.AttrCategories,
	widget.AttrColor,
	widget.AttrBackgroundColor,
	widget.AttrSource,
	widget.AttrMaxLinks,
	widget.AttrBorder,
}

// queryAttributes reads widget attributes from query parameters. Both the
// attribute name ("data-max-links") and its short form ("max-links") are
// accepted; the full name wins when both are set.
func queryAttributes(q url.Values) widget.MapAttributes {
	attrs := widget.MapAttributes{}
	for _, name := range attributeNames {
		short := strings.TrimPrefix(name, "data-")
		if q.Has(name) {
			attrs[name] = q.Get(name)
		} else if q.Has(short) {
			attrs[name] = q.Get(short)
		}
	}
	return attrs
}
