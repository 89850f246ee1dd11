package layout

import (
	"strings"

	"github.com/chrisuehlinger/viewprt/dom"
)

// Elements that never generate a box.
var nonRendered = map[string]bool{
	"head":     true,
	"script":   true,
	"style":    true,
	"title":    true,
	"meta":     true,
	"link":     true,
	"template": true,
}

func isRendered(el *dom.Element) bool {
	if nonRendered[el.LocalName()] || el.HasAttribute("hidden") {
		return false
	}
	return strings.TrimSpace(el.Style().GetPropertyValue("display")) != "none"
}

func isScrollContainer(el *dom.Element) bool {
	style := el.Style()
	for _, prop := range []string{"overflow", "overflow-y"} {
		switch strings.TrimSpace(style.GetPropertyValue(prop)) {
		case "auto", "scroll":
			return true
		}
	}
	return false
}

// length resolves a pixel length from the inline style, falling back to
// the presentational attribute of the same name (<div height="200">).
func length(el *dom.Element, style *dom.StyleDeclaration, property string) (float64, bool) {
	if v, ok := style.Pixels(property); ok {
		return v, true
	}
	return dom.ParsePixels(el.GetAttribute(property))
}

// edgeSizes resolves a box edge property: the shorthand ("margin: 10px"
// or "margin: 10px 20px"), then per-side longhands ("margin-top").
// Negative padding and border widths are ignored.
func edgeSizes(el *dom.Element, style *dom.StyleDeclaration, property string) EdgeSizes {
	var edges EdgeSizes
	shorthand := style.GetPropertyValue(property)
	if shorthand == "" {
		shorthand = el.GetAttribute(property)
	}
	if shorthand != "" {
		edges = parseShorthand(shorthand)
	}

	prefix, suffix := property, ""
	if p, s, ok := strings.Cut(property, "-"); ok {
		prefix, suffix = p, "-"+s
	}
	sides := []struct {
		name string
		dst  *float64
	}{
		{"top", &edges.Top},
		{"right", &edges.Right},
		{"bottom", &edges.Bottom},
		{"left", &edges.Left},
	}
	for _, side := range sides {
		if v, ok := style.Pixels(prefix + "-" + side.name + suffix); ok {
			*side.dst = v
		}
	}

	if property != "margin" {
		for _, side := range sides {
			if *side.dst < 0 {
				*side.dst = 0
			}
		}
	}
	return edges
}

// parseShorthand expands a one to four value box shorthand.
func parseShorthand(value string) EdgeSizes {
	var vals []float64
	for _, field := range strings.Fields(value) {
		v, ok := dom.ParsePixels(field)
		if !ok {
			v = 0
		}
		vals = append(vals, v)
	}
	switch len(vals) {
	case 1:
		return EdgeSizes{Top: vals[0], Right: vals[0], Bottom: vals[0], Left: vals[0]}
	case 2:
		return EdgeSizes{Top: vals[0], Right: vals[1], Bottom: vals[0], Left: vals[1]}
	case 3:
		return EdgeSizes{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[1]}
	case 4:
		return EdgeSizes{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[3]}
	}
	return EdgeSizes{}
}
