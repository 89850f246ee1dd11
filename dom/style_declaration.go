package dom

import (
	"strconv"
	"strings"
)

// StyleDeclaration is an element's inline style, parsed from and written
// back to its style attribute. Only the declarations layout cares about are
// ever read, so priorities (!important) are accepted and dropped.
type StyleDeclaration struct {
	element       *Element
	declarations  map[string]string
	propertyOrder []string
}

// Style returns the element's inline style declaration.
func (e *Element) Style() *StyleDeclaration {
	sd := &StyleDeclaration{
		element:      e,
		declarations: make(map[string]string),
	}
	sd.parse(e.GetAttribute("style"))
	return sd
}

// CSSText returns the textual representation of the declaration block.
func (sd *StyleDeclaration) CSSText() string {
	parts := make([]string, 0, len(sd.propertyOrder))
	for _, prop := range sd.propertyOrder {
		parts = append(parts, prop+": "+sd.declarations[prop])
	}
	return strings.Join(parts, "; ")
}

// Length returns the number of properties set.
func (sd *StyleDeclaration) Length() int {
	return len(sd.propertyOrder)
}

// GetPropertyValue returns the value of a CSS property.
func (sd *StyleDeclaration) GetPropertyValue(property string) string {
	return sd.declarations[normalizeCSSPropertyName(property)]
}

// SetProperty sets a CSS property. An empty value removes it.
func (sd *StyleDeclaration) SetProperty(property, value string) {
	property = normalizeCSSPropertyName(property)
	if property == "" {
		return
	}
	if value == "" {
		sd.RemoveProperty(property)
		return
	}
	if _, exists := sd.declarations[property]; !exists {
		sd.propertyOrder = append(sd.propertyOrder, property)
	}
	sd.declarations[property] = value
	sd.syncToAttribute()
}

// RemoveProperty removes a CSS property and returns its old value.
func (sd *StyleDeclaration) RemoveProperty(property string) string {
	property = normalizeCSSPropertyName(property)
	old, ok := sd.declarations[property]
	if !ok {
		return ""
	}
	delete(sd.declarations, property)
	for i, p := range sd.propertyOrder {
		if p == property {
			sd.propertyOrder = append(sd.propertyOrder[:i], sd.propertyOrder[i+1:]...)
			break
		}
	}
	sd.syncToAttribute()
	return old
}

// Pixels returns a property's value as a length in pixels. Plain numbers
// and "px" values are accepted; anything else reports false.
func (sd *StyleDeclaration) Pixels(property string) (float64, bool) {
	return ParsePixels(sd.GetPropertyValue(property))
}

// ParsePixels parses "120", "120px" or "-4.5px".
func ParsePixels(value string) (float64, bool) {
	value = strings.TrimSpace(strings.ToLower(value))
	value = strings.TrimSuffix(value, "px")
	if value == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// parse parses a style attribute string into declarations.
func (sd *StyleDeclaration) parse(styleAttr string) {
	for _, part := range strings.Split(styleAttr, ";") {
		property, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		property = normalizeCSSPropertyName(strings.TrimSpace(property))
		value = strings.TrimSpace(value)
		if lower := strings.ToLower(value); strings.HasSuffix(lower, "!important") {
			value = strings.TrimSpace(value[:len(value)-len("!important")])
		}
		if property == "" || value == "" {
			continue
		}
		if _, exists := sd.declarations[property]; !exists {
			sd.propertyOrder = append(sd.propertyOrder, property)
		}
		sd.declarations[property] = value
	}
}

// syncToAttribute syncs the declarations back to the element's style attribute.
func (sd *StyleDeclaration) syncToAttribute() {
	if cssText := sd.CSSText(); cssText == "" {
		sd.element.RemoveAttribute("style")
	} else {
		sd.element.SetAttribute("style", cssText)
	}
}

// normalizeCSSPropertyName converts camelCase to kebab-case and lowercases.
// Examples: "backgroundColor" -> "background-color", "overflowY" -> "overflow-y"
func normalizeCSSPropertyName(name string) string {
	if name == "" || strings.Contains(name, "-") {
		return strings.ToLower(name)
	}

	var result strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				result.WriteByte('-')
			}
			result.WriteByte(byte(r - 'A' + 'a'))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}
