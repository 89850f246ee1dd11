package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Document represents the entire HTML document.
type Document Node

// NewDocument creates a new HTML Document with an empty
// <html><head></head><body></body></html> skeleton.
func NewDocument() *Document {
	doc := newEmptyDocument()
	htmlEl := doc.CreateElement("html")
	htmlEl.AppendChild(doc.CreateElement("head"))
	htmlEl.AppendChild(doc.CreateElement("body"))
	doc.AsNode().AppendChild(htmlEl.AsNode())
	return doc
}

func newEmptyDocument() *Document {
	node := newNode(DocumentNode, "#document", nil)
	node.documentData = &documentData{}
	doc := (*Document)(node)
	node.ownerDoc = doc
	return doc
}

// AsNode returns the underlying Node.
func (d *Document) AsNode() *Node {
	return (*Node)(d)
}

// URL returns the document's URL. Defaults to "about:blank".
func (d *Document) URL() string {
	if d.AsNode().documentData.url == "" {
		return "about:blank"
	}
	return d.AsNode().documentData.url
}

// SetURL sets the document's URL.
func (d *Document) SetURL(url string) {
	d.AsNode().documentData.url = url
}

// DefaultView returns the window presenting this document, or nil if the
// document has not been attached to one.
func (d *Document) DefaultView() *Window {
	return d.AsNode().documentData.window
}

// DocumentElement returns the root element of the document.
func (d *Document) DocumentElement() *Element {
	for child := d.AsNode().firstChild; child != nil; child = child.nextSibling {
		if child.nodeType == ElementNode {
			return (*Element)(child)
		}
	}
	return nil
}

// Head returns the <head> element.
func (d *Document) Head() *Element {
	return d.rootChild("head")
}

// Body returns the <body> element.
func (d *Document) Body() *Element {
	return d.rootChild("body")
}

func (d *Document) rootChild(localName string) *Element {
	docEl := d.DocumentElement()
	if docEl == nil {
		return nil
	}
	for _, el := range docEl.Children() {
		if el.LocalName() == localName {
			return el
		}
	}
	return nil
}

// ScrollingElement returns the element whose scroll extent is the
// document's. Like quirks-mode browsers this is the body.
func (d *Document) ScrollingElement() *Element {
	return d.Body()
}

// CreateElement creates a new element with the given tag name.
func (d *Document) CreateElement(tagName string) *Element {
	localName := strings.ToLower(tagName)
	node := newNode(ElementNode, strings.ToUpper(localName), d)
	node.elementData = &elementData{
		localName: localName,
		tagName:   strings.ToUpper(localName),
	}
	return (*Element)(node)
}

// CreateTextNode creates a new text node.
func (d *Document) CreateTextNode(data string) *Node {
	node := newNode(TextNode, "#text", d)
	node.textData = &data
	return node
}

// GetElementById returns the first element in tree order with the given id.
func (d *Document) GetElementById(id string) *Element {
	if id == "" {
		return nil
	}
	var found *Element
	d.AsNode().walkElements(func(el *Element) bool {
		if el.Id() == id {
			found = el
			return false
		}
		return true
	})
	return found
}

// Elements returns every element of the document in tree order.
func (d *Document) Elements() []*Element {
	var elements []*Element
	d.AsNode().walkElements(func(el *Element) bool {
		elements = append(elements, el)
		return true
	})
	return elements
}

// ParseHTML parses an HTML string and returns a Document.
func ParseHTML(htmlContent string) (*Document, error) {
	doc := newEmptyDocument()

	// Parse using golang.org/x/net/html
	netDoc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	// Convert the parsed tree to our DOM structure
	convertHTMLTree(netDoc, doc.AsNode(), doc)

	return doc, nil
}

// convertHTMLTree converts an html.Node tree to our DOM tree.
// Comments and doctypes carry no geometry and are dropped.
func convertHTMLTree(src *html.Node, parent *Node, doc *Document) {
	for c := src.FirstChild; c != nil; c = c.NextSibling {
		var node *Node

		switch c.Type {
		case html.TextNode:
			node = doc.CreateTextNode(c.Data)

		case html.ElementNode:
			el := doc.CreateElement(c.Data)
			for _, attr := range c.Attr {
				el.SetAttribute(attr.Key, attr.Val)
			}
			node = el.AsNode()

		case html.DocumentNode:
			// Don't create a new document node, just process children
			convertHTMLTree(c, parent, doc)
			continue

		default:
			continue
		}

		parent.insertBeforeInternal(node, nil)
		if c.Type == html.ElementNode {
			convertHTMLTree(c, node, doc)
		}
	}
}
