// Package dom provides the document tree observed by the viewport engine:
// nodes, elements with layout geometry and scroll state, and the window
// whose viewport they are seen through.
package dom

// NodeType represents the type of a Node as defined in the DOM specification.
type NodeType uint16

const (
	// ElementNode represents an Element node.
	ElementNode NodeType = 1
	// TextNode represents a Text node.
	TextNode NodeType = 3
	// DocumentNode represents a Document node.
	DocumentNode NodeType = 9
)

// String returns the string representation of the NodeType.
func (nt NodeType) String() string {
	switch nt {
	case ElementNode:
		return "ELEMENT_NODE"
	case TextNode:
		return "TEXT_NODE"
	case DocumentNode:
		return "DOCUMENT_NODE"
	default:
		return "UNKNOWN_NODE"
	}
}
