package dom

import (
	"strings"
)

// Node represents a node in the document tree. Document, Element and Text
// share this representation and differ in which type-specific data is set.
type Node struct {
	nodeType   NodeType
	nodeName   string
	ownerDoc   *Document
	parentNode *Node

	// First/last child and sibling pointers for efficient traversal
	firstChild  *Node
	lastChild   *Node
	prevSibling *Node
	nextSibling *Node

	// Type-specific data (only one will be non-nil based on nodeType)
	elementData  *elementData
	textData     *string
	documentData *documentData
}

// ElementGeometry holds computed layout geometry for an element.
// This is set during layout computation and used by getBoundingClientRect.
type ElementGeometry struct {
	// Border box coordinates relative to the viewport
	X, Y, Width, Height float64

	// Border box position in document coordinates, independent of scrolling
	DocumentX, DocumentY float64

	// Scroll properties
	ScrollTop, ScrollLeft     float64
	ScrollWidth, ScrollHeight float64
	ClientTop, ClientLeft     float64
	ClientWidth, ClientHeight float64
}

// elementData holds data specific to Element nodes.
type elementData struct {
	localName  string
	tagName    string
	attributes []Attr

	// Layout geometry - set during layout computation
	geometry *ElementGeometry
}

// documentData holds data specific to Document nodes.
type documentData struct {
	url    string
	window *Window
}

// newNode creates a new node with the given type and name.
func newNode(nodeType NodeType, nodeName string, ownerDoc *Document) *Node {
	return &Node{
		nodeType: nodeType,
		nodeName: nodeName,
		ownerDoc: ownerDoc,
	}
}

// NodeType returns the type of the node.
func (n *Node) NodeType() NodeType {
	return n.nodeType
}

// NodeName returns the name of the node.
func (n *Node) NodeName() string {
	return n.nodeName
}

// OwnerDocument returns the document that owns this node.
// Returns nil for Document nodes.
func (n *Node) OwnerDocument() *Document {
	if n.nodeType == DocumentNode {
		return nil
	}
	return n.ownerDoc
}

// ParentNode returns the parent of this node.
func (n *Node) ParentNode() *Node {
	return n.parentNode
}

// ParentElement returns the parent element, or nil if the parent is not an element.
func (n *Node) ParentElement() *Element {
	if n.parentNode == nil || n.parentNode.nodeType != ElementNode {
		return nil
	}
	return (*Element)(n.parentNode)
}

// FirstChild returns the first child of this node.
func (n *Node) FirstChild() *Node {
	return n.firstChild
}

// LastChild returns the last child of this node.
func (n *Node) LastChild() *Node {
	return n.lastChild
}

// PreviousSibling returns the previous sibling of this node.
func (n *Node) PreviousSibling() *Node {
	return n.prevSibling
}

// NextSibling returns the next sibling of this node.
func (n *Node) NextSibling() *Node {
	return n.nextSibling
}

// HasChildNodes returns true if this node has any child nodes.
func (n *Node) HasChildNodes() bool {
	return n.firstChild != nil
}

// ChildNodes returns a snapshot of this node's children.
func (n *Node) ChildNodes() []*Node {
	var children []*Node
	for child := n.firstChild; child != nil; child = child.nextSibling {
		children = append(children, child)
	}
	return children
}

// IsConnected returns true if the node is connected to a document.
// A node is connected if its root is a document.
func (n *Node) IsConnected() bool {
	root := n.GetRootNode()
	return root != nil && root.nodeType == DocumentNode
}

// TextContent returns the text content of the node and its descendants.
func (n *Node) TextContent() string {
	switch n.nodeType {
	case DocumentNode:
		return ""
	case TextNode:
		return *n.textData
	}
	var sb strings.Builder
	n.collectTextContent(&sb)
	return sb.String()
}

func (n *Node) collectTextContent(sb *strings.Builder) {
	for child := n.firstChild; child != nil; child = child.nextSibling {
		if child.nodeType == TextNode {
			sb.WriteString(*child.textData)
		} else if child.nodeType == ElementNode {
			child.collectTextContent(sb)
		}
	}
}

// AppendChild adds a child node to the end of this node's children.
// For error-returning version, use AppendChildWithError.
func (n *Node) AppendChild(child *Node) *Node {
	result, _ := n.AppendChildWithError(child)
	return result
}

// AppendChildWithError adds a child node to the end of this node's children.
func (n *Node) AppendChildWithError(child *Node) (*Node, error) {
	return n.InsertBeforeWithError(child, nil)
}

// InsertBefore inserts a node before the reference child.
// If refChild is nil, the node is appended.
func (n *Node) InsertBefore(newChild, refChild *Node) *Node {
	result, _ := n.InsertBeforeWithError(newChild, refChild)
	return result
}

// InsertBeforeWithError inserts a node before the reference child.
// Returns an error if the insertion would produce an invalid tree.
func (n *Node) InsertBeforeWithError(newChild, refChild *Node) (*Node, error) {
	if newChild == nil {
		return nil, ErrHierarchyRequest("The node to be inserted is null.")
	}
	if n.nodeType == TextNode {
		return nil, ErrHierarchyRequest("Text nodes cannot have children.")
	}
	if newChild.nodeType == DocumentNode {
		return nil, ErrHierarchyRequest("A document cannot be inserted into a tree.")
	}
	if newChild.Contains(n) {
		return nil, ErrHierarchyRequest("The new child is an ancestor of the parent.")
	}
	if refChild != nil && refChild.parentNode != n {
		return nil, ErrNotFound("The reference node is not a child of this node.")
	}

	// If inserting a node before itself, return early (no-op)
	if newChild == refChild {
		return newChild, nil
	}

	if newChild.parentNode != nil {
		newChild.parentNode.removeChildInternal(newChild)
	}
	n.insertBeforeInternal(newChild, refChild)
	return newChild, nil
}

// RemoveChild removes a child node from this node.
// For error-returning version, use RemoveChildWithError.
func (n *Node) RemoveChild(child *Node) *Node {
	result, _ := n.RemoveChildWithError(child)
	return result
}

// RemoveChildWithError removes a child node from this node.
// Returns an error if the child is not a child of this node.
func (n *Node) RemoveChildWithError(child *Node) (*Node, error) {
	if child == nil {
		return nil, ErrNotFound("The node to be removed is null.")
	}
	if child.parentNode != n {
		return nil, ErrNotFound("The node to be removed is not a child of this node.")
	}
	n.removeChildInternal(child)
	return child, nil
}

// removeChildInternal removes a child from this node's children list.
// This is the internal implementation that does not check if child is actually a child.
func (n *Node) removeChildInternal(child *Node) {
	if child.prevSibling != nil {
		child.prevSibling.nextSibling = child.nextSibling
	} else {
		n.firstChild = child.nextSibling
	}

	if child.nextSibling != nil {
		child.nextSibling.prevSibling = child.prevSibling
	} else {
		n.lastChild = child.prevSibling
	}

	child.parentNode = nil
	child.prevSibling = nil
	child.nextSibling = nil
}

// insertBeforeInternal inserts a node before a reference child without validation.
// If refChild is nil, appends to the end.
func (n *Node) insertBeforeInternal(newChild, refChild *Node) {
	newChild.parentNode = n

	// Adopt the node to this document if needed
	if n.nodeType == DocumentNode {
		adoptNode(newChild, (*Document)(n))
	} else if n.ownerDoc != nil && newChild.ownerDoc != n.ownerDoc {
		adoptNode(newChild, n.ownerDoc)
	}

	if refChild == nil {
		newChild.prevSibling = n.lastChild
		newChild.nextSibling = nil
		if n.lastChild != nil {
			n.lastChild.nextSibling = newChild
		} else {
			n.firstChild = newChild
		}
		n.lastChild = newChild
		return
	}

	newChild.prevSibling = refChild.prevSibling
	newChild.nextSibling = refChild
	if refChild.prevSibling != nil {
		refChild.prevSibling.nextSibling = newChild
	} else {
		n.firstChild = newChild
	}
	refChild.prevSibling = newChild
}

// adoptNode recursively sets the ownerDocument for a node and its descendants.
func adoptNode(node *Node, doc *Document) {
	node.ownerDoc = doc
	for child := node.firstChild; child != nil; child = child.nextSibling {
		adoptNode(child, doc)
	}
}

// Contains returns true if the given node is an inclusive descendant of this node.
func (n *Node) Contains(other *Node) bool {
	if other == nil {
		return false
	}
	for node := other; node != nil; node = node.parentNode {
		if node == n {
			return true
		}
	}
	return false
}

// GetRootNode returns the root of the tree containing this node.
func (n *Node) GetRootNode() *Node {
	root := n
	for root.parentNode != nil {
		root = root.parentNode
	}
	return root
}

// walkElements calls fn for every element below n in tree order.
// Returning false from fn stops the walk.
func (n *Node) walkElements(fn func(*Element) bool) bool {
	for child := n.firstChild; child != nil; child = child.nextSibling {
		if child.nodeType != ElementNode {
			continue
		}
		if !fn((*Element)(child)) {
			return false
		}
		if !child.walkElements(fn) {
			return false
		}
	}
	return true
}
