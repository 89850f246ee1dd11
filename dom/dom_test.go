package dom

import (
	"errors"
	"testing"
)

func TestNewDocument(t *testing.T) {
	doc := NewDocument()
	if doc == nil {
		t.Fatal("NewDocument returned nil")
	}
	if doc.AsNode().NodeType() != DocumentNode {
		t.Errorf("Expected DocumentNode, got %v", doc.AsNode().NodeType())
	}
	if doc.DocumentElement() == nil || doc.DocumentElement().LocalName() != "html" {
		t.Fatal("Expected an <html> document element")
	}
	if doc.Head() == nil {
		t.Error("Expected a <head> element")
	}
	if doc.Body() == nil {
		t.Fatal("Expected a <body> element")
	}
	if !doc.Body().IsConnected() {
		t.Error("Expected body to be connected")
	}
	if doc.URL() != "about:blank" {
		t.Errorf("Expected about:blank, got %s", doc.URL())
	}
}

func TestDocument_CreateElement(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("Div")

	if el.TagName() != "DIV" {
		t.Errorf("Expected tagName 'DIV', got '%s'", el.TagName())
	}
	if el.LocalName() != "div" {
		t.Errorf("Expected localName 'div', got '%s'", el.LocalName())
	}
	if el.NodeType() != ElementNode {
		t.Errorf("Expected ElementNode, got %v", el.NodeType())
	}
	if el.AsNode().OwnerDocument() != doc {
		t.Error("Expected the element to be owned by the document")
	}
	if el.IsConnected() {
		t.Error("A freshly created element must not be connected")
	}
}

func TestElement_Attributes(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("div")

	el.SetAttribute("Height", "200")
	el.SetId("hero")

	if el.GetAttribute("height") != "200" {
		t.Errorf("Expected height=200, got %q", el.GetAttribute("height"))
	}
	if el.Id() != "hero" {
		t.Errorf("Expected id=hero, got %q", el.Id())
	}
	if !el.HasAttribute("HEIGHT") {
		t.Error("Expected case-insensitive attribute lookup")
	}

	el.SetAttribute("height", "300")
	if got := len(el.Attributes()); got != 2 {
		t.Errorf("Expected 2 attributes after overwrite, got %d", got)
	}

	el.RemoveAttribute("id")
	if el.Id() != "" || el.HasAttribute("id") {
		t.Error("Expected id to be removed")
	}
}

func TestNode_AppendAndRemove(t *testing.T) {
	doc := NewDocument()
	body := doc.Body()
	a := doc.CreateElement("div")
	b := doc.CreateElement("div")

	body.AppendChild(a)
	body.AppendChild(b)

	if body.AsNode().FirstChild() != a.AsNode() || body.AsNode().LastChild() != b.AsNode() {
		t.Fatal("Expected children in append order")
	}
	if a.AsNode().NextSibling() != b.AsNode() || b.AsNode().PreviousSibling() != a.AsNode() {
		t.Error("Expected sibling pointers to be linked")
	}
	if !a.IsConnected() {
		t.Error("Expected appended element to be connected")
	}

	a.Remove()
	if a.IsConnected() {
		t.Error("Expected removed element to be disconnected")
	}
	if a.AsNode().ParentNode() != nil {
		t.Error("Expected removed element to have no parent")
	}
	if body.AsNode().FirstChild() != b.AsNode() {
		t.Error("Expected b to become the first child")
	}

	// Removing again is harmless
	a.Remove()
}

func TestNode_InsertBefore(t *testing.T) {
	doc := NewDocument()
	body := doc.Body().AsNode()
	a := doc.CreateElement("a").AsNode()
	c := doc.CreateElement("c").AsNode()
	b := doc.CreateElement("b").AsNode()

	body.AppendChild(a)
	body.AppendChild(c)
	body.InsertBefore(b, c)

	children := body.ChildNodes()
	if len(children) != 3 || children[0] != a || children[1] != b || children[2] != c {
		t.Fatalf("Expected a, b, c order, got %v", children)
	}

	// Moving an existing child re-parents it
	body.InsertBefore(c, a)
	children = body.ChildNodes()
	if children[0] != c || children[2] != b {
		t.Errorf("Expected c, a, b after move, got %v", children)
	}
}

func TestNode_HierarchyErrors(t *testing.T) {
	doc := NewDocument()
	outer := doc.CreateElement("div")
	inner := doc.CreateElement("div")
	outer.AppendChild(inner)

	_, err := inner.AsNode().AppendChildWithError(outer.AsNode())
	if !errors.Is(err, ErrHierarchyRequest("")) {
		t.Errorf("Expected HierarchyRequestError, got %v", err)
	}

	_, err = outer.AsNode().AppendChildWithError(doc.AsNode())
	if !errors.Is(err, ErrHierarchyRequest("")) {
		t.Errorf("Expected HierarchyRequestError for document insert, got %v", err)
	}

	stranger := doc.CreateElement("span")
	_, err = outer.AsNode().RemoveChildWithError(stranger.AsNode())
	if !errors.Is(err, ErrNotFound("")) {
		t.Errorf("Expected NotFoundError, got %v", err)
	}
	if errors.Is(err, ErrHierarchyRequest("")) {
		t.Error("NotFoundError must not match HierarchyRequestError")
	}

	_, err = outer.AsNode().InsertBeforeWithError(doc.CreateElement("p").AsNode(), stranger.AsNode())
	if !errors.Is(err, ErrNotFound("")) {
		t.Errorf("Expected NotFoundError for foreign reference node, got %v", err)
	}
}

func TestNode_Contains(t *testing.T) {
	doc := NewDocument()
	body := doc.Body()
	el := body.AppendChild(doc.CreateElement("div"))

	if !body.AsNode().Contains(el.AsNode()) {
		t.Error("Expected body to contain its child")
	}
	if !el.AsNode().Contains(el.AsNode()) {
		t.Error("Contains is inclusive")
	}
	if el.AsNode().Contains(body.AsNode()) {
		t.Error("A child does not contain its parent")
	}
	if body.AsNode().Contains(nil) {
		t.Error("Contains(nil) must be false")
	}
	if el.AsNode().GetRootNode() != doc.AsNode() {
		t.Error("Expected document to be the root")
	}
}

func TestParseHTML(t *testing.T) {
	doc, err := ParseHTML(`<!DOCTYPE html>
<html>
<head><title>Article</title></head>
<body>
  <!-- hero -->
  <div id="hero" height="400">Hello</div>
  <section id="list"><p id="first">One</p><p>Two</p></section>
</body>
</html>`)
	if err != nil {
		t.Fatalf("ParseHTML failed: %v", err)
	}

	hero := doc.GetElementById("hero")
	if hero == nil {
		t.Fatal("Expected to find #hero")
	}
	if hero.GetAttribute("height") != "400" {
		t.Errorf("Expected height attribute 400, got %q", hero.GetAttribute("height"))
	}
	if hero.TextContent() != "Hello" {
		t.Errorf("Expected text Hello, got %q", hero.TextContent())
	}
	if !hero.IsConnected() {
		t.Error("Expected parsed elements to be connected")
	}

	first := doc.GetElementById("first")
	if first == nil || first.AsNode().ParentElement().Id() != "list" {
		t.Error("Expected #first inside #list")
	}

	if doc.GetElementById("missing") != nil {
		t.Error("Expected nil for a missing id")
	}
	if doc.GetElementById("") != nil {
		t.Error("Expected nil for an empty id")
	}

	var tags []string
	for _, el := range doc.Elements() {
		tags = append(tags, el.LocalName())
	}
	want := []string{"html", "head", "title", "body", "div", "section", "p", "p"}
	if len(tags) != len(want) {
		t.Fatalf("Expected elements %v, got %v", want, tags)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("Element %d: expected %s, got %s", i, want[i], tags[i])
		}
	}
}

func TestParseHTML_Fragment(t *testing.T) {
	doc, err := ParseHTML(`<div id="only"></div>`)
	if err != nil {
		t.Fatalf("ParseHTML failed: %v", err)
	}
	if doc.Body() == nil {
		t.Fatal("Expected the parser to synthesize a body")
	}
	if doc.GetElementById("only").AsNode().ParentElement() != doc.Body() {
		t.Error("Expected fragment content inside body")
	}
}
