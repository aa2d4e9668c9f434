package host

import "testing"

func buildTree() (doc, canvas, node, outside *Element) {
	doc = NewDocument()
	canvas = doc.Append("canvas", "smm-mind-map")
	node = canvas.Append("node-1", "smm-node")
	outside = doc.Append("sidebar")
	return
}

func TestElementDocumentRoot(t *testing.T) {
	doc, canvas, _, _ := buildTree()

	if !doc.IsDocumentRoot() {
		t.Error("document should be the root")
	}
	if canvas.IsDocumentRoot() {
		t.Error("canvas should not be the root")
	}
	var nilElem *Element
	if nilElem.IsDocumentRoot() {
		t.Error("nil element should not be the root")
	}
}

func TestElementContains(t *testing.T) {
	doc, canvas, node, outside := buildTree()

	tests := []struct {
		name   string
		parent *Element
		target *Element
		want   bool
	}{
		{"self", canvas, canvas, true},
		{"child", canvas, node, true},
		{"document contains all", doc, node, true},
		{"sibling subtree", canvas, outside, false},
		{"ancestor", node, canvas, false},
		{"nil target", canvas, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.parent.Contains(tt.target); got != tt.want {
				t.Errorf("Contains() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestElementClasses(t *testing.T) {
	e := NewDocument().Append("edit", "smm-node-edit-wrap")

	if !e.HasClass("smm-node-edit-wrap") {
		t.Error("expected class")
	}
	e.AddClass("focused")
	e.AddClass("focused")
	if len(e.Classes) != 2 {
		t.Errorf("Classes = %v, want 2 entries", e.Classes)
	}
	e.RemoveClass("smm-node-edit-wrap")
	if e.HasClass("smm-node-edit-wrap") {
		t.Error("class should be removed")
	}
	if e.String() != "edit.focused" {
		t.Errorf("String() = %q", e.String())
	}
}

func TestElementFindAndPath(t *testing.T) {
	doc, _, node, _ := buildTree()

	if got := doc.Find("node-1"); got != node {
		t.Errorf("Find(node-1) = %v", got)
	}
	if got := doc.Find("missing"); got != nil {
		t.Errorf("Find(missing) = %v, want nil", got)
	}
	if got := node.Path(); got != "body > canvas > node-1" {
		t.Errorf("Path() = %q", got)
	}
	if len(doc.Children()) != 2 {
		t.Errorf("Children() = %d, want 2", len(doc.Children()))
	}
}
