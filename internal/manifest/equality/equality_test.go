package equality

import (
	"testing"

	"github.com/jacoelho/manifestmerger/internal/manifest/androidns"
	"github.com/jacoelho/manifestmerger/internal/manifest/tree"
)

func buildActivity(d *tree.Document, theme bool) tree.NodeID {
	activity := d.NewElement("", "activity", 1)
	d.AddAttribute(activity, tree.Attr{Namespace: androidns.URI, Local: "name", Value: "com.example.LibActivity"})
	d.AddAttribute(activity, tree.Attr{Namespace: androidns.URI, Local: "label", Value: "@string/label"})
	if theme {
		d.AddAttribute(activity, tree.Attr{Namespace: androidns.URI, Local: "theme", Value: "@style/Lib.Theme"})
	}
	return activity
}

func TestEqualIgnoresAttributeOrder(t *testing.T) {
	a := tree.NewDocument("a.xml")
	activityA := a.NewElement("", "activity", 1)
	a.AddAttribute(activityA, tree.Attr{Namespace: androidns.URI, Local: "name", Value: "X"})
	a.AddAttribute(activityA, tree.Attr{Namespace: androidns.URI, Local: "label", Value: "L"})

	b := tree.NewDocument("b.xml")
	activityB := b.NewElement("", "activity", 9)
	b.AddAttribute(activityB, tree.Attr{Namespace: androidns.URI, Local: "label", Value: "L"})
	b.AddAttribute(activityB, tree.Attr{Namespace: androidns.URI, Local: "name", Value: "X"})

	if !Equal(a, activityA, b, activityB) {
		t.Fatal("Equal() = false, want true (attribute order should not matter)")
	}
}

func TestEqualIgnoresCommentsAndWhitespace(t *testing.T) {
	a := tree.NewDocument("a.xml")
	activityA := buildActivity(a, false)

	b := tree.NewDocument("b.xml")
	activityB := b.NewElement("", "activity", 1)
	b.AddAttribute(activityB, tree.Attr{Namespace: androidns.URI, Local: "name", Value: "com.example.LibActivity"})
	b.AddAttribute(activityB, tree.Attr{Namespace: androidns.URI, Local: "label", Value: "@string/label"})
	b.AppendChild(activityB, b.NewComment(" note ", 2))
	b.AppendChild(activityB, b.NewText("   \n  ", 3))

	if !Equal(a, activityA, b, activityB) {
		t.Fatal("Equal() = false, want true (comments/whitespace should not matter)")
	}
}

func TestNotEqualOnDifferentAttribute(t *testing.T) {
	a := tree.NewDocument("a.xml")
	activityA := buildActivity(a, false)

	b := tree.NewDocument("b.xml")
	activityB := buildActivity(b, true)

	if Equal(a, activityA, b, activityB) {
		t.Fatal("Equal() = true, want false (extra theme attribute)")
	}
}

func TestNotEqualOnDifferentChildren(t *testing.T) {
	a := tree.NewDocument("a.xml")
	serviceA := a.NewElement("", "service", 1)

	b := tree.NewDocument("b.xml")
	serviceB := b.NewElement("", "service", 1)
	intentFilter := b.NewElement("", "intent-filter", 2)
	b.AppendChild(serviceB, intentFilter)

	if Equal(a, serviceA, b, serviceB) {
		t.Fatal("Equal() = true, want false (library has extra intent-filter child)")
	}
}

func TestFirstDivergenceEndReached(t *testing.T) {
	a := tree.NewDocument("a.xml")
	serviceA := a.NewElement("", "service", 1)

	b := tree.NewDocument("b.xml")
	serviceB := b.NewElement("", "service", 1)
	intentFilter := b.NewElement("", "intent-filter", 2)
	b.AppendChild(serviceB, intentFilter)

	childrenA := SignificantChildren(a, serviceA)
	childrenB := SignificantChildren(b, serviceB)
	idx, hasA, hasB := FirstDivergence(a, childrenA, b, childrenB)
	if idx != 0 || hasA || !hasB {
		t.Fatalf("FirstDivergence() = (%d, %v, %v), want (0, false, true)", idx, hasA, hasB)
	}
}
