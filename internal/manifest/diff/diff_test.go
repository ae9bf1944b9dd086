package diff

import (
	"strings"
	"testing"

	"github.com/jacoelho/manifestmerger/internal/manifest/androidns"
	"github.com/jacoelho/manifestmerger/internal/manifest/tree"
)

func TestLinesHeaderUsesKeyAttribute(t *testing.T) {
	doc := tree.NewDocument("main.xml")
	service := doc.NewElement("", "service", 1)
	doc.AddAttribute(service, tree.Attr{Namespace: androidns.URI, Local: "name", Value: "com.example.AppService2"})

	lib := tree.NewDocument("lib.xml")
	libService := lib.NewElement("", "service", 1)
	lib.AddAttribute(libService, tree.Attr{Namespace: androidns.URI, Local: "name", Value: "com.example.AppService2"})

	lines := Lines(doc, service, lib, libService)
	if lines[0] != "<service android:name=com.example.AppService2>" {
		t.Fatalf("header = %q", lines[0])
	}
}

func TestChildLinesReportFirstDivergence(t *testing.T) {
	doc := tree.NewDocument("main.xml")
	service := doc.NewElement("", "service", 1)
	doc.AddAttribute(service, tree.Attr{Namespace: androidns.URI, Local: "name", Value: "com.example.AppService2"})

	lib := tree.NewDocument("lib.xml")
	libService := lib.NewElement("", "service", 1)
	lib.AddAttribute(libService, tree.Attr{Namespace: androidns.URI, Local: "name", Value: "com.example.AppService2"})
	intentFilter := lib.NewElement("", "intent-filter", 2)
	lib.AppendChild(libService, intentFilter)

	lines := Lines(doc, service, lib, libService)
	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "--  (end reached)") {
		t.Fatalf("expected primary end-reached marker, got:\n%s", joined)
	}
	if !strings.Contains(joined, "++  <intent-filter>") {
		t.Fatalf("expected library intent-filter marker, got:\n%s", joined)
	}
}

func TestAttributeLinesMarkLibraryOnlyAttribute(t *testing.T) {
	doc := tree.NewDocument("main.xml")
	activity := doc.NewElement("", "activity", 1)
	doc.AddAttribute(activity, tree.Attr{Namespace: androidns.URI, Local: "name", Value: "com.example.LibActivity"})
	doc.AddAttribute(activity, tree.Attr{Namespace: androidns.URI, Local: "icon", Value: "@drawable/icon"})
	doc.AddAttribute(activity, tree.Attr{Namespace: androidns.URI, Local: "label", Value: "@string/label"})

	lib := tree.NewDocument("lib.xml")
	libActivity := lib.NewElement("", "activity", 1)
	lib.AddAttribute(libActivity, tree.Attr{Namespace: androidns.URI, Local: "name", Value: "com.example.LibActivity"})
	lib.AddAttribute(libActivity, tree.Attr{Namespace: androidns.URI, Local: "icon", Value: "@drawable/icon"})
	lib.AddAttribute(libActivity, tree.Attr{Namespace: androidns.URI, Local: "label", Value: "@string/label"})
	lib.AddAttribute(libActivity, tree.Attr{Namespace: androidns.URI, Local: "theme", Value: "@style/Lib.Theme"})

	lines := attributeLines(doc, activity, lib, libActivity)
	want := []string{
		"      @android:icon = @drawable/icon",
		"      @android:label = @string/label",
		"      @android:name = com.example.LibActivity",
		"++    @android:theme = @style/Lib.Theme",
	}
	if len(lines) != len(want) {
		t.Fatalf("attributeLines() = %v, want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestAttributeLinesMarkDifferingValueBothSides(t *testing.T) {
	doc := tree.NewDocument("main.xml")
	activity := doc.NewElement("", "activity", 1)
	doc.AddAttribute(activity, tree.Attr{Namespace: androidns.URI, Local: "theme", Value: "@style/App.Theme"})

	lib := tree.NewDocument("lib.xml")
	libActivity := lib.NewElement("", "activity", 1)
	lib.AddAttribute(libActivity, tree.Attr{Namespace: androidns.URI, Local: "theme", Value: "@style/Lib.Theme"})

	lines := attributeLines(doc, activity, lib, libActivity)
	want := []string{
		"--    @android:theme = @style/App.Theme",
		"++    @android:theme = @style/Lib.Theme",
	}
	if len(lines) != 2 || lines[0] != want[0] || lines[1] != want[1] {
		t.Fatalf("attributeLines() = %v, want %v", lines, want)
	}
}

func TestChildLinesNoDivergenceReturnsNil(t *testing.T) {
	doc := tree.NewDocument("main.xml")
	service := doc.NewElement("", "service", 1)

	lib := tree.NewDocument("lib.xml")
	libService := lib.NewElement("", "service", 1)

	if lines := childLines(doc, service, lib, libService); lines != nil {
		t.Fatalf("childLines() = %v, want nil", lines)
	}
}
