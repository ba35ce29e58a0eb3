/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package capstore_test

import (
	"fmt"
	"testing"

	capstore "github.com/suparena/capstore"
	"github.com/suparena/capstore/registry"
)

// End-to-end flow: independent modules attach capabilities to a shared
// document type, one of them primary, and consumers retrieve them by
// contract, order, tag, and registry lookup.

type Document struct {
	Path string
}

type Exporter interface {
	Export() string
}

type PDFExporter struct {
	Priority int
}

func (e PDFExporter) Export() string       { return "pdf" }
func (e PDFExporter) CapabilityOrder() int { return e.Priority }
func (e PDFExporter) CapabilityTags() []any {
	return []any{"binary", "paged"}
}

type HTMLExporter struct {
	Priority int
}

func (e HTMLExporter) Export() string       { return "html" }
func (e HTMLExporter) CapabilityOrder() int { return e.Priority }
func (e HTMLExporter) CapabilityTags() []any {
	return []any{"text"}
}

type SpellChecker struct {
	Lang string
}

func (SpellChecker) PrimaryCapability() {}

func TestDocumentAssembly(t *testing.T) {
	doc := &Document{Path: "/tmp/report.md"}

	opts := capstore.Options{TagIndexStrategy: capstore.IndexEager}
	b := capstore.NewWith(doc, opts)

	// Exporters register under the Exporter contract, not their concrete
	// types; the spell checker registers under its concrete type and is
	// the document's primary capability.
	if err := b.AddAs(PDFExporter{Priority: 20}, capstore.As[Exporter]()); err != nil {
		t.Fatalf("AddAs(PDFExporter) failed: %v", err)
	}
	if err := b.AddAs(HTMLExporter{Priority: 10}, capstore.As[Exporter]()); err != nil {
		t.Fatalf("AddAs(HTMLExporter) failed: %v", err)
	}
	if err := b.Add(SpellChecker{Lang: "en"}); err != nil {
		t.Fatalf("Add(SpellChecker) failed: %v", err)
	}

	comp, err := registry.BuildAndRegister(registry.Default(), b)
	if err != nil {
		t.Fatalf("BuildAndRegister failed: %v", err)
	}
	defer registry.Remove(registry.Default(), doc)

	// Ordered contract retrieval: HTML (10) before PDF (20).
	exporters := capstore.GetAll[Exporter](comp)
	if len(exporters) != 2 {
		t.Fatalf("Expected 2 exporters, got %d", len(exporters))
	}
	if got := exporters[0].Export(); got != "html" {
		t.Fatalf("First exporter = %q, want html", got)
	}

	// Contract-only: concrete exporter types were never registered.
	if capstore.Has[PDFExporter](comp) {
		t.Fatal("PDFExporter should not be retrievable by concrete type")
	}

	// Tag retrieval.
	if got := capstore.GetAllByTag[Exporter](comp, "text"); len(got) != 1 || got[0].Export() != "html" {
		t.Fatalf("GetAllByTag(text) = %v", got)
	}
	tags := comp.AllTags()
	if len(tags) != 3 {
		t.Fatalf("AllTags = %v", tags)
	}

	// Primary retrieval.
	sc, err := capstore.RequiredPrimaryAs[SpellChecker](comp)
	if err != nil {
		t.Fatalf("RequiredPrimaryAs failed: %v", err)
	}
	if sc.Lang != "en" {
		t.Fatalf("SpellChecker.Lang = %q", sc.Lang)
	}

	// Registry round-trip by subject identity.
	found, ok := registry.TryFind(registry.Default(), doc)
	if !ok {
		t.Fatal("Registered document should be findable")
	}
	if found != comp {
		t.Fatal("Lookup should return the registered composition")
	}
}

type Plugin struct {
	Name  string
	Group string
}

func (p Plugin) CapabilityTags() []any { return []any{p.Group} }

func TestPluginDiscoveryScale(t *testing.T) {
	// Large-bag scenario: the auto strategy kicks in and results remain
	// identical to a linear scan.
	doc := Document{Path: "bulk"}
	opts := capstore.Options{
		TagIndexStrategy:   capstore.IndexAuto,
		AutoIndexThreshold: 100,
		IndexMinFrequency:  10,
	}
	b := capstore.NewWith(doc, opts)
	for i := 0; i < 500; i++ {
		p := Plugin{
			Name:  fmt.Sprintf("plugin%03d", i),
			Group: fmt.Sprintf("group%d", i%20),
		}
		if err := b.Add(p); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}
	comp, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if comp.TotalCount() != 500 {
		t.Fatalf("TotalCount = %d", comp.TotalCount())
	}

	got := capstore.GetAllByTag[Plugin](comp, "group7")
	if len(got) != 25 {
		t.Fatalf("GetAllByTag(group7) returned %d plugins, want 25", len(got))
	}
	// Indexed results keep bucket (insertion) order.
	for i := 1; i < len(got); i++ {
		if got[i-1].Name >= got[i].Name {
			t.Fatalf("Results out of order at %d: %v", i, got)
		}
	}
}
