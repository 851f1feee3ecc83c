package catalog

import (
	"strings"
	"testing"
)

func resolverFrom(t *testing.T, name, data string) (*Resolver, error) {
	t.Helper()
	return newResolver(memorySource{name: name, data: []byte(data)})
}

func TestLoadArrayFormat(t *testing.T) {
	r, err := resolverFrom(t, "kinds.json", `[
		{"id": "peg", "weight": 4},
		{"id": "spinner", "weight": 2, "maxInstances": 4, "prefab": "Obstacles/Spinner"}
	]`)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if r.Len() != 2 {
		t.Fatalf("expected 2 kinds, got %d", r.Len())
	}
	doc, ok := r.Lookup("spinner")
	if !ok {
		t.Fatal("expected spinner to resolve")
	}
	if doc.MaxInstances != 4 || doc.Prefab != "Obstacles/Spinner" {
		t.Fatalf("unexpected spinner document: %+v", doc)
	}
}

func TestLoadObjectFormat(t *testing.T) {
	r, err := resolverFrom(t, "kinds.json", `{
		"peg": {"weight": 4},
		"bumper": {"weight": 3}
	}`)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	doc, ok := r.Lookup("bumper")
	if !ok {
		t.Fatal("expected bumper to resolve")
	}
	if doc.ID != "bumper" {
		t.Fatalf("expected id derived from key, got %q", doc.ID)
	}
}

func TestDuplicateIDRejected(t *testing.T) {
	_, err := resolverFrom(t, "kinds.json", `[
		{"id": "peg", "weight": 4},
		{"id": "peg", "weight": 1}
	]`)
	if err == nil || !strings.Contains(err.Error(), "duplicate kind id") {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
}

func TestNegativeWeightRejected(t *testing.T) {
	_, err := resolverFrom(t, "kinds.json", `[{"id": "peg", "weight": -1}]`)
	if err == nil || !strings.Contains(err.Error(), "negative weight") {
		t.Fatalf("expected negative weight error, got %v", err)
	}
}

func TestMissingIDRejected(t *testing.T) {
	_, err := resolverFrom(t, "kinds.json", `[{"weight": 2}]`)
	if err == nil || !strings.Contains(err.Error(), "missing id") {
		t.Fatalf("expected missing id error, got %v", err)
	}
}

func TestKindsConversionSortedByID(t *testing.T) {
	r, err := resolverFrom(t, "kinds.json", `[
		{"id": "spinner", "weight": 2, "maxInstances": 4},
		{"id": "bumper", "weight": 3}
	]`)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	kinds := r.Kinds()
	if len(kinds) != 2 {
		t.Fatalf("expected 2 kinds, got %d", len(kinds))
	}
	if kinds[0].ID != "bumper" || kinds[1].ID != "spinner" {
		t.Fatalf("expected id-sorted kinds, got %q, %q", kinds[0].ID, kinds[1].ID)
	}
	if kinds[1].MaxInstances != 4 {
		t.Fatalf("maxInstances lost in conversion: %+v", kinds[1])
	}
}

func TestLaterSourceOverridesEarlier(t *testing.T) {
	r, err := newResolver(
		memorySource{name: "base.json", data: []byte(`[{"id": "peg", "weight": 4}]`)},
		memorySource{name: "overlay.json", data: []byte(`[{"id": "peg", "weight": 9}]`)},
	)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	doc, ok := r.Lookup("peg")
	if !ok {
		t.Fatal("expected peg to resolve")
	}
	if doc.Weight != 9 {
		t.Fatalf("expected overlay weight 9, got %g", doc.Weight)
	}
}
