package dataset

import (
	"strings"
	"testing"
)

func TestStringify(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"plain", "plain"},
		{float64(3), "3"},
		{2.5, "2.5"},
		{true, "true"},
		{42, "42"},
	}

	for _, tt := range tests {
		if got := Stringify(tt.in); got != tt.want {
			t.Errorf("Stringify(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsRefField(t *testing.T) {
	tests := []struct {
		field string
		want  bool
	}{
		{"iri", false},
		{"Iri", false},
		{"parentIri", true},
		{"buildingsIri", true},
		{"label", false},
		{"iriCount", false},
	}

	for _, tt := range tests {
		if got := IsRefField(tt.field); got != tt.want {
			t.Errorf("IsRefField(%q) = %v, want %v", tt.field, got, tt.want)
		}
	}
}

func TestRowRef(t *testing.T) {
	r := Row{"iri": "a", "parentIri": "", "ownerIri": nil, "buildingsIri": "b"}

	if _, ok := r.Ref("parentIri"); ok {
		t.Error("empty reference should not resolve")
	}
	if _, ok := r.Ref("ownerIri"); ok {
		t.Error("null reference should not resolve")
	}
	if got, ok := r.Ref("buildingsIri"); !ok || got != "b" {
		t.Errorf("Ref(buildingsIri) = %q, %v", got, ok)
	}
}

func TestCloneIsolation(t *testing.T) {
	d := Datasets{"parts": {{"iri": "a", "parentIri": "x"}}}
	cp := d.Clone()
	delete(cp["parts"][0], "parentIri")

	if _, ok := d["parts"][0]["parentIri"]; !ok {
		t.Error("Clone should not share row maps with the original")
	}
}

func TestSanitize(t *testing.T) {
	d := Datasets{
		"parts": {{"iri": "a"}, {"label": "no iri"}, {"iri": ""}},
		"rooms": {{"iri": "r1"}},
	}

	out, dropped := Sanitize(d)
	if dropped != 2 {
		t.Errorf("dropped = %d, want 2", dropped)
	}
	if len(out["parts"]) != 1 || len(out["rooms"]) != 1 {
		t.Errorf("unexpected sanitized sizes: parts=%d rooms=%d", len(out["parts"]), len(out["rooms"]))
	}
	if len(d["parts"]) != 3 {
		t.Error("Sanitize should not modify its input")
	}
}

func TestSanitizeCategories(t *testing.T) {
	d := Datasets{
		"parts": {{"iri": "a"}, {"label": "no iri"}},
		"links": {{"from": "a", "to": "b"}},
	}

	out, dropped := Sanitize(d, "parts")
	if dropped != 1 {
		t.Errorf("dropped = %d, want 1", dropped)
	}
	if len(out["links"]) != 1 {
		t.Error("rows of unchecked categories should be kept")
	}
}

func TestRead(t *testing.T) {
	d, err := Read(strings.NewReader(`{"parts":[{"iri":"a","weight":1.5},{"iri":"b","parentIri":"a"}]}`))
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if d.RowCount() != 2 {
		t.Errorf("RowCount() = %d, want 2", d.RowCount())
	}
	if got, _ := d["parts"][0].Text("weight"); got != "1.5" {
		t.Errorf("weight = %q, want 1.5", got)
	}
	if got := d.Categories(); len(got) != 1 || got[0] != "parts" {
		t.Errorf("Categories() = %v", got)
	}
}

func TestReadInvalid(t *testing.T) {
	if _, err := Read(strings.NewReader(`[1,2,3]`)); err == nil {
		t.Error("Read() should reject non-object JSON")
	}
}
