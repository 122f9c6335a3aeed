package group

import (
	"testing"

	"flowdash/internal/features/contact"
)

func TestCompileQueryRejectsBadExpressions(t *testing.T) {
	if _, err := CompileQuery("fields.age >"); err == nil {
		t.Error("expected compile error for truncated expression")
	}
	if _, err := CompileQuery(""); err == nil {
		t.Error("expected compile error for empty expression")
	}
}

func TestQueryMatches(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		contact contact.Contact
		want    bool
	}{
		{
			name:    "field equality",
			query:   `fields.state == "Kigali"`,
			contact: contact.Contact{Fields: map[string]interface{}{"state": "Kigali"}},
			want:    true,
		},
		{
			name:    "field mismatch",
			query:   `fields.state == "Kigali"`,
			contact: contact.Contact{Fields: map[string]interface{}{"state": "Eastern"}},
			want:    false,
		},
		{
			name:    "conjunction",
			query:   `fields.state == "Kigali" && fields.gender == "Female"`,
			contact: contact.Contact{Fields: map[string]interface{}{"state": "Kigali", "gender": "Female"}},
			want:    true,
		},
		{
			name:    "bracket access",
			query:   `fields["age"] == "18-34"`,
			contact: contact.Contact{Fields: map[string]interface{}{"age": "18-34"}},
			want:    true,
		},
		{
			name:    "name variable",
			query:   `name == "Alice"`,
			contact: contact.Contact{Name: "Alice"},
			want:    true,
		},
		{
			name:    "missing field is falsy",
			query:   `fields.state == "Kigali"`,
			contact: contact.Contact{},
			want:    false,
		},
		{
			name:    "runtime error counts as non-member",
			query:   `fields.age + 1 > 18`,
			contact: contact.Contact{Fields: map[string]interface{}{"age": "not a number"}},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval, err := CompileQuery(tt.query)
			if err != nil {
				t.Fatalf("CompileQuery() error = %v", err)
			}
			if got := eval.Matches(&tt.contact); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQueryEvaluatorReusableAcrossContacts(t *testing.T) {
	eval, err := CompileQuery(`fields.state == "Kigali"`)
	if err != nil {
		t.Fatalf("CompileQuery() error = %v", err)
	}

	in := contact.Contact{Fields: map[string]interface{}{"state": "Kigali"}}
	out := contact.Contact{Fields: map[string]interface{}{"state": "Eastern"}}

	for i := 0; i < 3; i++ {
		if !eval.Matches(&in) {
			t.Fatal("expected member")
		}
		if eval.Matches(&out) {
			t.Fatal("expected non-member")
		}
	}
}
