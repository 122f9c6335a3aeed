package group

import (
	"fmt"

	"flowdash/internal/features/contact"

	"github.com/d5/tengo/v2"
)

// QueryEvaluator runs a dynamic group's query expression against
// contacts. The expression sees `fields` (the contact's field value
// map), `name` and `urn`, and must evaluate to a truthy value for the
// contact to be a member, e.g.:
//
//	fields.age != undefined && fields.age > 18
type QueryEvaluator struct {
	compiled *tengo.Compiled
}

// CompileQuery compiles the expression once so evaluation per contact
// is just a clone-and-run.
func CompileQuery(query string) (*QueryEvaluator, error) {
	src := fmt.Sprintf("matched := (%s)", query)

	script := tengo.NewScript([]byte(src))
	if err := script.Add("fields", map[string]interface{}{}); err != nil {
		return nil, err
	}
	if err := script.Add("name", ""); err != nil {
		return nil, err
	}
	if err := script.Add("urn", ""); err != nil {
		return nil, err
	}

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("failed to compile group query: %w", err)
	}

	return &QueryEvaluator{compiled: compiled}, nil
}

// Matches evaluates the query for one contact. Evaluation errors count
// as non-membership.
func (e *QueryEvaluator) Matches(c *contact.Contact) bool {
	run := e.compiled.Clone()

	fields := c.Fields
	if fields == nil {
		fields = map[string]interface{}{}
	}
	if err := run.Set("fields", fields); err != nil {
		return false
	}
	if err := run.Set("name", c.Name); err != nil {
		return false
	}
	if err := run.Set("urn", c.URN); err != nil {
		return false
	}

	if err := run.Run(); err != nil {
		return false
	}

	return run.Get("matched").Bool()
}
