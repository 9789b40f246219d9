package region

import (
	"fmt"
	"math"
	"strings"

	"github.com/lithammer/dedent"

	"github.com/gubarz/parkdown/internal/specifier"
)

// Definitions lists every operation accepted by a region= value
var Definitions = []string{
	"extract(id: string, 0?: string, 1?: string, 2?: string)",
	"remove(id: string, 0?: string, 1?: string, 2?: string)",
	"replace(id: string, with?: string, space?: string)",
	"splice-start(id: string, count?: number, insert?: string, space?: string)",
	"splice-end(id: string, count?: number, insert?: string, space?: string)",
	"remap(id: string, from: string, to?: string, space?: string)",
	"single-line(id: string)",
	"trim-start(id: string, left?: boolean, right?: boolean)",
	"trim-end(id: string, left?: boolean, right?: boolean)",
}

var parser = specifier.MustParser(Definitions...)

// Operation is one parsed region invocation
type Operation interface {
	// Run applies the operation without the final dedent and trim
	Run(content string) string
}

// Boundary selects the open or close comment of a pair
type Boundary int

const (
	Start Boundary = iota
	End
)

// Extraction keeps only the text between pairs of any of IDs
type Extraction struct {
	IDs []string
}

// Removal drops every pair of any of IDs with the text it encloses
type Removal struct {
	IDs []string
}

// Replacement substitutes the text enclosed by each pair of ID
type Replacement struct {
	ID    string
	With  *string // nil uses the open comment's value
	Space string
}

// Splice deletes and inserts text at one boundary of each pair of ID
type Splice struct {
	ID       string
	Boundary Boundary
	Count    int
	Before   bool // set for negative counts, including -0
	Insert   string
	Space    string
}

// Remap replaces From with To strictly inside each pair of ID
type Remap struct {
	ID    string
	From  string
	To    string
	Space string
}

// SingleLine collapses whitespace runs inside each pair of ID
type SingleLine struct {
	ID string
}

// Trim deletes whitespace around one boundary of each pair of ID
type Trim struct {
	ID       string
	Boundary Boundary
	Left     bool
	Right    bool
}

// Parse converts one invocation into its operation
func Parse(query string) (Operation, error) {
	result, err := parser.Parse(query)
	if err != nil {
		return nil, fmt.Errorf("region %q: %w", query, err)
	}

	id, _ := result.Text("id")
	space, _ := result.Text("space")

	switch result.Name {
	case "extract":
		return Extraction{IDs: append([]string{id}, result.Numbered()...)}, nil
	case "remove":
		return Removal{IDs: append([]string{id}, result.Numbered()...)}, nil
	case "replace":
		op := Replacement{ID: id, Space: space}
		if with, ok := result.Text("with"); ok {
			op.With = &with
		}
		return op, nil
	case "splice-start", "splice-end":
		count, _ := result.Number("count")
		insert, _ := result.Text("insert")
		op := Splice{
			ID:     id,
			Count:  int(math.Abs(count)),
			Before: math.Signbit(count),
			Insert: insert,
			Space:  space,
		}
		if result.Name == "splice-end" {
			op.Boundary = End
		}
		return op, nil
	case "remap":
		from, _ := result.Text("from")
		to, _ := result.Text("to")
		return Remap{ID: id, From: from, To: to, Space: space}, nil
	case "single-line":
		return SingleLine{ID: id}, nil
	case "trim-start", "trim-end":
		op := Trim{ID: id, Left: true, Right: true}
		if left, ok := result.Bool("left"); ok {
			op.Left = left
		}
		if right, ok := result.Bool("right"); ok {
			op.Right = right
		}
		if result.Name == "trim-end" {
			op.Boundary = End
		}
		return op, nil
	}
	return nil, fmt.Errorf("region %q: %w", query, specifier.ErrUnknownMethod)
}

// Apply runs every invocation of a region= value in order, then dedents
// and trims the result
func Apply(content, value string) (string, error) {
	for _, query := range specifier.SplitOnTopLevelComma(value) {
		op, err := Parse(query)
		if err != nil {
			return "", err
		}
		content = op.Run(content)
	}
	return finish(content), nil
}

// Extract keeps the text between pairs of the given specifiers
func Extract(content string, ids ...string) string {
	if len(ids) == 0 {
		return content
	}
	return finish(Extraction{IDs: ids}.Run(content))
}

// Remove drops every pair of the given specifiers with its text
func Remove(content string, ids ...string) string {
	if len(ids) == 0 {
		return content
	}
	return finish(Removal{IDs: ids}.Run(content))
}

// Replace substitutes the text enclosed by each pair of id
func Replace(content, id string, with *string, space string) string {
	if id == "" {
		return content
	}
	return finish(Replacement{ID: id, With: with, Space: space}.Run(content))
}

func finish(content string) string {
	return strings.TrimSpace(dedent.Dedent(content))
}
