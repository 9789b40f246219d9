package specifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	ErrUnsupportedType   = errors.New("unsupported type")
	ErrInvalidInvocation = errors.New("invalid invocation")
	ErrInvalidDefinition = errors.New("invalid definition")
	ErrUnknownMethod     = errors.New("unknown method")
	ErrTooManyParameters = errors.New("too many parameters")
	ErrMissingParameter  = errors.New("missing required parameter")
	ErrInvalidType       = errors.New("invalid type")
)

// Type is the declared type of a parameter
type Type string

const (
	String  Type = "string"
	Number  Type = "number"
	Boolean Type = "boolean"
)

// Param is one declared parameter of a method definition
type Param struct {
	Name     string
	Optional bool
	Type     Type
}

// Definition declares the call signature of one operation
type Definition struct {
	Name      string
	Params    []Param
	HasParams bool // false when the definition has no parameter list at all
}

// Invocation is a call before its arguments are bound to a definition.
// A nil argument is a placeholder for an omitted value.
type Invocation struct {
	Name string
	Args []*string
}

var (
	definitionRegex = regexp.MustCompile(`^([\w-]+)(?:\(([^)]*)\))?`)
	paramRegex      = regexp.MustCompile(`([\w-]+)(\?)?:\s*([^,]+)`)
	invocationRegex = regexp.MustCompile(`^([a-zA-Z0-9_-]+)(?:\(([^)]*)\))?$`)
)

// ParseDefinition parses "name(param?: type, ...)"
func ParseDefinition(definition string) (Definition, error) {
	m := definitionRegex.FindStringSubmatch(definition)
	if m == nil {
		return Definition{}, fmt.Errorf("%w: %s", ErrInvalidDefinition, definition)
	}

	def := Definition{Name: m[1]}
	if m[2] == "" {
		return def, nil
	}

	def.HasParams = true
	for _, pm := range paramRegex.FindAllStringSubmatch(m[2], -1) {
		typ := Type(strings.TrimSpace(pm[3]))
		switch typ {
		case String, Number, Boolean:
		default:
			return Definition{}, fmt.Errorf("%w: %s", ErrUnsupportedType, typ)
		}
		def.Params = append(def.Params, Param{
			Name:     pm[1],
			Optional: pm[2] == "?",
			Type:     typ,
		})
	}
	return def, nil
}

// ParseInvocation parses "name(arg, ...)" or a bare "name"
func ParseInvocation(input string) (Invocation, error) {
	m := invocationRegex.FindStringSubmatch(input)
	if m == nil {
		return Invocation{}, fmt.Errorf("%w: %s", ErrInvalidInvocation, input)
	}

	inv := Invocation{Name: m[1]}
	if strings.TrimSpace(m[2]) == "" {
		inv.Args = []*string{}
		return inv, nil
	}
	inv.Args = SplitOnUnquotedComma(m[2])
	return inv, nil
}

// SplitOnUnquotedComma splits on commas outside single quotes. Doubled
// (or tripled) quotes toggle quoting but are kept in the output, a field
// wrapped in one pair of quotes is unwrapped, empty fields become nil and
// trailing nils are dropped.
func SplitOnUnquotedComma(input string) []*string {
	var (
		fields  []string
		current strings.Builder
		quoted  bool
	)

	for i := 0; i < len(input); i++ {
		ch := input[i]
		switch {
		case ch == '\'' && i+1 < len(input) && input[i+1] == '\'':
			quoted = !quoted
			if i+2 < len(input) && input[i+2] == '\'' {
				current.WriteString("'''")
				i += 2
			} else {
				current.WriteString("''")
				i++
			}
		case ch == '\'':
			quoted = !quoted
			current.WriteByte(ch)
		case ch == ',' && !quoted:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteByte(ch)
		}
	}
	fields = append(fields, strings.TrimSpace(current.String()))

	result := make([]*string, len(fields))
	last := -1
	for i, f := range fields {
		if f == "" {
			continue
		}
		v := unwrapQuotes(f)
		result[i] = &v
		last = i
	}
	return result[:last+1]
}

func unwrapQuotes(s string) string {
	wrapped := len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\''
	doubled := wrapped && len(s) >= 4 && s[1] == '\'' && s[len(s)-2] == '\''
	if !wrapped || doubled {
		return s
	}
	return s[1 : len(s)-1]
}

// SplitOnTopLevelComma splits a list of invocations on commas that are
// not inside parentheses
func SplitOnTopLevelComma(input string) []string {
	var (
		parts []string
		depth int
		start int
	)
	for i := 0; i < len(input); i++ {
		switch input[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(input[start:i]))
				start = i + 1
			}
		}
	}
	parts = append(parts, strings.TrimSpace(input[start:]))

	result := parts[:0]
	for _, p := range parts {
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// Result holds bound and coerced values keyed by parameter name.
// Omitted optional parameters are absent from Fields.
type Result struct {
	Name   string
	Fields map[string]any
}

// Text returns a string field
func (r Result) Text(name string) (string, bool) {
	v, ok := r.Fields[name].(string)
	return v, ok
}

// Number returns a number field
func (r Result) Number(name string) (float64, bool) {
	v, ok := r.Fields[name].(float64)
	return v, ok
}

// Bool returns a boolean field
func (r Result) Bool(name string) (bool, bool) {
	v, ok := r.Fields[name].(bool)
	return v, ok
}

// Numbered returns the values of numerically named parameters ("0", "1",
// ...) in ascending order. Non-string values are formatted.
func (r Result) Numbered() []string {
	type entry struct {
		index int
		value string
	}
	var entries []entry
	for k, v := range r.Fields {
		n, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		s, ok := v.(string)
		if !ok {
			s = fmt.Sprint(v)
		}
		entries = append(entries, entry{n, s})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].index < entries[j].index })

	values := make([]string, len(entries))
	for i, e := range entries {
		values[i] = e.value
	}
	return values
}

// Parser binds invocations against a fixed set of definitions
type Parser struct {
	definitions map[string]Definition
}

// NewParser parses every definition once
func NewParser(definitions ...string) (*Parser, error) {
	p := &Parser{definitions: make(map[string]Definition, len(definitions))}
	for _, d := range definitions {
		def, err := ParseDefinition(d)
		if err != nil {
			return nil, err
		}
		p.definitions[def.Name] = def
	}
	return p, nil
}

// MustParser is NewParser for package-level definition tables
func MustParser(definitions ...string) *Parser {
	p, err := NewParser(definitions...)
	if err != nil {
		panic(err)
	}
	return p
}

// Parse parses query and binds it to the matching definition
func (p *Parser) Parse(query string) (Result, error) {
	inv, err := ParseInvocation(query)
	if err != nil {
		return Result{}, err
	}

	def, ok := p.definitions[inv.Name]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownMethod, inv.Name)
	}

	result := Result{Name: inv.Name, Fields: make(map[string]any)}
	if !def.HasParams {
		return result, nil
	}

	if len(inv.Args) > len(def.Params) {
		required := 0
		for _, param := range def.Params {
			if !param.Optional {
				required++
			}
		}
		expected := strconv.Itoa(required)
		if required != len(def.Params) {
			expected = fmt.Sprintf("%d - %d", required, len(def.Params))
		}
		return Result{}, fmt.Errorf("%w: %d for method '%s' (expected: %s)",
			ErrTooManyParameters, len(inv.Args), inv.Name, expected)
	}

	for i, param := range def.Params {
		var raw *string
		if i < len(inv.Args) {
			raw = inv.Args[i]
		}
		if raw == nil {
			if param.Optional {
				continue
			}
			return Result{}, fmt.Errorf("%w: %s for method '%s'", ErrMissingParameter, param.Name, inv.Name)
		}

		value, err := coerce(*raw, param.Type)
		if err != nil {
			return Result{}, fmt.Errorf("%w: %s must be %s for method '%s'", err, param.Name, param.Type, inv.Name)
		}
		result.Fields[param.Name] = value
	}
	return result, nil
}

func coerce(raw string, typ Type) (any, error) {
	if typ == String {
		return raw, nil
	}

	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return nil, ErrInvalidType
	}

	switch value.(type) {
	case float64:
		if typ == Number {
			return value, nil
		}
	case bool:
		if typ == Boolean {
			return value, nil
		}
	}
	return nil, ErrInvalidType
}
