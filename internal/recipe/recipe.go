package recipe

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/gubarz/parkdown/internal/specifier"
)

var ErrInvalidRegistration = errors.New("register value must be recipe(id)")

// Param is one key/value pair of a query string. Raw keeps the pair as
// written so fragments can be re-serialized untouched.
type Param struct {
	Key   string
	Value string
	Raw   string
}

// ParseQuery splits a query string into its pairs, in order. A pair
// without "=" is a key with an empty value.
func ParseQuery(query string) []Param {
	query = strings.TrimPrefix(query, "?")
	var params []Param
	for _, raw := range strings.Split(query, "&") {
		if raw == "" {
			continue
		}
		key, value, _ := strings.Cut(raw, "=")
		params = append(params, Param{Key: unescape(key), Value: unescape(value), Raw: raw})
	}
	return params
}

func unescape(s string) string {
	if u, err := url.QueryUnescape(s); err == nil {
		return u
	}
	return s
}

// Get returns the value of the first pair with key
func Get(params []Param, key string) (string, bool) {
	for _, p := range params {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// All returns the values of every pair with key, in order
func All(params []Param, key string) []string {
	var values []string
	for _, p := range params {
		if p.Key == key {
			values = append(values, p.Value)
		}
	}
	return values
}

// Register maps recipe ids to stored query fragments. One register is
// shared by a whole resolution so descendants see recipes of ancestors.
type Register struct {
	recipes map[string]string
}

// New creates an empty register
func New() *Register {
	return &Register{recipes: make(map[string]string)}
}

// Set stores fragment under id
func (r *Register) Set(id, fragment string) {
	r.recipes[id] = fragment
}

// Lookup returns the fragment stored under id
func (r *Register) Lookup(id string) (string, bool) {
	fragment, ok := r.recipes[id]
	return fragment, ok
}

// Len returns the number of stored recipes
func (r *Register) Len() int {
	return len(r.recipes)
}

// TryStore records every register=recipe(id) in query. Each registration
// collects the pairs after it up to the next register key.
func (r *Register) TryStore(query string) error {
	var (
		id       string
		fragment []string
		active   bool
	)
	flush := func() {
		if active {
			r.recipes[id] = strings.Join(fragment, "&")
		}
	}

	for _, p := range ParseQuery(query) {
		if p.Key != "register" {
			if active {
				fragment = append(fragment, p.Raw)
			}
			continue
		}

		flush()
		ids, ok := recipeIDs(p.Value)
		if !ok || len(ids) != 1 {
			return fmt.Errorf("%w: %s", ErrInvalidRegistration, p.Value)
		}
		id, fragment, active = ids[0], nil, true
	}
	flush()
	return nil
}

// Apply replaces every apply=recipe(id, more...) pair with the fragments
// stored for each id. Unknown ids expand to nothing.
func (r *Register) Apply(query string) string {
	var parts []string
	for _, p := range ParseQuery(query) {
		if p.Key != "apply" {
			parts = append(parts, p.Raw)
			continue
		}
		ids, ok := recipeIDs(p.Value)
		if !ok {
			parts = append(parts, p.Raw)
			continue
		}
		for _, id := range ids {
			if fragment := r.recipes[id]; fragment != "" {
				parts = append(parts, fragment)
			}
		}
	}
	return strings.Join(parts, "&")
}

func recipeIDs(value string) ([]string, bool) {
	inv, err := specifier.ParseInvocation(value)
	if err != nil || inv.Name != "recipe" {
		return nil, false
	}
	var ids []string
	for _, arg := range inv.Args {
		if arg != nil {
			ids = append(ids, *arg)
		}
	}
	return ids, true
}
