package remap

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/gubarz/parkdown/internal/markdown"
)

// Local is the mapping key matching every relative or aliased specifier
const Local = "$local"

var ErrInvalidMapping = errors.New("mapping must be written as from=to")

var (
	importRegex = regexp.MustCompile(`(?m)^([ \t]*)import(?:[ \t]+(type))?\s+([^"';]+?)\s+from\s+["']([^"'\n]+)["']`)
	scriptRegex = regexp.MustCompile(`(?s)(<script[^>]*>)(.*?)(</script>)`)
)

var localPrefixes = []string{"./", "../", "$"}

// Mapping maps import specifiers to their replacement
type Mapping map[string]string

// ParseMapping reads "from=to" pairs
func ParseMapping(pairs []string) (Mapping, error) {
	m := make(Mapping, len(pairs))
	for _, pair := range pairs {
		from, to, ok := strings.Cut(pair, "=")
		from, to = strings.TrimSpace(from), strings.TrimSpace(to)
		if !ok || from == "" || to == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidMapping, pair)
		}
		m[from] = to
	}
	return m, nil
}

// Lookup returns the replacement for specifier. The Local entry wins
// over an exact match for local specifiers.
func (m Mapping) Lookup(specifier string) (string, bool) {
	if to, ok := m[Local]; ok && isLocal(specifier) {
		return to, true
	}
	to, ok := m[specifier]
	return to, ok && to != ""
}

func isLocal(specifier string) bool {
	for _, prefix := range localPrefixes {
		if strings.HasPrefix(specifier, prefix) {
			return true
		}
	}
	return false
}

// Markdown rewrites imports inside the fenced code blocks of text. Only
// script and svelte blocks are touched.
func Markdown(text string, m Mapping) string {
	if len(m) == 0 {
		return text
	}

	doc := markdown.Parse(text)
	result := text
	for i := len(doc.Code) - 1; i >= 0; i-- {
		block := doc.Code[i]
		code := text[block.Content.Start:block.Content.End]

		var remapped string
		switch strings.ToLower(block.Lang) {
		case "ts", "js", "tsx", "jsx":
			remapped = Script(code, m)
		case "svelte":
			remapped = Svelte(code, m)
		default:
			continue
		}
		result = result[:block.Content.Start] + remapped + result[block.Content.End:]
	}
	return result
}

// Script rewrites the static imports of javascript or typescript code
func Script(code string, m Mapping) string {
	matches := importRegex.FindAllStringSubmatchIndex(code, -1)
	result := code
	for i := len(matches) - 1; i >= 0; i-- {
		match := matches[i]
		group := func(n int) string {
			if match[2*n] < 0 {
				return ""
			}
			return code[match[2*n]:match[2*n+1]]
		}

		specifier, ok := m.Lookup(group(4))
		if !ok {
			continue
		}

		parts := []string{"import"}
		if kind := group(2); kind != "" {
			parts = append(parts, kind)
		}
		parts = append(parts, group(3), "from", `"`+specifier+`"`)
		result = result[:match[0]] + group(1) + strings.Join(parts, " ") + result[match[1]:]
	}
	return result
}

// Svelte rewrites the imports found inside script tags
func Svelte(code string, m Mapping) string {
	return scriptRegex.ReplaceAllStringFunc(code, func(tag string) string {
		parts := scriptRegex.FindStringSubmatch(tag)
		return parts[1] + Script(parts[2], m) + parts[3]
	})
}
