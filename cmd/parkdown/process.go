package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/gubarz/parkdown/internal/fetch"
	"github.com/gubarz/parkdown/internal/include"
	"github.com/gubarz/parkdown/internal/markdown"
	"github.com/gubarz/parkdown/internal/recipe"
	"github.com/gubarz/parkdown/internal/remap"
	"github.com/gubarz/parkdown/internal/ui"
)

// options selects the processors run on every file
type options struct {
	write      bool
	inclusions bool
	depopulate bool
	mapping    remap.Mapping
}

// app holds what is shared by every processed file
type app struct {
	logger   *log.Logger
	resolver *include.Resolver
	fetcher  fetch.Fetcher
	recipes  [][2]string
	stdout   io.Writer
}

// processor transforms the text of the file at path
type processor struct {
	name    string
	enabled bool
	run     func(path, text string) (string, error)
}

func (a *app) processors(opts options) []processor {
	return []processor{
		{"populate", opts.inclusions, a.populate},
		{"remap", len(opts.mapping) > 0, func(_, text string) (string, error) {
			return remap.Markdown(text, opts.mapping), nil
		}},
		{"depopulate", opts.depopulate, func(_, text string) (string, error) {
			return a.resolver.Depopulate(text)
		}},
	}
}

// populate resolves inclusions relative to the directory of path. Every
// file gets its own register, seeded with the configured recipes.
func (a *app) populate(path, text string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	register := recipe.New()
	for _, r := range a.recipes {
		register.Set(r[0], r[1])
	}

	f := fetch.Rebase(a.fetcher, filepath.ToSlash(filepath.Dir(abs)))
	return a.resolver.Populate(text, 0, f, register)
}

// run processes files one after another and stops at the first failure
func (a *app) run(files []string, opts options) ([]ui.FileResult, error) {
	var results []ui.FileResult
	for _, path := range files {
		result, err := a.process(path, opts)
		results = append(results, result)
		if err != nil {
			return results, fmt.Errorf("%s: %w", path, err)
		}
	}
	return results, nil
}

func (a *app) process(path string, opts options) (ui.FileResult, error) {
	fail := func(err error) (ui.FileResult, error) {
		return ui.FileResult{Path: path, Status: ui.Failed, Err: err}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fail(err)
	}
	original := string(data)

	text := original
	for _, p := range a.processors(opts) {
		if !p.enabled {
			continue
		}
		a.logger.Debug("processing", "path", path, "step", p.name)
		if text, err = p.run(path, text); err != nil {
			return fail(err)
		}
	}

	result := ui.FileResult{
		Path:      path,
		Populated: populated(text),
		Bytes:     len(text),
	}

	switch {
	case !opts.write:
		result.Status = ui.Printed
		fmt.Fprintln(a.stdout, text)
	case text == original:
		result.Status = ui.Unchanged
	default:
		info, err := os.Stat(path)
		if err != nil {
			return fail(err)
		}
		if err := os.WriteFile(path, []byte(text), info.Mode().Perm()); err != nil {
			return fail(err)
		}
		result.Status = ui.Written
	}
	return result, nil
}

// populated counts the top-level inclusions carrying content
func populated(text string) int {
	targets, err := include.Targets(markdown.Parse(text))
	if err != nil {
		return 0
	}
	n := 0
	for _, t := range targets {
		if t.Populated() {
			n++
		}
	}
	return n
}
