// Package transform rewrites record names before they reach the grid.
package transform

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mholzen/treegrid/pkg/hierarchy"
	"github.com/mholzen/treegrid/pkg/rowmodel"
)

type Transformer func(string) (string, error)

var BuiltinTransformers = map[string]Transformer{
	"lowercase":      Lowercase,
	"uppercase":      Uppercase,
	"capitalize":     Capitalize,
	"title":          TitleCase,
	"trim":           Trim,
	"no-punctuation": RemovePunctuation,
}

func ListBuiltins() []string {
	names := make([]string, 0, len(BuiltinTransformers))
	for name := range BuiltinTransformers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve looks up a comma-separated list of builtin names and chains them in
// order. An empty list resolves to nil.
func Resolve(names string) (Transformer, error) {
	var chain []Transformer
	for _, name := range strings.Split(names, ",") {
		name = strings.TrimSpace(strings.ToLower(name))
		if name == "" {
			continue
		}
		t, ok := BuiltinTransformers[name]
		if !ok {
			return nil, fmt.Errorf("unknown transform: %s (available: %s)", name, strings.Join(ListBuiltins(), ", "))
		}
		chain = append(chain, t)
	}
	if len(chain) == 0 {
		return nil, nil
	}
	return Chain(chain...), nil
}

func Chain(transformers ...Transformer) Transformer {
	return func(s string) (string, error) {
		var err error
		for _, t := range transformers {
			if s, err = t(s); err != nil {
				return "", err
			}
		}
		return s, nil
	}
}

// Records returns a copy of records with every name transformed. Ids and
// paths are never touched so the hierarchy is unchanged.
func Records(records []hierarchy.Record, t Transformer) ([]hierarchy.Record, error) {
	result := make([]hierarchy.Record, len(records))
	for i, record := range records {
		name, err := t(record.Name)
		if err != nil {
			return nil, fmt.Errorf("cannot transform name of '%s': %w", record.ID, err)
		}
		record.Name = name
		result[i] = record
	}
	return result, nil
}

// Source wraps src so that every loaded record has its name transformed.
// A nil transformer returns src unchanged.
func Source(src rowmodel.Source, t Transformer) rowmodel.Source {
	if t == nil {
		return src
	}
	return &transformedSource{upstream: src, transformer: t}
}

type transformedSource struct {
	upstream    rowmodel.Source
	transformer Transformer
}

func (s *transformedSource) Records(ctx context.Context) ([]hierarchy.Record, error) {
	records, err := s.upstream.Records(ctx)
	if err != nil {
		return nil, err
	}
	return Records(records, s.transformer)
}

func (s *transformedSource) Close(ctx context.Context) error {
	if c, ok := s.upstream.(interface{ Close(context.Context) error }); ok {
		return c.Close(ctx)
	}
	return nil
}

func Lowercase(s string) (string, error) {
	return cases.Lower(language.Und).String(s), nil
}

func Uppercase(s string) (string, error) {
	return cases.Upper(language.Und).String(s), nil
}

func Trim(s string) (string, error) {
	return strings.TrimSpace(s), nil
}

func Capitalize(s string) (string, error) {
	if len(s) == 0 {
		return s, nil
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes), nil
}

func TitleCase(s string) (string, error) {
	caser := cases.Title(language.English)
	return caser.String(s), nil
}

func RemovePunctuation(s string) (string, error) {
	return strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) {
			return -1
		}
		return r
	}, s), nil
}
