// Package importer loads markdown files with YAML frontmatter into console
// resources: recipes, detox plans, and other content-shaped records authored
// outside the console. Files are deduplicated by a deterministic id derived
// from their path so re-running an import never doubles records.
package importer

import (
	"bytes"
	"fmt"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// FrontMatter is the structured header of an import file. Unknown keys land
// in Custom and flow into the record payload untouched.
type FrontMatter struct {
	Title   string         `yaml:"title"`
	Slug    string         `yaml:"slug"`
	Summary string         `yaml:"summary"`
	Status  string         `yaml:"status"`
	Tags    []string       `yaml:"tags"`
	Date    time.Time      `yaml:"date"`
	Custom  map[string]any `yaml:",inline"`
}

// Document is one parsed import file.
type Document struct {
	Path        string
	FrontMatter FrontMatter
	Body        []byte
}

// ParseDocument splits frontmatter from the markdown body.
func ParseDocument(path string, source []byte) (*Document, error) {
	var meta FrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return nil, fmt.Errorf("importer: parse %s: %w", path, err)
	}
	if meta.Custom == nil {
		meta.Custom = map[string]any{}
	}
	return &Document{Path: path, FrontMatter: meta, Body: body}, nil
}

var markdownEngine = goldmark.New(
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.TaskList),
)

// RenderHTML converts the markdown body to HTML for the record's rich-text
// field.
func (d *Document) RenderHTML() ([]byte, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert(d.Body, &buf); err != nil {
		return nil, fmt.Errorf("importer: render %s: %w", d.Path, err)
	}
	return buf.Bytes(), nil
}
