// Package template assembles structured channel posts from the seven steps of
// the template builder.
package template

import (
	"html"
	"strings"
)

// Fields holds the HTML rendering of each step's input. Empty fields are
// skipped.
type Fields struct {
	Title      string
	Subtitle   string
	Body       string
	Note       string
	Conclusion string
	Hashtags   string
	Links      string
}

// Assemble builds the document. Title and subtitle form one header block;
// every other segment is its own block, separated by a blank line.
func Assemble(f Fields) string {
	var header []string
	if f.Title != "" {
		header = append(header, "<b>"+f.Title+"</b>")
	}
	if f.Subtitle != "" {
		header = append(header, "<i>"+f.Subtitle+"</i>")
	}

	var blocks []string
	if len(header) > 0 {
		blocks = append(blocks, strings.Join(header, "\n"))
	}
	if f.Body != "" {
		blocks = append(blocks, f.Body)
	}
	if f.Note != "" {
		blocks = append(blocks, "<blockquote>"+f.Note+"</blockquote>")
	}
	if f.Conclusion != "" {
		blocks = append(blocks, f.Conclusion)
	}
	if f.Hashtags != "" {
		blocks = append(blocks, "<i>"+f.Hashtags+"</i>")
	}
	if f.Links != "" {
		blocks = append(blocks, f.Links)
	}
	return strings.Join(blocks, "\n\n")
}

// CopyReady escapes doc so it can be shown inside <code> and copied as source.
func CopyReady(doc string) string {
	return html.EscapeString(doc)
}

// Result is a finalized template.
type Result struct {
	Document   string
	CopyText   string
	HasPremium bool
}

func Finalize(f Fields, hasPremium bool) Result {
	doc := Assemble(f)
	return Result{
		Document:   doc,
		CopyText:   CopyReady(doc),
		HasPremium: hasPremium,
	}
}
