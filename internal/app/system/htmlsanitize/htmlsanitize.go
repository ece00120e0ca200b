// internal/app/system/htmlsanitize/htmlsanitize.go

// Package htmlsanitize strips unsafe markup from user-authored HTML.
//
// Feedback comments are written in a rich-text editor, so their text is
// HTML. Everything of that kind passes through Sanitize before it is
// handed to a template as trusted markup.
package htmlsanitize

import (
	"html/template"

	"github.com/microcosm-cc/bluemonday"
)

// The UGC policy covers the editor's output: text formatting, links
// (forced rel="nofollow"), lists, images, and tables. Scripts, event
// handler attributes, and javascript: URLs are removed.
var policy = bluemonday.UGCPolicy()

// The strict policy removes all markup, leaving plain text.
var strict = bluemonday.StrictPolicy()

// Sanitize returns the input with unsafe markup removed.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return policy.Sanitize(s)
}

// SanitizeHTML sanitizes and marks the result safe for direct template
// interpolation.
func SanitizeHTML(s string) template.HTML {
	return template.HTML(Sanitize(s))
}

// StripTags removes all markup, for contexts that want the plain text of
// a rich-text value (exports, log lines, fold keys).
func StripTags(s string) string {
	if s == "" {
		return ""
	}
	return strict.Sanitize(s)
}
