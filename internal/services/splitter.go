package services

import (
	"fmt"
	"regexp"
	"strings"
)

// sectionMarkerRe matches the opening tag of one named analysis block. The
// name may be empty; a section's body runs until the next opening tag or the
// end of the completion, so closing tags are optional.
var sectionMarkerRe = regexp.MustCompile(`\[SECTION:\s*([^\]]*)\]`)

const sectionCloseTag = "[/SECTION]"

type AnalysisSection struct {
	Name string
	Body string
}

// ParsedResult is one completion divided into the rewritten resume and the
// named analysis sections that follow it, in encounter order. Duplicate
// section names are kept, not merged.
type ParsedResult struct {
	ResumeBody string
	Sections   []AnalysisSection
}

// Analysis re-serializes the sections as "[NAME]\n<body>" blocks joined by
// blank lines, preserving order.
func (r ParsedResult) Analysis() string {
	if len(r.Sections) == 0 {
		return ""
	}
	parts := make([]string, 0, len(r.Sections))
	for _, s := range r.Sections {
		parts = append(parts, fmt.Sprintf("[%s]\n%s", s.Name, s.Body))
	}
	return strings.Join(parts, "\n\n")
}

// Section returns the body of the first section with the given name.
func (r ParsedResult) Section(name string) (string, bool) {
	for _, s := range r.Sections {
		if s.Name == name {
			return s.Body, true
		}
	}
	return "", false
}

// SplitCompletion divides one LLM completion into the resume portion and its
// bracket-delimited analysis sections. Total over all inputs: a completion
// with no markers comes back whole as ResumeBody with no sections.
func SplitCompletion(completion string) ParsedResult {
	matches := sectionMarkerRe.FindAllStringSubmatchIndex(completion, -1)
	if len(matches) == 0 {
		return ParsedResult{ResumeBody: strings.TrimSpace(completion)}
	}

	result := ParsedResult{
		ResumeBody: strings.TrimSpace(completion[:matches[0][0]]),
		Sections:   make([]AnalysisSection, 0, len(matches)),
	}

	for i, m := range matches {
		name := strings.TrimSpace(completion[m[2]:m[3]])

		end := len(completion)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}

		body := completion[m[1]:end]
		body = strings.ReplaceAll(body, sectionCloseTag, "")
		result.Sections = append(result.Sections, AnalysisSection{
			Name: name,
			Body: strings.TrimSpace(body),
		})
	}

	return result
}

// HasSectionMarkers reports whether a completion uses the bracket grammar.
func HasSectionMarkers(completion string) bool {
	return sectionMarkerRe.MatchString(completion)
}

// SplitLegacyParts handles the older "PART 1 / PART 2" completion convention:
// a plain two-way split on the first line starting the PART 2 label, with the
// PART 1 label stripped from the resume half. Degraded fallback only; the
// bracket grammar is the canonical path.
func SplitLegacyParts(completion string) (resume, analysis string) {
	idx := strings.Index(completion, "PART 2")
	if idx < 0 {
		return strings.TrimSpace(completion), ""
	}

	resume = completion[:idx]
	rest := completion[idx:]
	if nl := strings.Index(rest, "\n"); nl >= 0 {
		analysis = rest[nl+1:]
	}

	// Drop everything through the end of the PART 1 label line, if present.
	if i := strings.Index(resume, "PART 1"); i >= 0 {
		if nl := strings.Index(resume[i:], "\n"); nl >= 0 {
			resume = resume[i+nl+1:]
		} else {
			resume = ""
		}
	}

	return strings.TrimSpace(resume), strings.TrimSpace(analysis)
}
