package main

import "strings"

// anySequence is the only wildcard understood by Pattern.
const anySequence = "**"

// Pattern is a compiled ignore pattern. "**" matches any run of characters,
// slashes included; every other character is literal. A pattern always
// matches the whole root-relative path.
//
// A leading "**/" also matches at the root and a trailing "/**" also matches
// the directory itself, so "**/node_modules/**" excludes "node_modules" as well
// as "a/node_modules/b.js".
type Pattern struct {
	raw      string
	literals []string
	leading  bool
	trailing bool
}

// CompilePattern splits a raw pattern into its literal runs.
func CompilePattern(raw string) Pattern {
	raw = strings.TrimSpace(raw)
	return Pattern{
		raw:      raw,
		literals: strings.Split(raw, anySequence),
		leading:  strings.HasPrefix(raw, anySequence+"/"),
		trailing: strings.HasSuffix(raw, "/"+anySequence),
	}
}

// String returns the pattern as written.
func (p Pattern) String() string { return p.raw }

// Match reports whether the forward-slash relative path matches the pattern.
func (p Pattern) Match(relPath string) bool {
	if p.raw == "" {
		return false
	}
	candidate := relPath
	if p.leading {
		candidate = "/" + candidate
	}
	if p.trailing && !strings.HasSuffix(candidate, "/") {
		if matchLiterals(p.literals, candidate+"/") {
			return true
		}
	}
	return matchLiterals(p.literals, candidate)
}

// matchLiterals matches s against literal runs joined by any-sequence
// wildcards. The first run is anchored at the start, the last at the end.
func matchLiterals(literals []string, s string) bool {
	if len(literals) == 1 {
		return s == literals[0]
	}
	first, last := literals[0], literals[len(literals)-1]
	if !strings.HasPrefix(s, first) {
		return false
	}
	s = s[len(first):]
	for _, lit := range literals[1 : len(literals)-1] {
		if lit == "" {
			continue
		}
		idx := strings.Index(s, lit)
		if idx < 0 {
			return false
		}
		s = s[idx+len(lit):]
	}
	return strings.HasSuffix(s, last)
}

// compilePatterns drops blank and comment lines.
func compilePatterns(raw []string) []Pattern {
	patterns := make([]Pattern, 0, len(raw))
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" || strings.HasPrefix(r, "#") {
			continue
		}
		patterns = append(patterns, CompilePattern(r))
	}
	return patterns
}
