// Package sql provides the deterministic validation stages applied to
// generated query candidates before execution. The generator is not a
// trusted boundary; every stage here must produce the same verdict no
// matter how the candidate was produced.
package sql

import (
	"fmt"
	"regexp"
	"strings"
)

// Rejection reason codes surfaced to the audit log.
const (
	ReasonReadOnly       = "read-only violation"
	ReasonWriteKeyword   = "write keyword"
	ReasonMultiStatement = "multi-statement"
)

// Verdict is the outcome of one guard stage.
type Verdict struct {
	Blocked bool
	Reason  string // rule identifier for audit
	Message string // user-facing refusal text
}

// allow is the passing verdict.
var allow = Verdict{}

// writeKeywords are rejected anywhere in a candidate, as whole words,
// regardless of case.
var writeKeywords = []string{
	"insert", "update", "delete", "create", "drop", "alter", "truncate",
}

// Guard is the syntactic defense stage: it rejects any candidate that
// is not a single read-only SELECT statement.
type Guard struct {
	keywordPatterns []keywordPattern
}

type keywordPattern struct {
	keyword string
	re      *regexp.Regexp
}

// NewGuard compiles the keyword patterns once; the guard itself is
// stateless and safe for concurrent use.
func NewGuard() *Guard {
	patterns := make([]keywordPattern, 0, len(writeKeywords))
	for _, kw := range writeKeywords {
		patterns = append(patterns, keywordPattern{
			keyword: kw,
			re:      regexp.MustCompile(`(?i)\b` + kw + `\b`),
		})
	}
	return &Guard{keywordPatterns: patterns}
}

// Check validates a candidate statement. The checks run in a fixed
// order and the first violation wins:
//  1. statement must begin with SELECT (case-insensitive, trimmed)
//  2. no statement chaining: a semicolon is allowed only as a single
//     trailing terminator, never anywhere else — not even inside a
//     string literal, since a quote-confused engine would still split
//  3. no write/DDL keyword anywhere, even inside what looks like a literal
func (g *Guard) Check(candidate string) Verdict {
	trimmed := strings.TrimSpace(candidate)

	if !strings.HasPrefix(strings.ToLower(trimmed), "select") {
		return Verdict{
			Blocked: true,
			Reason:  ReasonReadOnly,
			Message: "The AI assistant is read-only. Only SELECT queries are allowed; use the admin interface for INSERT / UPDATE / DELETE.",
		}
	}

	if strings.Contains(stripTrailingSemicolon(trimmed), ";") {
		return Verdict{
			Blocked: true,
			Reason:  ReasonMultiStatement,
			Message: "Multiple SQL statements are not allowed in the AI assistant.",
		}
	}

	for _, p := range g.keywordPatterns {
		if p.re.MatchString(trimmed) {
			return Verdict{
				Blocked: true,
				Reason:  ReasonWriteKeyword,
				Message: fmt.Sprintf("The AI assistant cannot run %s commands. Use the admin dashboard for write or schema operations.", strings.ToUpper(p.keyword)),
			}
		}
	}

	return allow
}

// Normalize strips the trailing semicolon and surrounding whitespace
// from a candidate so it can be wrapped or executed uniformly.
func Normalize(candidate string) string {
	return stripTrailingSemicolon(strings.TrimSpace(candidate))
}

// stripTrailingSemicolon removes a trailing semicolon and any whitespace around it.
func stripTrailingSemicolon(sqlQuery string) string {
	sqlQuery = strings.TrimRight(sqlQuery, " \t\n\r")
	if strings.HasSuffix(sqlQuery, ";") {
		sqlQuery = strings.TrimSuffix(sqlQuery, ";")
		sqlQuery = strings.TrimRight(sqlQuery, " \t\n\r")
	}
	return sqlQuery
}
