package sql

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/campus-registry/registry-engine/pkg/models"
)

// Policy rejection reason codes.
const (
	ReasonSensitiveTable  = "sensitive table"
	ReasonSensitiveColumn = "sensitive column"
	ReasonRoleColumn      = "role-forbidden column"
)

// studentDeniedMessage emphasizes scope for the lowest-privilege role
// instead of naming the blocked object.
const studentDeniedMessage = "Access denied: as a student, you are not authorized to view this information. You can only ask about your own courses, grades, schedule, credits, or advisor."

// RuleSet maps roles to forbidden tables and columns. It is static
// configuration: built once at startup and read-only thereafter.
type RuleSet struct {
	// SensitiveTables are blocked for every role (credential storage).
	SensitiveTables []string
	// SensitiveColumns are blocked for every role (password-like data).
	SensitiveColumns []string
	// RoleColumns are additional forbidden columns per role.
	RoleColumns map[string][]string
}

// DefaultRuleSet returns the policy for the university schema:
// nobody reads login_credentials or password, students never see salary.
func DefaultRuleSet() *RuleSet {
	return &RuleSet{
		SensitiveTables:  []string{"login_credentials"},
		SensitiveColumns: []string{"password"},
		RoleColumns: map[string][]string{
			models.RoleStudent: {"salary"},
		},
	}
}

// PolicyFilter is the static role-based defense stage. It must produce
// identical verdicts regardless of how the candidate was generated,
// including candidates fed directly by an adversarial caller.
type PolicyFilter struct {
	rules         *RuleSet
	tablePatterns []namedPattern
	colPatterns   []namedPattern
	rolePatterns  map[string][]namedPattern
}

type namedPattern struct {
	name string
	re   *regexp.Regexp
}

// NewPolicyFilter compiles word-boundary patterns for every rule.
func NewPolicyFilter(rules *RuleSet) *PolicyFilter {
	f := &PolicyFilter{
		rules:        rules,
		rolePatterns: make(map[string][]namedPattern, len(rules.RoleColumns)),
	}
	for _, t := range rules.SensitiveTables {
		f.tablePatterns = append(f.tablePatterns, compileWordPattern(t))
	}
	for _, c := range rules.SensitiveColumns {
		f.colPatterns = append(f.colPatterns, compileWordPattern(c))
	}
	for role, cols := range rules.RoleColumns {
		for _, c := range cols {
			f.rolePatterns[role] = append(f.rolePatterns[role], compileWordPattern(c))
		}
	}
	return f
}

func compileWordPattern(name string) namedPattern {
	return namedPattern{
		name: name,
		re:   regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(name) + `\b`),
	}
}

// Check validates a candidate against the rule set for the given role.
// Table rules are evaluated before column rules; the first violation
// found is the one reported.
func (f *PolicyFilter) Check(candidate, role string) Verdict {
	roleLower := strings.ToLower(role)

	for _, p := range f.tablePatterns {
		if p.re.MatchString(candidate) {
			return f.deny(roleLower, ReasonSensitiveTable,
				fmt.Sprintf("Access to table '%s' is not allowed through the AI assistant.", p.name))
		}
	}

	for _, p := range f.colPatterns {
		if p.re.MatchString(candidate) {
			return f.deny(roleLower, ReasonSensitiveColumn,
				fmt.Sprintf("Access to column '%s' is not allowed through the AI assistant.", p.name))
		}
	}

	for _, p := range f.rolePatterns[roleLower] {
		if p.re.MatchString(candidate) {
			return f.deny(roleLower, ReasonRoleColumn,
				fmt.Sprintf("Users with role '%s' are not allowed to query column '%s'.", role, p.name))
		}
	}

	return allow
}

// deny builds a blocked verdict with role-tailored messaging.
func (f *PolicyFilter) deny(roleLower, reason, genericMessage string) Verdict {
	message := genericMessage
	if roleLower == models.RoleStudent {
		message = studentDeniedMessage
	}
	return Verdict{Blocked: true, Reason: reason, Message: message}
}
