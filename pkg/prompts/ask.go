// Package prompts builds the generation prompts for the query
// assistant. The prompt rules are advisory only: every statement the
// generator emits still passes the deterministic guards before
// execution, regardless of what the prompt asked for.
package prompts

import (
	"fmt"
	"strings"
)

// Decoding temperatures for the two generation calls. SQL generation is
// deterministic; answer synthesis tolerates slight variation.
const (
	SQLGenTemperature    = 0.0
	SynthesisTemperature = 0.2
)

// EmptyResultMessage is the mandatory phrasing for empty (or fully
// filtered) result sets. The synthesizer is instructed to use it, and
// the degraded non-LLM path returns it verbatim.
const EmptyResultMessage = "No matching records found - or you may not have permission to view this information."

// SQLGenSystemMessage frames the generator role for the first call.
const SQLGenSystemMessage = "You are an expert PostgreSQL query writer for a university registration database. You translate questions into a single, valid SELECT statement and output nothing else."

// SynthesisSystemMessage frames the second call.
const SynthesisSystemMessage = "You are a helpful university assistant. You answer questions based only on the SQL result provided to you."

// BuildSQLGenerationPrompt creates the prompt for translating a
// natural-language question into one SELECT statement. It states the
// caller's role and identity, enumerates the access rules textually,
// and instructs the generator to emit a harmless empty-result statement
// when the question would violate the rules.
func BuildSQLGenerationPrompt(question, role, username, schemaText string) string {
	var b strings.Builder

	b.WriteString("Translate the user's natural-language question into a single, valid PostgreSQL SELECT query.\n\n")
	fmt.Fprintf(&b, "User role: %s\n", role)
	fmt.Fprintf(&b, "Username: %s\n\n", username)

	b.WriteString("SECURITY / ACCESS RULES (you MUST obey these):\n")
	b.WriteString("- Only generate SELECT queries.\n")
	b.WriteString("- Never query the table 'login_credentials'.\n")
	b.WriteString("- Never select any column named 'password'.\n")
	b.WriteString("- Admin can query about all teachers and all students.\n")
	b.WriteString("- Teachers can query about ALL students, but ONLY about themselves from instructor-related tables.\n")
	b.WriteString("- Students can only query about themselves:\n")
	fmt.Fprintf(&b, "  * When using tables with student IDs (student.ID, takes.ID, advisor.s_ID), always filter to the current student's ID = '%s'.\n\n", username)

	b.WriteString("If the user's question would violate these rules, generate a harmless SELECT that returns no rows, like:\n")
	b.WriteString("  SELECT 'Access denied by AI policy' AS message WHERE 1=0\n\n")

	b.WriteString("Do not add any text, explanations, or markdown formatting (e.g., ```sql). Only output the SQL query itself.\n\n")

	b.WriteString("Available tables and their schemas:\n")
	b.WriteString(schemaText)
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "User Question: %s\n\n", question)
	b.WriteString("SQL Query:\n")

	return b.String()
}

// BuildAnswerSynthesisPrompt creates the prompt for converting the
// filtered result set into a natural-language answer. The answer must
// be grounded only in the provided result text.
func BuildAnswerSynthesisPrompt(question, sqlQuery, resultText string) string {
	var b strings.Builder

	b.WriteString("Based ONLY on the SQL Query and the raw SQL Result provided below, provide a concise, natural language answer to the user's Question.\n\n")
	fmt.Fprintf(&b, "If the result is empty, say '%s'\n\n", EmptyResultMessage)

	fmt.Fprintf(&b, "Question: %s\n", question)
	fmt.Fprintf(&b, "SQL Query: %s\n", sqlQuery)
	fmt.Fprintf(&b, "SQL Result: %s\n", resultText)
	b.WriteString("Answer:\n")

	return b.String()
}
