package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campus-registry/registry-engine/pkg/audit"
	"github.com/campus-registry/registry-engine/pkg/auth"
	"github.com/campus-registry/registry-engine/pkg/database"
	"github.com/campus-registry/registry-engine/pkg/llm"
	"github.com/campus-registry/registry-engine/pkg/logging"
	"github.com/campus-registry/registry-engine/pkg/models"
	"github.com/campus-registry/registry-engine/pkg/prompts"
	sqlguard "github.com/campus-registry/registry-engine/pkg/sql"
)

// maxQuestionLength bounds accepted question text.
const maxQuestionLength = 1000

// Refusal messages surfaced to the caller. Refusals explain the rule,
// never echo internals beyond the candidate SQL already shown.
const (
	msgEmptyQuestion    = "Please enter a question."
	msgQuestionTooLong  = "Your question is too long. Please keep it under 1000 characters."
	msgSuspiciousInput  = "Your question could not be processed. Please rephrase it as a plain-language question."
	msgAssistantOffline = "AI is currently disabled due to missing API key or connection error."
	msgSchemaFailure    = "Failed to read the database schema. Please try again later."
	msgGenerationFailed = "The AI assistant could not generate a query for this question. Please try rephrasing."
)

// SchemaDescriber yields the redacted schema text handed to the generator.
type SchemaDescriber interface {
	Describe(ctx context.Context) (*database.SchemaDescriptor, error)
}

// QueryExecutor runs a validated candidate against the store.
type QueryExecutor interface {
	Execute(ctx context.Context, sqlQuery string) (*database.QueryResult, error)
}

// AskService answers natural-language questions about registry data,
// enforcing the full validation pipeline on every request.
type AskService interface {
	Answer(ctx context.Context, identity auth.Identity, question string) *models.AskResult
}

type askService struct {
	client    llm.LLMClient // nil when no provider is configured
	schema    SchemaDescriber
	executor  QueryExecutor
	guard     *sqlguard.Guard
	policy    *sqlguard.PolicyFilter
	rowFilter *RowFilter
	auditor   *audit.SecurityAuditor
	logger    *zap.Logger
}

// NewAskService creates the question-answering service. A nil client is
// valid and yields a deterministic "assistant disabled" refusal.
func NewAskService(
	client llm.LLMClient,
	schema SchemaDescriber,
	executor QueryExecutor,
	guard *sqlguard.Guard,
	policy *sqlguard.PolicyFilter,
	rowFilter *RowFilter,
	auditor *audit.SecurityAuditor,
	logger *zap.Logger,
) AskService {
	return &askService{
		client:    client,
		schema:    schema,
		executor:  executor,
		guard:     guard,
		policy:    policy,
		rowFilter: rowFilter,
		auditor:   auditor,
		logger:    logger.Named("ask_service"),
	}
}

// Answer runs the pipeline: screen the question, generate a candidate,
// validate it, execute read-only, filter rows, synthesize the answer.
// Every outcome carries the SQL actually involved (or a placeholder) so
// failures stay explainable.
func (s *askService) Answer(ctx context.Context, identity auth.Identity, question string) *models.AskResult {
	requestID := uuid.New()
	log := s.logger.With(
		zap.String("request_id", requestID.String()),
		zap.String("username", identity.Username),
		zap.String("role", identity.Role),
	)

	question = strings.TrimSpace(question)
	if question == "" {
		return models.FailedAsk(msgEmptyQuestion, models.SQLPlaceholder)
	}
	if len(question) > maxQuestionLength {
		s.auditor.LogQuestionRejected(requestID, identity.Username, identity.Role, question, "question too long")
		return models.FailedAsk(msgQuestionTooLong, models.SQLPlaceholder)
	}

	if verdict := sqlguard.ScreenQuestion(question); verdict.Blocked {
		log.Warn("question rejected", zap.String("reason", verdict.Reason))
		s.auditor.LogQuestionRejected(requestID, identity.Username, identity.Role, question, verdict.Reason)
		return models.FailedAsk(verdict.Message, models.SQLPlaceholder)
	}

	if injection := sqlguard.CheckQuestionForInjection(question); injection != nil {
		log.Error("injection pattern in question", zap.String("fingerprint", injection.Fingerprint))
		s.auditor.LogInjectionAttempt(requestID, identity.Username, identity.Role, question, injection.Fingerprint)
		return models.FailedAsk(msgSuspiciousInput, models.SQLPlaceholder)
	}

	if s.client == nil {
		return models.FailedAsk(msgAssistantOffline, models.SQLPlaceholder)
	}

	descriptor, err := s.schema.Describe(ctx)
	if err != nil {
		log.Error("schema introspection failed", zap.String("error", logging.SanitizeError(err)))
		return models.FailedAsk(msgSchemaFailure, models.SQLPlaceholder)
	}

	genPrompt := prompts.BuildSQLGenerationPrompt(question, identity.Role, identity.Username, descriptor.Text())
	raw, err := s.client.GenerateResponse(ctx, genPrompt, prompts.SQLGenSystemMessage, prompts.SQLGenTemperature)
	if err != nil {
		log.Error("sql generation failed",
			zap.String("error_type", string(llm.GetErrorType(err))),
			zap.String("error", logging.SanitizeError(err)))
		return models.FailedAsk(msgGenerationFailed, models.SQLPlaceholder)
	}

	candidate := stripCodeFence(raw)
	if candidate == "" {
		return models.FailedAsk(msgGenerationFailed, models.SQLPlaceholder)
	}

	if verdict := s.guard.Check(candidate); verdict.Blocked {
		log.Warn("candidate rejected by syntax guard",
			zap.String("reason", verdict.Reason),
			zap.String("sql", logging.SanitizeQuery(candidate)))
		s.auditor.LogCandidateRejected(requestID, identity.Username, identity.Role, candidate, verdict.Reason)
		return models.FailedAsk(verdict.Message, candidate)
	}

	if verdict := s.policy.Check(candidate, identity.Role); verdict.Blocked {
		log.Warn("candidate rejected by role policy",
			zap.String("reason", verdict.Reason),
			zap.String("sql", logging.SanitizeQuery(candidate)))
		s.auditor.LogCandidateRejected(requestID, identity.Username, identity.Role, candidate, verdict.Reason)
		return models.FailedAsk(verdict.Message, candidate)
	}

	result, err := s.executor.Execute(ctx, sqlguard.Normalize(candidate))
	if err != nil {
		log.Error("query execution failed", zap.String("error", logging.SanitizeError(err)))
		return models.FailedAsk(
			fmt.Sprintf("Database error during query execution: %s", logging.SanitizeError(err)),
			candidate,
		)
	}

	filtered, err := s.rowFilter.Filter(ctx, result.Rows, identity.Role, identity.Username)
	if err != nil {
		log.Error("row filtering failed", zap.Error(err))
		return models.FailedAsk(msgSchemaFailure, candidate)
	}

	s.auditor.LogQueryExecuted(requestID, identity.Username, identity.Role, candidate, result.RowCount, len(filtered))
	log.Info("query executed",
		zap.Int("raw_rows", result.RowCount),
		zap.Int("filtered_rows", len(filtered)))

	if len(filtered) == 0 {
		return &models.AskResult{
			Status:   models.AskStatusSuccess,
			Response: prompts.EmptyResultMessage,
			SQLQuery: candidate,
		}
	}

	resultText := renderRows(result.Columns, filtered)
	synthPrompt := prompts.BuildAnswerSynthesisPrompt(question, candidate, resultText)
	answer, err := s.client.GenerateResponse(ctx, synthPrompt, prompts.SynthesisSystemMessage, prompts.SynthesisTemperature)
	if err != nil {
		// The result is already validated and filtered; losing the
		// narrative must not lose the data's existence.
		log.Warn("answer synthesis failed, degrading to row count", zap.String("error", logging.SanitizeError(err)))
		answer = fmt.Sprintf("The query ran successfully and returned %d matching row(s), but a written summary could not be produced.", len(filtered))
	}

	return &models.AskResult{
		Status:   models.AskStatusSuccess,
		Response: strings.TrimSpace(answer),
		SQLQuery: candidate,
	}
}

// stripCodeFence removes a surrounding markdown fence some models emit
// despite instructions, then trims whitespace.
func stripCodeFence(raw string) string {
	candidate := strings.TrimSpace(raw)
	if strings.HasPrefix(candidate, "```") {
		candidate = strings.TrimPrefix(candidate, "```sql")
		candidate = strings.TrimPrefix(candidate, "```")
		candidate = strings.TrimSuffix(strings.TrimSpace(candidate), "```")
	}
	return strings.TrimSpace(candidate)
}

// renderRows serializes filtered rows in column order for the synthesis
// prompt. Only filtered data ever reaches the model.
func renderRows(columns []string, rows []map[string]any) string {
	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		for j, col := range columns {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%v", col, row[col])
		}
	}
	return b.String()
}
