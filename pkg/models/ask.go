package models

// AskStatus values for AskResult.Status.
const (
	AskStatusSuccess = "success"
	AskStatusFail    = "fail"
)

// SQLPlaceholder is surfaced in AskResult.SQLQuery when the pipeline
// failed before a candidate statement existed.
const SQLPlaceholder = "N/A"

// AskResult is the outcome of one natural-language query request.
// SQLQuery always carries the candidate statement (or the placeholder)
// so rejected candidates remain auditable.
type AskResult struct {
	Status   string `json:"status"`
	Response string `json:"response"`
	SQLQuery string `json:"sql_query"`
}

// FailedAsk builds a failure result with the given response text.
// When no candidate SQL exists yet, pass an empty sql to get the placeholder.
func FailedAsk(response, sql string) *AskResult {
	if sql == "" {
		sql = SQLPlaceholder
	}
	return &AskResult{Status: AskStatusFail, Response: response, SQLQuery: sql}
}
