package tandoor

import (
	"fmt"
	"strings"
)

// Error codes for programmatic error handling
type ErrorCode string

const (
	// Authentication error codes
	AuthCodeInvalidCredentials ErrorCode = "AUTH_INVALID_CREDENTIALS"
	AuthCodeAccountDisabled    ErrorCode = "AUTH_ACCOUNT_DISABLED"
	AuthCodeWrongBaseURL       ErrorCode = "AUTH_WRONG_BASE_URL"
	AuthCodeServerError        ErrorCode = "AUTH_SERVER_ERROR"
	AuthCodePresetRejected     ErrorCode = "AUTH_PRESET_TOKEN_REJECTED"
	AuthCodeTokenExpired       ErrorCode = "AUTH_TOKEN_EXPIRED"
	AuthCodeLoginBudget        ErrorCode = "AUTH_LOGIN_BUDGET_EXCEEDED"

	// Scope error codes
	ScopeCodeForbidden ErrorCode = "SCOPE_FORBIDDEN"

	// Validation error codes
	ValidationCodeInvalid ErrorCode = "VALIDATION_INVALID"

	// Resolution error codes
	ResolveCodeAmbiguous ErrorCode = "RESOLVE_AMBIGUOUS"
	ResolveCodeNotFound  ErrorCode = "RESOLVE_NOT_FOUND"
)

// AuthError indicates authentication failures with recovery steps
type AuthError struct {
	Code       ErrorCode
	Operation  string
	Reason     string
	StatusCode int
}

func (e *AuthError) Error() string {
	var suggestion string
	switch e.Code {
	case AuthCodeInvalidCredentials:
		suggestion = `Check your credentials:
1. Verify TANDOOR_USERNAME matches your Tandoor account name
2. Verify TANDOOR_PASSWORD is correct (not an API token)
3. Try logging into the Tandoor web UI with the same credentials`

	case AuthCodeAccountDisabled:
		suggestion = `Your account was rejected by the server.
1. The account may be disabled or lack API access
2. Ask your Tandoor administrator to check the account
3. Alternatively, set TANDOOR_AUTH_TOKEN to a valid API token`

	case AuthCodeWrongBaseURL:
		suggestion = `The token endpoint was not found.
1. Verify TANDOOR_BASE_URL points to the Tandoor root (no trailing path)
2. Test the URL in a browser: <URL>/api/
3. Check for a reverse proxy stripping the /api-token-auth/ path`

	case AuthCodePresetRejected:
		suggestion = `The preset token was rejected by the server.
1. Verify TANDOOR_AUTH_TOKEN is a current token from Settings > API in Tandoor
2. Tokens are revocable; generate a new one if in doubt
3. The server never logs in when a preset token is configured, so a bad
   token cannot be recovered automatically`

	case AuthCodeTokenExpired:
		suggestion = `The session token stopped working and a fresh login did not help.
1. The account may have been disabled mid-session
2. Check the Tandoor server logs for rejected requests
3. Restart the server after fixing the account`

	case AuthCodeLoginBudget:
		suggestion = `Too many logins in the last 24 hours.
1. This usually means the token is being rejected repeatedly
2. Fix the underlying credential problem before retrying
3. Consider setting TANDOOR_AUTH_TOKEN to avoid logins entirely`

	default:
		suggestion = `Check your Tandoor connection and credentials.
1. Verify TANDOOR_BASE_URL points to a reachable Tandoor instance
2. Verify the instance is healthy: <URL>/api/
3. Check TANDOOR_USERNAME / TANDOOR_PASSWORD or TANDOOR_AUTH_TOKEN`
	}

	return fmt.Sprintf(`Authentication failed for %s: %s

%s`, e.Operation, e.Reason, suggestion)
}

// ErrorCode returns the structured error code for programmatic handling
func (e *AuthError) ErrorCode() ErrorCode {
	return e.Code
}

// ScopeError indicates the authenticated account lacks permission for an operation
type ScopeError struct {
	Operation  string
	Detail     string
	StatusCode int
}

func (e *ScopeError) Error() string {
	detail := e.Detail
	if detail == "" {
		detail = "the server returned 403 Forbidden"
	}
	return fmt.Sprintf(`Permission denied for %s: %s

The account is authenticated but not allowed to perform this operation.
1. Check the account's space membership and role in Tandoor
2. Shopping list and pantry edits require write access to the space
3. Ask the space owner to adjust permissions`, e.Operation, detail)
}

// NotFoundError indicates an entity or resource does not exist
type NotFoundError struct {
	Kind       string // "recipe", "food", "unit", "meal_plan", ...
	Ref        string // id or name that failed to resolve
	Suggestion string
}

func (e *NotFoundError) Error() string {
	suggestion := e.Suggestion
	if suggestion == "" {
		suggestion = fmt.Sprintf(`Possible causes:
1. The %s name is misspelled
2. The %s was deleted
3. It belongs to a different Tandoor space

To find the right one, use the matching search tool first.`, e.Kind, e.Kind)
	}
	kind := e.Kind
	if kind != "" {
		kind = strings.ToUpper(kind[:1]) + kind[1:]
	}
	return fmt.Sprintf(`%s not found: %s

%s`, kind, e.Ref, suggestion)
}

// AmbiguousMatchError indicates a name resolved to multiple equally good candidates
type AmbiguousMatchError struct {
	Kind       string
	Query      string
	Candidates []string
}

func (e *AmbiguousMatchError) Error() string {
	candidates := e.Candidates
	if len(candidates) > 8 {
		candidates = candidates[:8]
	}
	return fmt.Sprintf(`Ambiguous %s name: %q matches several entries equally well

Candidates:
- %s

Repeat the call with one of the exact names above.`,
		e.Kind, e.Query, strings.Join(candidates, "\n- "))
}

// ValidationError represents an input validation failure with recovery guidance
type ValidationError struct {
	Field      string
	Value      string
	Message    string
	Suggestion string
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Validation failed for %s: %s", e.Field, e.Message))
	if e.Value != "" {
		displayValue := e.Value
		if len(displayValue) > 100 {
			displayValue = displayValue[:100] + "..."
		}
		sb.WriteString(fmt.Sprintf("\n\nProvided value: %q", displayValue))
	}
	if e.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("\n\nTo fix this:\n%s", e.Suggestion))
	}
	return sb.String()
}

// UpstreamError indicates the Tandoor server failed or returned an unusable response
type UpstreamError struct {
	Operation  string
	StatusCode int
	Detail     string
	Err        error
}

func (e *UpstreamError) Error() string {
	var sb strings.Builder
	if e.StatusCode != 0 {
		sb.WriteString(fmt.Sprintf("Tandoor server error during %s (status %d)", e.Operation, e.StatusCode))
	} else {
		sb.WriteString(fmt.Sprintf("Tandoor request failed during %s", e.Operation))
	}
	if e.Detail != "" {
		detail := e.Detail
		if len(detail) > 200 {
			detail = detail[:200] + "..."
		}
		sb.WriteString(": " + detail)
	}
	if e.Err != nil {
		sb.WriteString(": " + e.Err.Error())
	}
	sb.WriteString(`

The request was valid but the server could not complete it.
1. Check the Tandoor server logs and health
2. Transient errors are retried automatically; persistent ones are not
3. Verify the instance version supports this API endpoint`)
	return sb.String()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// StepResult reports the outcome of one mutation inside a multi-step operation
type StepResult struct {
	Step   string `json:"step"`   // e.g. "delete_entry", "update_pantry"
	Target string `json:"target"` // e.g. food or entry being acted on
	Error  string `json:"error,omitempty"`
}

// PartialFailure reports a multi-step operation that completed some steps and failed others.
// Completed steps are never rolled back.
type PartialFailure struct {
	Operation string
	Completed []StepResult
	Failed    []StepResult
}

func (e *PartialFailure) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s partially failed: %d step(s) completed, %d failed\n",
		e.Operation, len(e.Completed), len(e.Failed)))
	for _, f := range e.Failed {
		sb.WriteString(fmt.Sprintf("- %s %s: %s\n", f.Step, f.Target, f.Error))
	}
	sb.WriteString(`
Completed steps were NOT rolled back. Inspect the current state with the
matching list tool before retrying; retrying the whole call may duplicate work.`)
	return sb.String()
}
