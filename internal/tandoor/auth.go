package tandoor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/olgasafonova/tandoor-mcp-server/internal/infra"
	"github.com/olgasafonova/tandoor-mcp-server/metrics"
)

// TokenSource describes where a credential came from
type TokenSource int

const (
	// SourceLogin means the token was obtained via /api-token-auth/
	SourceLogin TokenSource = iota
	// SourcePreset means the token came from TANDOOR_AUTH_TOKEN
	SourcePreset
)

func (s TokenSource) String() string {
	if s == SourcePreset {
		return "preset"
	}
	return "login"
}

// Credential is an API token plus its provenance
type Credential struct {
	Token      string
	Source     TokenSource
	ObtainedAt time.Time
}

// MaxLoginsPerDay caps logins against the backend in a rolling 24h window.
// Exceeding it points at a credential problem that retrying cannot fix.
const MaxLoginsPerDay = 10

// TokenManager owns the authentication lifecycle: it hands out the current
// credential, serializes logins so at most one is in flight, and performs at
// most one automatic re-login when a data call is rejected with 401.
//
// With a preset token the manager never logs in; a rejected preset token is a
// fatal configuration error.
type TokenManager struct {
	mu           sync.RWMutex
	cred         *Credential
	reloginFails int         // consecutive failed-data-call re-logins
	loginTimes   []time.Time // rolling 24h login window

	dedup  *infra.RequestDeduplicator
	login  func(ctx context.Context) (string, error)
	logger *slog.Logger
}

// NewTokenManager creates a token manager. login performs the actual token
// request; it is never called when preset is non-empty.
func NewTokenManager(preset string, login func(ctx context.Context) (string, error), logger *slog.Logger) *TokenManager {
	tm := &TokenManager{
		dedup:  infra.NewRequestDeduplicator(),
		login:  login,
		logger: logger,
	}
	if preset != "" {
		tm.cred = &Credential{
			Token:      preset,
			Source:     SourcePreset,
			ObtainedAt: time.Now(),
		}
		metrics.SetTokenState("preset")
	}
	return tm
}

// Acquire returns a valid credential, logging in if necessary. Concurrent
// callers share a single login; waiters can be cancelled via ctx without
// aborting the login itself.
func (tm *TokenManager) Acquire(ctx context.Context) (*Credential, error) {
	tm.mu.RLock()
	cred := tm.cred
	tm.mu.RUnlock()

	if cred != nil {
		return cred, nil
	}

	result, shared, err := tm.dedup.Do(ctx, "login", func() (interface{}, error) {
		return tm.performLogin(ctx)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		tm.logger.Debug("Shared in-flight login result")
	}
	return result.(*Credential), nil
}

// performLogin runs one login attempt under the budget. Callers go through
// the deduplicator, so only one executes at a time.
func (tm *TokenManager) performLogin(ctx context.Context) (*Credential, error) {
	// Another waiter may have completed a login between the fast path and
	// the dedup slot opening up.
	tm.mu.RLock()
	if cred := tm.cred; cred != nil {
		tm.mu.RUnlock()
		return cred, nil
	}
	tm.mu.RUnlock()

	if err := tm.consumeLoginBudget(); err != nil {
		return nil, err
	}

	metrics.SetTokenState("authenticating")
	token, err := tm.login(ctx)
	if err != nil {
		metrics.SetTokenState("unset")
		metrics.RecordLogin(false)
		return nil, err
	}

	cred := &Credential{
		Token:      token,
		Source:     SourceLogin,
		ObtainedAt: time.Now(),
	}

	tm.mu.Lock()
	tm.cred = cred
	tm.mu.Unlock()

	metrics.SetTokenState("valid")
	metrics.RecordLogin(true)
	tm.logger.Info("Logged in to Tandoor", "source", cred.Source.String())
	return cred, nil
}

// consumeLoginBudget records a login attempt against the rolling 24h window
func (tm *TokenManager) consumeLoginBudget() error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	cutoff := time.Now().Add(-24 * time.Hour)
	kept := tm.loginTimes[:0]
	for _, t := range tm.loginTimes {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	tm.loginTimes = kept

	if len(tm.loginTimes) >= MaxLoginsPerDay {
		metrics.RecordAuthFailure("login_budget")
		return &AuthError{
			Code:      AuthCodeLoginBudget,
			Operation: "login",
			Reason:    "login budget exhausted (10 per 24h)",
		}
	}

	tm.loginTimes = append(tm.loginTimes, time.Now())
	return nil
}

// HandleUnauthorized reacts to a 401 on a data call that used the given
// credential. For login-sourced tokens it invalidates and re-logs-in once;
// a second consecutive 401 is fatal. Preset tokens are never retried.
func (tm *TokenManager) HandleUnauthorized(ctx context.Context, used *Credential) (*Credential, error) {
	tm.mu.Lock()

	if used != nil && used.Source == SourcePreset {
		tm.mu.Unlock()
		metrics.RecordAuthFailure("preset_rejected")
		return nil, &AuthError{
			Code:       AuthCodePresetRejected,
			Operation:  "api request",
			Reason:     "preset token rejected with 401",
			StatusCode: 401,
		}
	}

	// Someone else may already have replaced the rejected credential.
	if tm.cred != nil && tm.cred != used {
		cred := tm.cred
		tm.mu.Unlock()
		return cred, nil
	}

	if tm.reloginFails >= 1 {
		tm.mu.Unlock()
		metrics.RecordAuthFailure("relogin_exhausted")
		metrics.SetTokenState("invalid")
		return nil, &AuthError{
			Code:       AuthCodeTokenExpired,
			Operation:  "api request",
			Reason:     "token rejected again after a fresh login",
			StatusCode: 401,
		}
	}

	tm.cred = nil
	tm.reloginFails++
	tm.mu.Unlock()

	tm.logger.Warn("Token rejected, attempting one re-login")
	return tm.Acquire(ctx)
}

// MarkAuthorized resets the re-login counter after any successful data call
func (tm *TokenManager) MarkAuthorized() {
	tm.mu.Lock()
	tm.reloginFails = 0
	tm.mu.Unlock()
}

// Current returns the credential without triggering a login, or nil
func (tm *TokenManager) Current() *Credential {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return tm.cred
}

// LoginCount returns the number of logins in the current 24h window
func (tm *TokenManager) LoginCount() int {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	cutoff := time.Now().Add(-24 * time.Hour)
	n := 0
	for _, t := range tm.loginTimes {
		if t.After(cutoff) {
			n++
		}
	}
	return n
}
