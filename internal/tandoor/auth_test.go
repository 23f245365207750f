package tandoor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newTestTokenManager(preset string, login func(ctx context.Context) (string, error)) *TokenManager {
	return NewTokenManager(preset, login, testLogger())
}

func TestTokenManager_PresetTokenNeverLogsIn(t *testing.T) {
	var logins atomic.Int32
	tm := newTestTokenManager("preset-tok", func(ctx context.Context) (string, error) {
		logins.Add(1)
		return "should-not-happen", nil
	})

	cred, err := tm.Acquire(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cred.Token != "preset-tok" {
		t.Errorf("Token = %q, want preset-tok", cred.Token)
	}
	if cred.Source != SourcePreset {
		t.Errorf("Source = %v, want SourcePreset", cred.Source)
	}
	if logins.Load() != 0 {
		t.Errorf("logins = %d, want 0", logins.Load())
	}
}

func TestTokenManager_SingleFlightLogin(t *testing.T) {
	var logins atomic.Int32
	tm := newTestTokenManager("", func(ctx context.Context) (string, error) {
		logins.Add(1)
		time.Sleep(50 * time.Millisecond)
		return "tok", nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cred, err := tm.Acquire(context.Background())
			if err != nil {
				t.Errorf("Acquire failed: %v", err)
				return
			}
			if cred.Token != "tok" {
				t.Errorf("Token = %q, want tok", cred.Token)
			}
		}()
	}
	wg.Wait()

	if logins.Load() != 1 {
		t.Errorf("logins = %d, want 1 (concurrent callers must share one login)", logins.Load())
	}
}

func TestTokenManager_CachesCredential(t *testing.T) {
	var logins atomic.Int32
	tm := newTestTokenManager("", func(ctx context.Context) (string, error) {
		return fmt.Sprintf("tok-%d", logins.Add(1)), nil
	})

	for i := 0; i < 5; i++ {
		cred, err := tm.Acquire(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cred.Token != "tok-1" {
			t.Errorf("Token = %q, want tok-1", cred.Token)
		}
	}
	if logins.Load() != 1 {
		t.Errorf("logins = %d, want 1", logins.Load())
	}
}

func TestTokenManager_LoginBudget(t *testing.T) {
	tm := newTestTokenManager("", func(ctx context.Context) (string, error) {
		return "tok", nil
	})

	for i := 0; i < MaxLoginsPerDay; i++ {
		if _, err := tm.Acquire(context.Background()); err != nil {
			t.Fatalf("login %d failed: %v", i+1, err)
		}
		// Drop the credential to force the next call to log in again
		tm.mu.Lock()
		tm.cred = nil
		tm.mu.Unlock()
	}

	if tm.LoginCount() != MaxLoginsPerDay {
		t.Fatalf("LoginCount = %d, want %d", tm.LoginCount(), MaxLoginsPerDay)
	}

	_, err := tm.Acquire(context.Background())
	ae := &AuthError{}
	if !errors.As(err, &ae) {
		t.Fatalf("got %T, want *AuthError", err)
	}
	if ae.Code != AuthCodeLoginBudget {
		t.Errorf("Code = %s, want %s", ae.Code, AuthCodeLoginBudget)
	}
}

func TestTokenManager_HandleUnauthorized_PresetIsFatal(t *testing.T) {
	tm := newTestTokenManager("preset-tok", func(ctx context.Context) (string, error) {
		t.Error("login must not be called for a preset token")
		return "", nil
	})

	used := tm.Current()
	_, err := tm.HandleUnauthorized(context.Background(), used)
	ae := &AuthError{}
	if !errors.As(err, &ae) {
		t.Fatalf("got %T, want *AuthError", err)
	}
	if ae.Code != AuthCodePresetRejected {
		t.Errorf("Code = %s, want %s", ae.Code, AuthCodePresetRejected)
	}
}

func TestTokenManager_HandleUnauthorized_ReloginOnceThenFatal(t *testing.T) {
	var logins atomic.Int32
	tm := newTestTokenManager("", func(ctx context.Context) (string, error) {
		return fmt.Sprintf("tok-%d", logins.Add(1)), nil
	})

	cred1, err := tm.Acquire(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// First 401: one automatic re-login
	cred2, err := tm.HandleUnauthorized(context.Background(), cred1)
	if err != nil {
		t.Fatalf("first re-login should succeed: %v", err)
	}
	if cred2.Token != "tok-2" {
		t.Errorf("Token = %q, want tok-2", cred2.Token)
	}

	// Second consecutive 401: fatal
	_, err = tm.HandleUnauthorized(context.Background(), cred2)
	ae := &AuthError{}
	if !errors.As(err, &ae) {
		t.Fatalf("got %T, want *AuthError", err)
	}
	if ae.Code != AuthCodeTokenExpired {
		t.Errorf("Code = %s, want %s", ae.Code, AuthCodeTokenExpired)
	}
}

func TestTokenManager_MarkAuthorizedResetsReloginCounter(t *testing.T) {
	var logins atomic.Int32
	tm := newTestTokenManager("", func(ctx context.Context) (string, error) {
		return fmt.Sprintf("tok-%d", logins.Add(1)), nil
	})

	cred1, _ := tm.Acquire(context.Background())
	cred2, err := tm.HandleUnauthorized(context.Background(), cred1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A successful data call in between resets the failure streak
	tm.MarkAuthorized()

	cred3, err := tm.HandleUnauthorized(context.Background(), cred2)
	if err != nil {
		t.Fatalf("re-login after MarkAuthorized should succeed: %v", err)
	}
	if cred3.Token != "tok-3" {
		t.Errorf("Token = %q, want tok-3", cred3.Token)
	}
}

func TestTokenManager_HandleUnauthorized_StaleCredential(t *testing.T) {
	var logins atomic.Int32
	tm := newTestTokenManager("", func(ctx context.Context) (string, error) {
		return fmt.Sprintf("tok-%d", logins.Add(1)), nil
	})

	stale, _ := tm.Acquire(context.Background())

	// Another caller already replaced the credential
	tm.mu.Lock()
	current := &Credential{Token: "tok-new", Source: SourceLogin, ObtainedAt: time.Now()}
	tm.cred = current
	tm.mu.Unlock()

	got, err := tm.HandleUnauthorized(context.Background(), stale)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != current {
		t.Error("should return the already-replaced credential without logging in")
	}
	if logins.Load() != 1 {
		t.Errorf("logins = %d, want 1", logins.Load())
	}
}

func TestTokenManager_AcquireCancellation(t *testing.T) {
	release := make(chan struct{})
	tm := newTestTokenManager("", func(ctx context.Context) (string, error) {
		<-release
		return "tok", nil
	})

	// First caller holds the login
	go func() {
		_, _ = tm.Acquire(context.Background())
	}()
	time.Sleep(20 * time.Millisecond)

	// Second caller gives up while waiting
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err := tm.Acquire(ctx)
	if err == nil {
		t.Error("cancelled waiter should get an error")
	}

	close(release)
}
