package demosite

import (
	"strings"
	"sync"
	"time"
)

// Failed logins an account may collect inside loginWindow before the
// store refuses it.
const (
	DefaultLoginAttempts = 5
	loginWindow          = time.Hour
)

// loginAttempts is a sliding window of failed logins per e-mail.
type loginAttempts struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	failed map[string][]time.Time
	now    func() time.Time
}

func newLoginAttempts(limit int, window time.Duration) *loginAttempts {
	if limit <= 0 {
		limit = DefaultLoginAttempts
	}
	return &loginAttempts{
		limit:  limit,
		window: window,
		failed: make(map[string][]time.Time),
		now:    time.Now,
	}
}

// Locked reports whether email has used up its attempts.
func (a *loginAttempts) Locked(email string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.recent(strings.ToLower(email))) >= a.limit
}

// Fail records a failed login and returns how many attempts are left.
func (a *loginAttempts) Fail(email string) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := strings.ToLower(email)
	a.failed[key] = append(a.recent(key), a.now())
	if left := a.limit - len(a.failed[key]); left > 0 {
		return left
	}
	return 0
}

// Reset forgets email's failures after a successful login
func (a *loginAttempts) Reset(email string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.failed, strings.ToLower(email))
}

// recent drops failures older than the window. Callers hold mu.
func (a *loginAttempts) recent(key string) []time.Time {
	cutoff := a.now().Add(-a.window)

	times := a.failed[key]
	valid := times[:0]
	for _, t := range times {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}
	if len(valid) == 0 {
		delete(a.failed, key)
		return nil
	}
	a.failed[key] = valid
	return valid
}
