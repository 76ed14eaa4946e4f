package github

import (
	"errors"
	"fmt"
	"strings"
)

// ErrGHNotFound indicates gh CLI is not installed or not in PATH
var ErrGHNotFound = fmt.Errorf("gh not found: please install GitHub CLI (https://cli.github.com)")

// ErrGHNotAuthenticated indicates gh CLI is installed but not authenticated
var ErrGHNotAuthenticated = fmt.Errorf("gh not authenticated: please run 'gh auth login'")

// RateLimitError is the distinguished transport error for exhausted API
// quota, so callers can present a "try later" flow instead of a generic
// failure.
type RateLimitError struct {
	Detail string
}

func (e *RateLimitError) Error() string {
	if e.Detail == "" {
		return "github: API rate limit exceeded"
	}
	return "github: API rate limit exceeded: " + e.Detail
}

// IsRateLimit reports whether err is (or wraps) a rate-limit error.
func IsRateLimit(err error) bool {
	var rl *RateLimitError
	return errors.As(err, &rl)
}

// rateLimited recognizes the quota-exhaustion shapes gh surfaces: the
// GraphQL RATE_LIMITED error type and the REST 403/429 messages.
func rateLimited(stderr string) bool {
	for _, marker := range []string{
		"RATE_LIMITED",
		"API rate limit exceeded",
		"secondary rate limit",
		"HTTP 429",
	} {
		if strings.Contains(stderr, marker) {
			return true
		}
	}
	return false
}
