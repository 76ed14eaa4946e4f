// Package cmd provides helpers for executing external commands with proper
// error handling.
//
// This package wraps [os/exec.Cmd] to capture stderr and include it in error
// messages, making command failures more informative for users. Invocations
// are logged with timing when the context logger is verbose.
//
// # Design Notes
//
// ghm shells out to the gh CLI rather than using a GitHub client library.
// This reuses the user's existing authentication (tokens, SSH, enterprise
// hosts) and gh's own response cache without duplicating either.
package cmd
