// Package cmd provides helpers for executing external commands with
// proper error handling.
package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/cameronsjo/gh-manager-cli/internal/log"
)

// RunContext executes a command in dir and returns stderr as the error
// message if it fails. An empty dir runs in the current directory.
func RunContext(ctx context.Context, dir, name string, args ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	done := log.FromContext(ctx).Command(dir, name, args...)
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	done(time.Since(start))

	if err != nil {
		if errMsg := strings.TrimSpace(stderr.String()); errMsg != "" {
			return fmt.Errorf("%s", errMsg)
		}
		return err
	}
	return nil
}

// OutputContext executes a command in dir and returns stdout, with
// stderr as the error message if it fails.
func OutputContext(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done := log.FromContext(ctx).Command(dir, name, args...)
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	done(time.Since(start))

	if err != nil {
		if errMsg := strings.TrimSpace(stderr.String()); errMsg != "" {
			return nil, fmt.Errorf("%s", errMsg)
		}
		return nil, err
	}
	return output, nil
}
