// Copyright 2026 The Promptproxy Authors
// SPDX-License-Identifier: MIT

// Package redact strips API keys and credentials from strings before they
// reach logs or response bodies.
package redact

import (
	"os"
	"strings"
	"sync"
)

// sensitiveEnvVars lists environment variable names whose values must never
// appear in output.
var sensitiveEnvVars = []string{
	"OPENAI_API_KEY",
	"ANTHROPIC_API_KEY",
	"AWS_SECRET_ACCESS_KEY",
	"AWS_SESSION_TOKEN",
}

// minSecretLen guards against false-positive redaction of short values.
const minSecretLen = 4

var (
	mu        sync.RWMutex
	secrets   []string
	envLoaded bool
)

func loadEnvLocked() {
	if envLoaded {
		return
	}
	envLoaded = true
	for _, envVar := range sensitiveEnvVars {
		addLocked(os.Getenv(envVar))
	}
}

func addLocked(val string) {
	if len(val) < minSecretLen {
		return
	}
	for _, s := range secrets {
		if s == val {
			return
		}
	}
	secrets = append(secrets, val)
}

// Register adds a secret value that did not come from the environment, such
// as an API key fetched from a secret store.
func Register(val string) {
	mu.Lock()
	defer mu.Unlock()
	loadEnvLocked()
	addLocked(val)
}

// ResetForTest clears registered and cached secrets so tests can change env
// vars with t.Setenv between calls.
func ResetForTest() {
	mu.Lock()
	defer mu.Unlock()
	secrets = nil
	envLoaded = false
}

// String replaces any occurrence of a known secret value with "[REDACTED]".
// Environment values are read once, on first use.
func String(s string) string {
	mu.RLock()
	if !envLoaded {
		mu.RUnlock()
		mu.Lock()
		loadEnvLocked()
		mu.Unlock()
		mu.RLock()
	}
	defer mu.RUnlock()

	for _, secret := range secrets {
		s = strings.ReplaceAll(s, secret, "[REDACTED]")
	}
	return s
}
