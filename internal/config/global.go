// Copyright 2026 The Promptproxy Authors
// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
)

// PathEnvVar names the environment variable holding an explicit config path.
const PathEnvVar = "PROMPTPROXY_CONFIG"

// GlobalConfigDir returns the directory for global promptproxy configuration.
// It uses $XDG_CONFIG_HOME/promptproxy if set, otherwise ~/.config/promptproxy.
func GlobalConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "promptproxy")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "promptproxy")
}

// GlobalConfigPath returns the path to the global config file.
func GlobalConfigPath() string {
	return filepath.Join(GlobalConfigDir(), FileName)
}

// ResolvePath picks the config file to read: an explicit path wins, then
// $PROMPTPROXY_CONFIG, then the global config path when useGlobal is set.
// The Lambda entry point passes useGlobal=false since it has no home directory.
func ResolvePath(explicit string, useGlobal bool) string {
	if explicit != "" {
		return explicit
	}
	if p := GetEnv(PathEnvVar, ""); p != "" {
		return p
	}
	if useGlobal {
		return GlobalConfigPath()
	}
	return ""
}
