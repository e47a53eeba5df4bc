package cli

import (
	"strconv"
	"strings"

	envparse "github.com/caarlos0/env/v11"
	"github.com/spf13/pflag"

	"github.com/dannyhw/storybook-chromatic-link-comment/internal/env"
	"github.com/dannyhw/storybook-chromatic-link-comment/internal/logging"
)

// baseEnv defines root CLI defaults sourced from the environment.
type baseEnv struct {
	// LogLevel is the logging level from STORYBOOK_COMMENT_LOG_LEVEL.
	LogLevel string `env:"STORYBOOK_COMMENT_LOG_LEVEL"`
	// RunnerDebug is set to 1 by the runner when step debug logging is enabled.
	RunnerDebug string `env:"RUNNER_DEBUG"`
	// EnvFiles is a comma-separated list of .env files from STORYBOOK_COMMENT_ENV_FILE.
	EnvFiles []string `env:"STORYBOOK_COMMENT_ENV_FILE" envSeparator:","`
}

// runnerEnv captures runner paths after env files are applied.
type runnerEnv struct {
	// Workspace is the checkout directory from GITHUB_WORKSPACE.
	Workspace string `env:"GITHUB_WORKSPACE"`
}

// parseBaseEnv fills baseEnv from vars via caarlos0/env.
func parseBaseEnv(vars env.Vars) (baseEnv, error) {
	var out baseEnv
	err := parseEnv(&out, vars)
	return out, err
}

// parseEnv fills target from vars instead of the process environment.
func parseEnv(target any, vars env.Vars) error {
	return envparse.ParseWithOptions(target, envparse.Options{Environment: vars})
}

// resolveLogLevel picks the log level: an explicit flag wins, then STORYBOOK_COMMENT_LOG_LEVEL,
// then RUNNER_DEBUG, then info.
func resolveLogLevel(flag *pflag.Flag, base baseEnv) logging.Level {
	if flag != nil && flag.Changed {
		return logging.ParseLevel(flag.Value.String())
	}
	if strings.TrimSpace(base.LogLevel) != "" {
		return logging.ParseLevel(base.LogLevel)
	}
	if debug, ok := parseEnvBool(base.RunnerDebug); ok && debug {
		return logging.LevelDebug
	}
	return logging.LevelInfo
}

// parseEnvBool parses a boolean string and reports if it was present and valid.
func parseEnvBool(value string) (bool, bool) {
	if strings.TrimSpace(value) == "" {
		return false, false
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, false
	}
	return parsed, true
}
