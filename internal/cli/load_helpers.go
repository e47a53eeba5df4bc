package cli

import (
	"os"
	"strings"

	"github.com/sethvargo/go-githubactions"
	"github.com/spf13/cobra"

	"github.com/dannyhw/storybook-chromatic-link-comment/internal/config"
	"github.com/dannyhw/storybook-chromatic-link-comment/internal/env"
	"github.com/dannyhw/storybook-chromatic-link-comment/internal/ghcontext"
)

// session is everything read from the environment for one command.
type session struct {
	vars    env.Vars
	action  *githubactions.Action
	inputs  config.Inputs
	baseDir string
}

// loadSession snapshots the environment (process env, env files, inline vars) and binds an
// action to it. Workflow commands go to the command's stdout.
func loadSession(cmd *cobra.Command, opts *Options) (*session, error) {
	inlineVars, err := env.ParseInlineVars(opts.Vars)
	if err != nil {
		return nil, err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	vars, err := env.Load(cwd, opts.EnvFiles, inlineVars)
	if err != nil {
		return nil, err
	}
	vars = config.WithInputAliases(vars)

	var runner runnerEnv
	if err := parseEnv(&runner, vars); err != nil {
		return nil, err
	}
	baseDir := strings.TrimSpace(runner.Workspace)
	if baseDir == "" {
		baseDir = cwd
	}

	action := githubactions.New(
		githubactions.WithGetenv(vars.Get),
		githubactions.WithWriter(cmd.OutOrStdout()),
	)

	inputs := config.ReadInputs(action, vars)
	if inputs.GitHubToken.NonEmpty() {
		action.AddMask(inputs.GitHubToken.Value)
	}

	return &session{
		vars:    vars,
		action:  action,
		inputs:  inputs,
		baseDir: baseDir,
	}, nil
}

// load validates configuration, then reads the event. No network is involved.
func (s *session) load() (config.Config, ghcontext.EventContext, error) {
	cfg, err := config.Load(s.inputs, s.baseDir)
	if err != nil {
		return config.Config{}, ghcontext.EventContext{}, err
	}
	ev, err := ghcontext.FromAction(s.action)
	if err != nil {
		return config.Config{}, ghcontext.EventContext{}, err
	}
	return cfg, ev, nil
}
