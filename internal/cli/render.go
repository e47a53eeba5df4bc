package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dannyhw/storybook-chromatic-link-comment/internal/githubapi"
	"github.com/dannyhw/storybook-chromatic-link-comment/internal/notifier"
	"github.com/dannyhw/storybook-chromatic-link-comment/internal/resolver"
)

// newRenderCommand creates the "render" subcommand that prints the comment body without posting it.
func newRenderCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the comment that would be published, without creating or updating it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			logger := LoggerFromContext(ctx)

			sess, err := loadSession(cmd, opts)
			if err != nil {
				return err
			}
			cfg, ev, err := sess.load()
			if err != nil {
				return err
			}

			// The associated pull request lookup is read-only, so it is allowed here.
			client, err := githubapi.NewClient(ctx, logger, cfg.Token, ev.APIURL, ev.Owner, ev.Repo)
			if err != nil {
				return err
			}

			target, body, err := notifier.Prepare(ctx, logger, ev, cfg, client)
			if err != nil {
				return err
			}

			bodyOnly, _ := cmd.Flags().GetBool("body-only")
			if bodyOnly {
				_, err := io.WriteString(cmd.OutOrStdout(), body)
				return err
			}
			return printRendered(cmd.OutOrStdout(), target, body)
		},
	}

	cmd.Flags().Bool("body-only", false, "Print only the comment body")

	return cmd
}

func printRendered(w io.Writer, t resolver.ResolvedTarget, body string) error {
	header := color.New(color.FgCyan, color.Bold)
	key := color.New(color.FgHiBlack)

	if _, err := header.Fprintln(w, "Target"); err != nil {
		return err
	}
	rows := [][2]string{
		{"repository", t.Repository},
		{"issue", fmt.Sprintf("#%d", t.IssueNumber)},
		{"branch", t.BranchName},
		{"storybook", t.StorybookURL},
		{"build", t.BuildURL},
	}
	if t.ReviewURL != "" {
		rows = append(rows, [2]string{"review", t.ReviewURL})
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "  %s %s\n", key.Sprintf("%-10s", row[0]), row[1]); err != nil {
			return err
		}
	}

	if _, err := header.Fprintln(w, "\nComment"); err != nil {
		return err
	}
	_, err := io.WriteString(w, body)
	return err
}
