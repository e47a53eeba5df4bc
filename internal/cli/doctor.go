package cli

import (
	"github.com/spf13/cobra"
)

// newDoctorCommand creates the "doctor" subcommand that validates inputs and the event offline.
func newDoctorCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check inputs, settings and the workflow event without calling GitHub",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := LoggerFromContext(cmd.Context())

			sess, err := loadSession(cmd, opts)
			if err != nil {
				return err
			}

			if err := runDoctorChecks(logger, sess); err != nil {
				return err
			}

			logger.Info("doctor checks completed successfully")
			return nil
		},
	}

	return cmd
}
