package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInitCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the data directory and the root admin account",
		Long: `Create the account and document directories and the audit log, and
bootstrap the root admin account if it does not exist yet. Running init on an
existing data directory changes nothing.`,
		Args: cobra.NoArgs,
		RunE: opts.run(func(cmd *cobra.Command, e *env, _ []string) error {
			accounts, err := e.vault.Accounts.List()
			if err != nil {
				return err
			}
			cfg := e.vault.Config()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Accounts:  %s (%d)\n", cfg.AccountsPath(), len(accounts))
			fmt.Fprintf(out, "Documents: %s\n", cfg.DocumentsPath())
			fmt.Fprintf(out, "Audit log: %s\n", cfg.AuditLogPath())
			fmt.Fprintf(out, "Root admin: %s (%s)\n", e.vault.Root().ID(), e.vault.Root().DisplayName())
			return nil
		}),
	}
}
