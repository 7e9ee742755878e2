package cmd

import (
	"fmt"

	"github.com/brettbedarf/docvault/service"
	"github.com/spf13/cobra"
)

func newAuditCmd(opts *options) *cobra.Command {
	var (
		actorID string
		action  string
		tail    int
	)

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Print the audit log (admin only)",
		Args:  cobra.NoArgs,
		RunE: opts.run(func(cmd *cobra.Command, e *env, _ []string) error {
			if e.account == nil || !e.account.IsAdmin() {
				return fmt.Errorf("%w: the audit log is only readable by admins", service.ErrUnauthorized)
			}
			events, err := e.vault.AuditEvents()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			var shown []string
			for _, ev := range events {
				if actorID != "" && ev.ActorID != actorID {
					continue
				}
				if action != "" && ev.Action != action {
					continue
				}
				shown = append(shown, ev.String())
			}
			if tail > 0 && len(shown) > tail {
				shown = shown[len(shown)-tail:]
			}
			for _, line := range shown {
				fmt.Fprintln(out, line)
			}
			return nil
		}),
	}
	cmd.Flags().StringVar(&actorID, "actor", "", "Only events by this account id")
	cmd.Flags().StringVar(&action, "action", "", "Only events with this action, e.g. LOGIN_FAILED")
	cmd.Flags().IntVarP(&tail, "tail", "n", 0, "Only the last N matching events")
	return cmd
}
