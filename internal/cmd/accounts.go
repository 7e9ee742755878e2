package cmd

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/brettbedarf/docvault/record"
	"github.com/spf13/cobra"
)

func newRegisterCmd(opts *options) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "register ID USERNAME",
		Short: "Create your own account",
		Args:  cobra.ExactArgs(2),
		RunE: opts.run(func(cmd *cobra.Command, e *env, args []string) error {
			a, err := e.vault.Accounts.Register(args[0], args[1], password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s (%s)\n", a.ID(), a.DisplayName())
			return nil
		}),
	}
	cmd.Flags().StringVar(&password, "new-password", "", "Password for the new account")
	_ = cmd.MarkFlagRequired("new-password")
	return cmd
}

func newPasswdCmd(opts *options) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Change the password of --user",
		Args:  cobra.NoArgs,
		RunE: opts.run(func(cmd *cobra.Command, e *env, _ []string) error {
			if err := e.requireAccount(); err != nil {
				return err
			}
			if err := e.vault.Accounts.ChangePassword(e.account, password); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Password updated")
			return nil
		}),
	}
	cmd.Flags().StringVar(&password, "new-password", "", "New password")
	_ = cmd.MarkFlagRequired("new-password")
	return cmd
}

func newProfileCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile [FIELD VALUE]",
		Short: "Show or update the profile of --user",
		Long: `Without arguments, print the profile of --user. With FIELD and VALUE,
set one of username, name, email or phone.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("expected no arguments or FIELD VALUE, got %d arguments", len(args))
			}
			return nil
		},
		RunE: opts.run(func(cmd *cobra.Command, e *env, args []string) error {
			if err := e.requireAccount(); err != nil {
				return err
			}
			if len(args) == 2 {
				if err := e.vault.Accounts.UpdateProfile(e.account, args[0], args[1]); err != nil {
					return err
				}
			}
			printProfile(cmd.OutOrStdout(), e.account)
			return nil
		}),
	}
	return cmd
}

func printProfile(w io.Writer, a *record.Account) {
	get := func(f func() (string, bool)) string {
		v, _ := f()
		return v
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", a.ID())
	fmt.Fprintf(tw, "Username:\t%s\n", get(a.Username))
	fmt.Fprintf(tw, "Name:\t%s\n", get(a.Name))
	fmt.Fprintf(tw, "Email:\t%s\n", get(a.Email))
	fmt.Fprintf(tw, "Phone:\t%s\n", get(a.Phone))
	fmt.Fprintf(tw, "Admin:\t%t\n", a.IsAdmin())
	_ = tw.Flush()
}

func newAccountsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage accounts (admin only)",
	}
	cmd.AddCommand(
		newAccountsListCmd(opts),
		newAccountsAddCmd(opts),
		newAccountsDeleteCmd(opts),
		newAccountsSetAdminCmd(opts),
		newAccountsRenameCmd(opts),
		newAccountsShowCmd(opts),
	)
	return cmd
}

func newAccountsListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every account",
		Args:  cobra.NoArgs,
		RunE: opts.run(func(cmd *cobra.Command, e *env, _ []string) error {
			accounts, err := e.vault.Admin.ListAccounts(e.account)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tUSERNAME\tNAME\tADMIN")
			for _, a := range accounts {
				name, _ := a.Name()
				fmt.Fprintf(tw, "%s\t%s\t%s\t%t\n", a.ID(), a.DisplayName(), name, a.IsAdmin())
			}
			return tw.Flush()
		}),
	}
}

func newAccountsAddCmd(opts *options) *cobra.Command {
	var (
		password string
		admin    bool
	)

	cmd := &cobra.Command{
		Use:   "add ID USERNAME",
		Short: "Create an account",
		Args:  cobra.ExactArgs(2),
		RunE: opts.run(func(cmd *cobra.Command, e *env, args []string) error {
			a, err := e.vault.Admin.CreateAccount(e.account, args[0], args[1], password, admin)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s)\n", a.ID(), a.DisplayName())
			return nil
		}),
	}
	cmd.Flags().StringVar(&password, "new-password", "", "Password for the new account")
	cmd.Flags().BoolVar(&admin, "admin", false, "Grant the admin role")
	_ = cmd.MarkFlagRequired("new-password")
	return cmd
}

func newAccountsDeleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an account and every document it uploaded",
		Args:  cobra.ExactArgs(1),
		RunE: opts.run(func(cmd *cobra.Command, e *env, args []string) error {
			if err := e.vault.Admin.DeleteAccount(e.account, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		}),
	}
}

func newAccountsSetAdminCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "set-admin ID true|false",
		Short: "Grant or revoke the admin role",
		Args:  cobra.ExactArgs(2),
		RunE: opts.run(func(cmd *cobra.Command, e *env, args []string) error {
			isAdmin, err := strconv.ParseBool(args[1])
			if err != nil {
				return fmt.Errorf("invalid role value %q: %w", args[1], err)
			}
			if err := e.vault.Admin.SetAdmin(e.account, args[0], isAdmin); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set admin=%t for %s\n", isAdmin, args[0])
			return nil
		}),
	}
}

func newAccountsShowCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show the profile of a non-admin account",
		Args:  cobra.ExactArgs(1),
		RunE: opts.run(func(cmd *cobra.Command, e *env, args []string) error {
			a, err := e.vault.Admin.ViewAsUser(e.account, args[0])
			if err != nil {
				return err
			}
			printProfile(cmd.OutOrStdout(), a)
			return nil
		}),
	}
}

func newAccountsRenameCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "rename ID NEW_ID",
		Short: "Change the id of an account",
		Long: `Change the id of an account. The root account and your own account
cannot be renamed. Documents keep the uploader id they were created with.`,
		Args: cobra.ExactArgs(2),
		RunE: opts.run(func(cmd *cobra.Command, e *env, args []string) error {
			if err := e.vault.Admin.RenameAccount(e.account, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %s\n", args[0], args[1])
			return nil
		}),
	}
}
