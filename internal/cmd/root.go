package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/brettbedarf/docvault/config"
	"github.com/brettbedarf/docvault/internal/util"
	"github.com/brettbedarf/docvault/record"
	"github.com/brettbedarf/docvault/server"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// PasswordEnv is read when --password is not given.
const PasswordEnv = "DOCVAULT_PASSWORD"

// options holds the persistent flags shared by every subcommand.
type options struct {
	fs         afero.Fs
	configPath string
	dataDir    string
	verbosity  int
	user       string
	password   string
}

// NewRootCmd creates the root cobra command for the docvault CLI operating on
// the host filesystem.
func NewRootCmd() *cobra.Command {
	return newRootCmd(afero.NewOsFs())
}

func newRootCmd(fsys afero.Fs) *cobra.Command {
	opts := &options{fs: fsys}

	rootCmd := &cobra.Command{
		Use:   "docvault",
		Short: "docvault - A document vault stored as plain directories",
		Long: `docvault keeps user accounts and uploaded documents as directories of
attribute files under a data directory. Every operation is written to an
append-only audit log.

Most commands act on behalf of the account given by --user. Without --user
they run as a guest, which may only browse documents.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML or JSON config file")
	rootCmd.PersistentFlags().StringVarP(&opts.dataDir, "data-dir", "d", "", "Data directory (overrides config)")
	rootCmd.PersistentFlags().IntVarP(&opts.verbosity, "verbose", "v", config.InfoVerbose, "Log verbosity 1 (errors) .. 5 (trace)")
	rootCmd.PersistentFlags().StringVarP(&opts.user, "user", "u", "", "Username to act as")
	rootCmd.PersistentFlags().StringVarP(&opts.password, "password", "p", "", "Password for --user (or $"+PasswordEnv+")")

	groupAccounts := "accounts"
	groupDocuments := "documents"
	rootCmd.AddGroup(&cobra.Group{ID: groupAccounts, Title: "Account Commands"})
	rootCmd.AddGroup(&cobra.Group{ID: groupDocuments, Title: "Document Commands"})

	initCmd := newInitCmd(opts)
	registerCmd := newRegisterCmd(opts)
	passwdCmd := newPasswdCmd(opts)
	profileCmd := newProfileCmd(opts)
	accountsCmd := newAccountsCmd(opts)
	docsCmd := newDocsCmd(opts)
	auditCmd := newAuditCmd(opts)

	registerCmd.GroupID = groupAccounts
	passwdCmd.GroupID = groupAccounts
	profileCmd.GroupID = groupAccounts
	accountsCmd.GroupID = groupAccounts
	docsCmd.GroupID = groupDocuments

	rootCmd.AddCommand(initCmd, registerCmd, passwdCmd, profileCmd, accountsCmd, docsCmd, auditCmd)
	return rootCmd
}

// loadConfig builds the effective config: defaults, then the --config file,
// then explicit flags.
func (o *options) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewDefaultConfig()
	if o.configPath != "" {
		var err error
		if cfg, err = config.NewConfigFromFile(o.configPath); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("data-dir") {
		cfg.DataDir = o.dataDir
	}
	if cmd.Flags().Changed("verbose") {
		cfg.LogLvl = config.VerbosityToLogLevel(o.verbosity)
	}
	return cfg, nil
}

func (o *options) openVault(cmd *cobra.Command) (*server.Vault, error) {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	util.InitializeLogger(cfg.LogLvl)

	v := server.New(o.fs, cfg)
	if err := v.Open(); err != nil {
		return nil, err
	}
	return v, nil
}

// login returns the account named by --user, or nil for a guest.
func (o *options) login(v *server.Vault) (*record.Account, error) {
	if o.user == "" {
		return nil, nil
	}
	password := o.password
	if password == "" {
		password = os.Getenv(PasswordEnv)
	}
	return v.Accounts.Login(o.user, password)
}

type runFunc func(cmd *cobra.Command, env *env, args []string) error

// env is what a subcommand runs against.
type env struct {
	vault   *server.Vault
	account *record.Account
}

func (e *env) requireAccount() error {
	if e.account == nil {
		return errors.New("this command needs --user")
	}
	return nil
}

// run opens the vault, logs in and hands both to fn. The vault is closed
// afterwards and the user logged out.
func (o *options) run(fn runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		v, err := o.openVault(cmd)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := v.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("close vault: %w", cerr)
			}
		}()

		a, err := o.login(v)
		if err != nil {
			return err
		}
		defer v.Accounts.Logout(a)

		return fn(cmd, &env{vault: v, account: a}, args)
	}
}
