// Package cmd provides the command-line interface for the Storefront CLI.
// It contains all cobra commands and their implementations.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"github.com/storefront-labs/storefront-cli/internal/api"
	"github.com/storefront-labs/storefront-cli/internal/di"
	"github.com/storefront-labs/storefront-cli/internal/logging"
)

var (
	// Version is set at build time via ldflags
	Version = "dev"
)

// RootCommand represents the root CLI command
type RootCommand struct {
	container *di.Container
	cmd       *cobra.Command

	// Subcommands
	loginCmd     *LoginCommand
	logoutCmd    *LogoutCommand
	whoamiCmd    *WhoAmICommand
	openCmd      *OpenCommand
	productsCmd  *ProductsCommand
	cartCmd      *CartCommand
	ordersCmd    *OrdersCommand
	dashboardCmd *DashboardCommand
}

// NewRootCommand creates a new root command
func NewRootCommand() *RootCommand {
	r := &RootCommand{}

	r.cmd = &cobra.Command{
		Use:   "storefront",
		Short: "Storefront CLI - Command line interface for the Storefront admin API",
		Long: `Storefront CLI is a command-line tool for administering a Storefront shop.

Expired sessions are renewed transparently; if renewal is no longer possible
you are signed out and asked to log in again.

To get started, run:
  storefront login          - Sign in with your Storefront account
  storefront products list  - View the catalog`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return r.initialize(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if dump, _ := cmd.Flags().GetBool("metrics"); dump {
				return r.dumpMetrics(cmd.ErrOrStderr())
			}
			return nil
		},
	}

	// Global flags
	r.cmd.PersistentFlags().StringP("output", "o", "text", "Output format (text, json, yaml)")
	r.cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging on stderr")
	r.cmd.PersistentFlags().Bool("metrics", false, "Print client metrics to stderr after the command")
	r.cmd.PersistentFlags().Bool("open-login", false, "Open the sign-in page in a browser when the session expires")

	// Initialize subcommands (will be wired after container init)
	r.loginCmd = NewLoginCommand(r)
	r.logoutCmd = NewLogoutCommand(r)
	r.whoamiCmd = NewWhoAmICommand(r)
	r.openCmd = NewOpenCommand(r)
	r.productsCmd = NewProductsCommand(r)
	r.cartCmd = NewCartCommand(r)
	r.ordersCmd = NewOrdersCommand(r)
	r.dashboardCmd = NewDashboardCommand(r)

	// Add subcommands
	r.cmd.AddCommand(r.loginCmd.Command())
	r.cmd.AddCommand(r.logoutCmd.Command())
	r.cmd.AddCommand(r.whoamiCmd.Command())
	r.cmd.AddCommand(r.openCmd.Command())
	r.cmd.AddCommand(r.productsCmd.Command())
	r.cmd.AddCommand(r.cartCmd.Command())
	r.cmd.AddCommand(r.ordersCmd.Command())
	r.cmd.AddCommand(r.dashboardCmd.Command())

	return r
}

// initialize sets up the DI container
func (r *RootCommand) initialize(cmd *cobra.Command) error {
	// Skip if container is already set (e.g., for testing)
	if r.container != nil {
		return nil
	}

	level := slog.LevelWarn
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	openLogin, _ := cmd.Flags().GetBool("open-login")

	var err error
	r.container, err = di.NewContainer(di.Options{
		Logger:          logging.New(level),
		BrowserRedirect: openLogin,
		Output:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	return nil
}

// dumpMetrics writes the client metrics in the prometheus text format
func (r *RootCommand) dumpMetrics(w io.Writer) error {
	if r.container == nil || r.container.Registry() == nil {
		return nil
	}

	families, err := r.container.Registry().Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

// Execute runs the root command
func (r *RootCommand) Execute() error {
	return r.cmd.Execute()
}

// Command returns the underlying cobra command
func (r *RootCommand) Command() *cobra.Command {
	return r.cmd
}

// Container returns the DI container
func (r *RootCommand) Container() *di.Container {
	return r.container
}

// SetContainer sets a custom container (for testing)
func (r *RootCommand) SetContainer(c *di.Container) {
	r.container = c
}

// Execute is the main entry point for the CLI
func Execute() error {
	root := NewRootCommand()
	err := root.Execute()
	if err != nil {
		ReportError(os.Stderr, err)
	}
	return err
}

// ReportError prints err for the user. An expired session gets a re-login
// hint instead of the raw error chain.
func ReportError(w io.Writer, err error) {
	if api.IsAuthExpired(err) {
		fmt.Fprintln(w, "Error: your session has expired. Run 'storefront login' to sign in again.")
		return
	}

	var reqErr *api.RequestFailedError
	if errors.As(err, &reqErr) {
		switch {
		case reqErr.IsForbidden():
			fmt.Fprintln(w, "Error: your account is not allowed to do this (admin role required).")
			return
		case reqErr.IsNotFound():
			fmt.Fprintf(w, "Error: not found: %s\n", reqErr.Message)
			return
		}
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}
