package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// LogoutCommand represents the logout command
type LogoutCommand struct {
	root *RootCommand
	cmd  *cobra.Command
}

// NewLogoutCommand creates a new logout command
func NewLogoutCommand(root *RootCommand) *LogoutCommand {
	l := &LogoutCommand{
		root: root,
	}

	l.cmd = &cobra.Command{
		Use:   "logout",
		Short: "Sign out of Storefront",
		Long: `Sign out of Storefront and clear stored credentials.

The server-side session is revoked when the API is reachable; local
credentials are removed in any case.

Example:
  storefront logout`,
		Args: cobra.NoArgs,
		RunE: l.Run,
	}

	return l
}

// Command returns the underlying cobra command
func (l *LogoutCommand) Command() *cobra.Command {
	return l.cmd
}

// Run executes the logout command
func (l *LogoutCommand) Run(cmd *cobra.Command, args []string) error {
	authService := l.root.Container().AuthService()

	if err := authService.Logout(cmd.Context()); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "✓ Signed out of Storefront")
	return nil
}
