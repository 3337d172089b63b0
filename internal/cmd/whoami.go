package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// WhoAmICommand represents the whoami command
type WhoAmICommand struct {
	root *RootCommand
	cmd  *cobra.Command
}

// NewWhoAmICommand creates a new whoami command
func NewWhoAmICommand(root *RootCommand) *WhoAmICommand {
	w := &WhoAmICommand{
		root: root,
	}

	w.cmd = &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE:  w.Run,
	}

	return w
}

// Command returns the underlying cobra command
func (w *WhoAmICommand) Command() *cobra.Command {
	return w.cmd
}

// Run executes the whoami command
func (w *WhoAmICommand) Run(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	user, err := w.root.Container().AuthService().WhoAmI(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format != formatText {
		return writeStructured(out, format, user)
	}

	fmt.Fprintf(out, "ID:    %s\n", user.ID)
	fmt.Fprintf(out, "Email: %s\n", user.Email)
	if user.DisplayName != "" {
		fmt.Fprintf(out, "Name:  %s\n", user.DisplayName)
	}
	if user.Role != "" {
		fmt.Fprintf(out, "Role:  %s\n", user.Role)
	}
	return nil
}
