package cmd

import (
	"fmt"
	"strings"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

// openURL is replaced in tests
var openURL = browser.OpenURL

// OpenCommand represents the open command
type OpenCommand struct {
	root *RootCommand
	cmd  *cobra.Command
}

// NewOpenCommand creates a new open command
func NewOpenCommand(root *RootCommand) *OpenCommand {
	o := &OpenCommand{
		root: root,
	}

	o.cmd = &cobra.Command{
		Use:   "open [path]",
		Short: "Open the Storefront admin in a browser",
		Long: `Open the Storefront admin web interface in your default browser.

Examples:
  storefront open
  storefront open /admin/orders`,
		Args: cobra.MaximumNArgs(1),
		RunE: o.Run,
	}

	return o
}

// Command returns the underlying cobra command
func (o *OpenCommand) Command() *cobra.Command {
	return o.cmd
}

// Run executes the open command
func (o *OpenCommand) Run(cmd *cobra.Command, args []string) error {
	path := "/admin"
	if len(args) == 1 {
		path = "/" + strings.TrimLeft(args[0], "/")
	}

	target := strings.TrimRight(o.root.Container().Config().WebURL, "/") + path
	fmt.Fprintf(cmd.OutOrStdout(), "Opening %s\n", target)

	if err := openURL(target); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}
