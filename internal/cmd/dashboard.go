package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// DashboardCommand represents the dashboard command
type DashboardCommand struct {
	root *RootCommand
	cmd  *cobra.Command
}

// NewDashboardCommand creates a new dashboard command
func NewDashboardCommand(root *RootCommand) *DashboardCommand {
	d := &DashboardCommand{
		root: root,
	}

	d.cmd = &cobra.Command{
		Use:   "dashboard",
		Short: "Show the admin dashboard summary",
		Args:  cobra.NoArgs,
		RunE:  d.Run,
	}

	return d
}

// Command returns the underlying cobra command
func (d *DashboardCommand) Command() *cobra.Command {
	return d.cmd
}

// Run executes the dashboard command
func (d *DashboardCommand) Run(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	summary, err := d.root.Container().AdminService().GetDashboard(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format != formatText {
		return writeStructured(out, format, summary)
	}

	fmt.Fprintf(out, "Revenue:         %s\n", formatMoney(summary.Revenue, summary.Currency))
	fmt.Fprintf(out, "Orders today:    %d\n", summary.OrdersToday)
	fmt.Fprintf(out, "Pending orders:  %d\n", summary.PendingOrders)
	fmt.Fprintf(out, "Low stock items: %d\n", summary.LowStock)
	fmt.Fprintf(out, "Customers:       %d\n", summary.Customers)
	return nil
}
