package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	iface "github.com/storefront-labs/storefront-cli/internal/service/interface"
)

// OrdersCommand represents the orders command group
type OrdersCommand struct {
	root *RootCommand
	cmd  *cobra.Command

	// Subcommands
	listCmd *OrdersListCommand
	getCmd  *OrdersGetCommand
}

// NewOrdersCommand creates a new orders command
func NewOrdersCommand(root *RootCommand) *OrdersCommand {
	o := &OrdersCommand{
		root: root,
	}

	o.cmd = &cobra.Command{
		Use:   "orders",
		Short: "Inspect customer orders",
		Long: `Inspect customer orders. Requires an admin account.`,
	}

	o.listCmd = NewOrdersListCommand(o)
	o.getCmd = NewOrdersGetCommand(o)

	o.cmd.AddCommand(o.listCmd.Command())
	o.cmd.AddCommand(o.getCmd.Command())

	return o
}

// Command returns the underlying cobra command
func (o *OrdersCommand) Command() *cobra.Command {
	return o.cmd
}

// Root returns the parent root command
func (o *OrdersCommand) Root() *RootCommand {
	return o.root
}

// OrdersListCommand represents the orders list command
type OrdersListCommand struct {
	parent *OrdersCommand
	cmd    *cobra.Command
}

// NewOrdersListCommand creates a new orders list command
func NewOrdersListCommand(parent *OrdersCommand) *OrdersListCommand {
	l := &OrdersListCommand{
		parent: parent,
	}

	l.cmd = &cobra.Command{
		Use:   "list",
		Short: "List orders",
		Long: `List customer orders, newest first.

Examples:
  storefront orders list
  storefront orders list --status pending`,
		Args: cobra.NoArgs,
		RunE: l.Run,
	}

	l.cmd.Flags().String("status", "", "Only list orders with this status")

	return l
}

// Command returns the underlying cobra command
func (l *OrdersListCommand) Command() *cobra.Command {
	return l.cmd
}

// Run executes the orders list command
func (l *OrdersListCommand) Run(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	status, _ := cmd.Flags().GetString("status")

	orders, err := l.parent.Root().Container().AdminService().ListOrders(cmd.Context(), status)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format != formatText {
		return writeStructured(out, format, orders)
	}

	if len(orders) == 0 {
		fmt.Fprintln(out, "No orders found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCUSTOMER\tSTATUS\tTOTAL\tCREATED")
	fmt.Fprintln(w, "--\t--------\t------\t-----\t-------")
	for _, o := range orders {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			o.ID,
			o.CustomerID,
			o.Status,
			formatMoney(o.Total, o.Currency),
			o.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	return w.Flush()
}

// OrdersGetCommand represents the orders get command
type OrdersGetCommand struct {
	parent *OrdersCommand
	cmd    *cobra.Command
}

// NewOrdersGetCommand creates a new orders get command
func NewOrdersGetCommand(parent *OrdersCommand) *OrdersGetCommand {
	g := &OrdersGetCommand{
		parent: parent,
	}

	g.cmd = &cobra.Command{
		Use:   "get <order-id>",
		Short: "Get an order by ID",
		Args:  cobra.ExactArgs(1),
		RunE:  g.Run,
	}

	return g
}

// Command returns the underlying cobra command
func (g *OrdersGetCommand) Command() *cobra.Command {
	return g.cmd
}

// Run executes the orders get command
func (g *OrdersGetCommand) Run(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	order, err := g.parent.Root().Container().AdminService().GetOrder(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format != formatText {
		return writeStructured(out, format, order)
	}
	return g.outputDetail(cmd, order)
}

// outputDetail outputs an order in human-readable format
func (g *OrdersGetCommand) outputDetail(cmd *cobra.Command, order *iface.Order) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Order:    %s\n", order.ID)
	fmt.Fprintf(out, "Customer: %s\n", order.CustomerID)
	fmt.Fprintf(out, "Status:   %s\n", order.Status)
	fmt.Fprintf(out, "Total:    %s\n", formatMoney(order.Total, order.Currency))
	fmt.Fprintf(out, "Created:  %s\n", order.CreatedAt.Format("2006-01-02 15:04:05"))

	fmt.Fprintln(out, "\nItems:")
	if len(order.Items) == 0 {
		fmt.Fprintln(out, "  No items")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  PRODUCT\tNAME\tQTY\tUNIT PRICE")
	fmt.Fprintln(w, "  -------\t----\t---\t----------")
	for _, item := range order.Items {
		fmt.Fprintf(w, "  %s\t%s\t%d\t%s\n",
			item.ProductID,
			item.Name,
			item.Quantity,
			formatMoney(item.UnitPrice, order.Currency),
		)
	}
	return w.Flush()
}
