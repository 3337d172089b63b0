package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// CartCommand represents the cart command group
type CartCommand struct {
	root *RootCommand
	cmd  *cobra.Command

	showCmd *cobra.Command
}

// NewCartCommand creates a new cart command
func NewCartCommand(root *RootCommand) *CartCommand {
	c := &CartCommand{
		root: root,
	}

	c.cmd = &cobra.Command{
		Use:   "cart",
		Short: "Inspect your cart",
	}

	c.showCmd = &cobra.Command{
		Use:   "show",
		Short: "Show the items in your cart",
		Args:  cobra.NoArgs,
		RunE:  c.RunShow,
	}
	c.cmd.AddCommand(c.showCmd)

	return c
}

// Command returns the underlying cobra command
func (c *CartCommand) Command() *cobra.Command {
	return c.cmd
}

// RunShow executes the cart show command
func (c *CartCommand) RunShow(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	cart, err := c.root.Container().CartService().GetCart(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format != formatText {
		return writeStructured(out, format, cart)
	}

	if len(cart.Items) == 0 {
		fmt.Fprintln(out, "Your cart is empty.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRODUCT\tNAME\tQTY\tUNIT PRICE")
	fmt.Fprintln(w, "-------\t----\t---\t----------")
	for _, item := range cart.Items {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
			item.ProductID,
			item.Name,
			item.Quantity,
			formatMoney(item.UnitPrice, cart.Currency),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nSubtotal: %s\n", formatMoney(cart.Subtotal, cart.Currency))
	return nil
}
