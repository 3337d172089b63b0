package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	iface "github.com/storefront-labs/storefront-cli/internal/service/interface"
)

// ProductsCommand represents the products command group
type ProductsCommand struct {
	root *RootCommand
	cmd  *cobra.Command

	// Subcommands
	listCmd   *ProductsListCommand
	getCmd    *ProductsGetCommand
	deleteCmd *ProductsDeleteCommand
}

// NewProductsCommand creates a new products command
func NewProductsCommand(root *RootCommand) *ProductsCommand {
	p := &ProductsCommand{
		root: root,
	}

	p.cmd = &cobra.Command{
		Use:   "products",
		Short: "Manage catalog products",
		Long: `Manage the products in your Storefront catalog.

Use subcommands to list, inspect, or delete products.`,
	}

	// Initialize subcommands
	p.listCmd = NewProductsListCommand(p)
	p.getCmd = NewProductsGetCommand(p)
	p.deleteCmd = NewProductsDeleteCommand(p)

	// Add subcommands
	p.cmd.AddCommand(p.listCmd.Command())
	p.cmd.AddCommand(p.getCmd.Command())
	p.cmd.AddCommand(p.deleteCmd.Command())

	return p
}

// Command returns the underlying cobra command
func (p *ProductsCommand) Command() *cobra.Command {
	return p.cmd
}

// Root returns the parent root command
func (p *ProductsCommand) Root() *RootCommand {
	return p.root
}

// ProductsListCommand represents the products list command
type ProductsListCommand struct {
	parent *ProductsCommand
	cmd    *cobra.Command
}

// NewProductsListCommand creates a new products list command
func NewProductsListCommand(parent *ProductsCommand) *ProductsListCommand {
	l := &ProductsListCommand{
		parent: parent,
	}

	l.cmd = &cobra.Command{
		Use:   "list",
		Short: "List products",
		Long: `List the products in your catalog.

Examples:
  storefront products list
  storefront products list --category shoes --limit 20
  storefront products list -o json`,
		Args: cobra.NoArgs,
		RunE: l.Run,
	}

	l.cmd.Flags().String("category", "", "Only list products in this category")
	l.cmd.Flags().Int("limit", 0, "Maximum number of products to list")

	return l
}

// Command returns the underlying cobra command
func (l *ProductsListCommand) Command() *cobra.Command {
	return l.cmd
}

// Run executes the products list command
func (l *ProductsListCommand) Run(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	category, _ := cmd.Flags().GetString("category")
	limit, _ := cmd.Flags().GetInt("limit")

	productService := l.parent.Root().Container().ProductService()

	products, err := productService.ListProducts(cmd.Context(), &iface.ListProductsInput{
		Category: category,
		Limit:    limit,
	})
	if err != nil {
		return err
	}

	if format != formatText {
		return writeStructured(cmd.OutOrStdout(), format, products)
	}
	return l.outputTable(cmd, products)
}

// outputTable outputs products in table format
func (l *ProductsListCommand) outputTable(cmd *cobra.Command, products []iface.Product) error {
	out := cmd.OutOrStdout()
	if len(products) == 0 {
		fmt.Fprintln(out, "No products found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSKU\tNAME\tPRICE\tSTOCK")
	fmt.Fprintln(w, "--\t---\t----\t-----\t-----")

	for _, p := range products {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
			p.ID,
			p.SKU,
			p.Name,
			formatMoney(p.Price, p.Currency),
			p.Stock,
		)
	}

	return w.Flush()
}

// ProductsGetCommand represents the products get command
type ProductsGetCommand struct {
	parent *ProductsCommand
	cmd    *cobra.Command
}

// NewProductsGetCommand creates a new products get command
func NewProductsGetCommand(parent *ProductsCommand) *ProductsGetCommand {
	g := &ProductsGetCommand{
		parent: parent,
	}

	g.cmd = &cobra.Command{
		Use:   "get <product-id>",
		Short: "Get a product by ID",
		Long: `Get detailed information about a specific product.

Examples:
  storefront products get prod-123
  storefront products get prod-123 -o yaml`,
		Args: cobra.ExactArgs(1),
		RunE: g.Run,
	}

	return g
}

// Command returns the underlying cobra command
func (g *ProductsGetCommand) Command() *cobra.Command {
	return g.cmd
}

// Run executes the products get command
func (g *ProductsGetCommand) Run(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	product, err := g.parent.Root().Container().ProductService().GetProduct(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format != formatText {
		return writeStructured(out, format, product)
	}

	fmt.Fprintf(out, "Product:  %s\n", product.Name)
	fmt.Fprintf(out, "ID:       %s\n", product.ID)
	fmt.Fprintf(out, "SKU:      %s\n", product.SKU)
	fmt.Fprintf(out, "Price:    %s\n", formatMoney(product.Price, product.Currency))
	fmt.Fprintf(out, "Stock:    %d\n", product.Stock)
	if product.Category != "" {
		fmt.Fprintf(out, "Category: %s\n", product.Category)
	}
	if product.Description != "" {
		fmt.Fprintf(out, "\n%s\n", product.Description)
	}
	return nil
}

// ProductsDeleteCommand represents the products delete command
type ProductsDeleteCommand struct {
	parent *ProductsCommand
	cmd    *cobra.Command
}

// NewProductsDeleteCommand creates a new products delete command
func NewProductsDeleteCommand(parent *ProductsCommand) *ProductsDeleteCommand {
	d := &ProductsDeleteCommand{
		parent: parent,
	}

	d.cmd = &cobra.Command{
		Use:   "delete <product-id>",
		Short: "Delete a product",
		Long: `Delete a product from the catalog.

WARNING: This action is irreversible.

Examples:
  storefront products delete prod-123
  storefront products delete prod-123 --yes`,
		Args: cobra.ExactArgs(1),
		RunE: d.Run,
	}

	d.cmd.Flags().BoolP("yes", "y", false, "Skip confirmation prompt")

	return d
}

// Command returns the underlying cobra command
func (d *ProductsDeleteCommand) Command() *cobra.Command {
	return d.cmd
}

// Run executes the products delete command
func (d *ProductsDeleteCommand) Run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	productService := d.parent.Root().Container().ProductService()

	product, err := productService.GetProduct(ctx, args[0])
	if err != nil {
		return err
	}

	skipConfirm, _ := cmd.Flags().GetBool("yes")
	if !skipConfirm {
		fmt.Fprintf(out, "\n⚠️  WARNING: You are about to delete the following product:\n\n")
		fmt.Fprintf(out, "  Name:  %s\n", product.Name)
		fmt.Fprintf(out, "  ID:    %s\n", product.ID)
		fmt.Fprintf(out, "  SKU:   %s\n", product.SKU)

		var confirm bool
		if err := survey.AskOne(&survey.Confirm{
			Message: fmt.Sprintf("Are you sure you want to delete product \"%s\"?", product.Name),
			Default: false,
		}, &confirm); err != nil {
			return err
		}

		if !confirm {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	if err := productService.DeleteProduct(ctx, product.ID); err != nil {
		return err
	}

	fmt.Fprintf(out, "✓ Product \"%s\" deleted.\n", product.Name)
	return nil
}
