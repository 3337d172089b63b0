package cmd

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// EnvPassword supplies the login password non-interactively
const EnvPassword = "STOREFRONT_PASSWORD"

// LoginCommand represents the login command
type LoginCommand struct {
	root *RootCommand
	cmd  *cobra.Command
}

// NewLoginCommand creates a new login command
func NewLoginCommand(root *RootCommand) *LoginCommand {
	l := &LoginCommand{
		root: root,
	}

	l.cmd = &cobra.Command{
		Use:   "login",
		Short: "Sign in to Storefront",
		Long: `Sign in to the Storefront admin API with your email and password.

You will be prompted for anything not given on the command line. The password
can also be supplied through the STOREFRONT_PASSWORD environment variable.
After a successful sign-in, your credentials are stored locally.

Example:
  storefront login
  storefront login --email admin@example.com`,
		Args: cobra.NoArgs,
		RunE: l.Run,
	}

	l.cmd.Flags().String("email", "", "Account email")

	return l
}

// Command returns the underlying cobra command
func (l *LoginCommand) Command() *cobra.Command {
	return l.cmd
}

// Run executes the login command
func (l *LoginCommand) Run(cmd *cobra.Command, args []string) error {
	authService := l.root.Container().AuthService()

	email, _ := cmd.Flags().GetString("email")
	if email == "" {
		if err := survey.AskOne(&survey.Input{
			Message: "Email:",
		}, &email, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	}

	password := os.Getenv(EnvPassword)
	if password == "" {
		if err := survey.AskOne(&survey.Password{
			Message: "Password:",
		}, &password, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	}

	user, err := authService.Login(cmd.Context(), email, password)
	if err != nil {
		return err
	}

	name := user.DisplayName
	if name == "" {
		name = user.Email
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Signed in to Storefront as %s\n", name)
	return nil
}
