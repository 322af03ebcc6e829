package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/futig/examgenie/internal/entity"
	"github.com/futig/examgenie/internal/pkg/logger"
	"github.com/futig/examgenie/internal/terminal"
	"github.com/spf13/cobra"
)

type credentials struct {
	username string
	email    string
	password string
}

// readMissing prompts on the command's input for an empty field
func readMissing(cmd *cobra.Command, in *bufio.Scanner, label string, value *string) error {
	if *value != "" {
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: ", label)
	if !in.Scan() {
		if err := in.Err(); err != nil {
			return err
		}
		return fmt.Errorf("%w: %s", entity.ErrMissingField, strings.ToLower(label))
	}
	*value = strings.TrimSpace(in.Text())
	return nil
}

func newLoginCommand(opts *rootOptions) *cobra.Command {
	c := &credentials{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the account name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := logger.WithAction(cmd.Context(), "login")
			deps := opts.deps

			in := bufio.NewScanner(cmd.InOrStdin())
			if err := readMissing(cmd, in, "Email", &c.email); err != nil {
				return err
			}
			if err := readMissing(cmd, in, "Password", &c.password); err != nil {
				return err
			}

			account, err := deps.Backend.Login(ctx, c.email, c.password)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}
			if err := deps.Preferences.Login(ctx, account.Name); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", account.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&c.email, "email", "", "account email")
	cmd.Flags().StringVar(&c.password, "password", "", "account password (prompted when empty)")

	return cmd
}

func newRegisterCommand(opts *rootOptions) *cobra.Command {
	c := &credentials{}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account on the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := logger.WithAction(cmd.Context(), "register")

			in := bufio.NewScanner(cmd.InOrStdin())
			for _, f := range []struct {
				label string
				value *string
			}{
				{"Username", &c.username},
				{"Email", &c.email},
				{"Password", &c.password},
			} {
				if err := readMissing(cmd, in, f.label, f.value); err != nil {
					return err
				}
			}

			msg, err := opts.deps.Backend.Register(ctx, entity.RegisterRequest{
				Username: c.username,
				Email:    c.email,
				Password: c.password,
			})
			if err != nil {
				return fmt.Errorf("register: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}

	cmd.Flags().StringVar(&c.username, "username", "", "display name")
	cmd.Flags().StringVar(&c.email, "email", "", "account email")
	cmd.Flags().StringVar(&c.password, "password", "", "account password (prompted when empty)")

	return cmd
}

func newLogoutCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the logged-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.deps.Preferences.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the account header",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printHeader(cmd, opts)
		},
	}
}

func newThemeCommand(opts *rootOptions) *cobra.Command {
	var show bool

	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Toggle the light/dark theme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !show {
				if _, err := opts.deps.Preferences.ToggleTheme(cmd.Context()); err != nil {
					return err
				}
			}
			return printHeader(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&show, "show", false, "print the current theme without toggling")
	return cmd
}

func printHeader(cmd *cobra.Command, opts *rootOptions) error {
	header, err := opts.deps.Preferences.Header(cmd.Context())
	if err != nil {
		return err
	}
	r := terminal.NewRenderer(cmd.OutOrStdout(), header.Theme, terminal.WithColor(colorEnabled(opts)))
	r.RenderHeader(header)
	return nil
}
