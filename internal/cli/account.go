package cli

import (
	"context"

	"github.com/spf13/cobra"

	grademywork "github.com/ThierrySans/grademywork-sub000"
)

// registerCommand creates the "register" command.
func (c *CLI) registerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "register EMAIL USERNAME",
		Short: "Create an account; a verification token is emailed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.exec(cmd, "Account registered, check your email for the token", func(ctx context.Context, client *grademywork.Client) error {
				return client.Register(ctx, args[0], args[1])
			})
		},
	}
}

// resetCommand creates the "reset" command.
func (c *CLI) resetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset EMAIL",
		Short: "Ask for a password reset token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.exec(cmd, "Reset requested, check your email for the token", func(ctx context.Context, client *grademywork.Client) error {
				return client.Reset(ctx, args[0])
			})
		},
	}
}

// verifyCommand creates the "verify" command.
func (c *CLI) verifyCommand() *cobra.Command {
	var pass string
	cmd := &cobra.Command{
		Use:   "verify EMAIL TOKEN",
		Short: "Set a password with an emailed token and sign in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := password(pass)
			if err != nil {
				return err
			}
			return c.run(cmd, func(ctx context.Context, client *grademywork.Client) (interface{}, error) {
				return client.Verify(ctx, args[0], p, args[1])
			})
		},
	}
	cmd.Flags().StringVar(&pass, "password", "", "new password (default $"+envPassword+")")
	return cmd
}

// loginCommand creates the "login" command.
func (c *CLI) loginCommand() *cobra.Command {
	var pass string
	cmd := &cobra.Command{
		Use:   "login EMAIL",
		Short: "Sign in; the session is kept for later commands",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := password(pass)
			if err != nil {
				return err
			}
			return c.run(cmd, func(ctx context.Context, client *grademywork.Client) (interface{}, error) {
				return client.Login(ctx, args[0], p)
			})
		},
	}
	cmd.Flags().StringVar(&pass, "password", "", "password (default $"+envPassword+")")
	return cmd
}

// logoutCommand creates the "logout" command.
func (c *CLI) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget its cookie",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openSession()
			if err != nil {
				return err
			}
			if err := s.client.Logout(cmd.Context()); err != nil {
				return err
			}
			if err := s.jar.Clear(); err != nil {
				return err
			}
			if err := s.jar.Save(); err != nil {
				return err
			}
			c.Logger.Info("Signed out")
			return nil
		},
	}
}

// whoamiCommand creates the "whoami" command.
func (c *CLI) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, client *grademywork.Client) (interface{}, error) {
				return client.GetUser(ctx)
			})
		},
	}
}

// passwordCommand creates the "password" command.
func (c *CLI) passwordCommand() *cobra.Command {
	var oldPassword, newPassword string
	cmd := &cobra.Command{
		Use:   "password USERNAME",
		Short: "Change the password of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, client *grademywork.Client) (interface{}, error) {
				return client.ChangePassword(ctx, args[0], oldPassword, newPassword)
			})
		},
	}
	cmd.Flags().StringVar(&oldPassword, "old", "", "current password")
	cmd.Flags().StringVar(&newPassword, "new", "", "new password")
	_ = cmd.MarkFlagRequired("old")
	_ = cmd.MarkFlagRequired("new")
	return cmd
}
