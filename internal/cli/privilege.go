package cli

import (
	"context"

	"github.com/spf13/cobra"

	grademywork "github.com/ThierrySans/grademywork-sub000"
)

// privilegeCommand creates the privilege command group.
func (c *CLI) privilegeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "privilege",
		Short: "Manage who can access a sheet",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list USERNAME CAPTION SHEET",
		Short: "List the privileges of a sheet",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, client *grademywork.Client) (interface{}, error) {
				return client.GetPrivileges(ctx, args[0], args[1], args[2])
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add USERNAME CAPTION SHEET EMAIL TYPE",
		Short: "Grant EMAIL a privilege on a sheet",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.exec(cmd, "Privilege granted", func(ctx context.Context, client *grademywork.Client) error {
				return client.AddPrivilege(ctx, args[0], args[1], args[2], args[3], grademywork.PrivilegeType(args[4]))
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "remove USERNAME CAPTION SHEET EMAIL TYPE",
		Aliases: []string{"rm"},
		Short:   "Revoke a privilege on a sheet",
		Args:    cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.exec(cmd, "Privilege revoked", func(ctx context.Context, client *grademywork.Client) error {
				return client.DeletePrivilege(ctx, args[0], args[1], args[2], args[3], grademywork.PrivilegeType(args[4]))
			})
		},
	})

	return cmd
}
