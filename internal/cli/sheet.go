package cli

import (
	"context"

	"github.com/spf13/cobra"

	grademywork "github.com/ThierrySans/grademywork-sub000"
)

// sheetCommand creates the sheet command group.
func (c *CLI) sheetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheet",
		Short: "Manage the sheets of an assessment",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get USERNAME CAPTION SHEET",
		Short: "Print a sheet",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, client *grademywork.Client) (interface{}, error) {
				return client.GetSheet(ctx, args[0], args[1], args[2])
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add USERNAME CAPTION SHEET",
		Short: "Add a sheet to an assessment",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.exec(cmd, "Sheet added", func(ctx context.Context, client *grademywork.Client) error {
				return client.AddSheet(ctx, args[0], args[1], args[2])
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename USERNAME CAPTION SHEET NEW_CAPTION",
		Short: "Rename a sheet",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.exec(cmd, "Sheet renamed", func(ctx context.Context, client *grademywork.Client) error {
				return client.UpdateSheet(ctx, args[0], args[1], args[2], args[3])
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete USERNAME CAPTION SHEET",
		Short: "Delete a sheet",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.exec(cmd, "Sheet deleted", func(ctx context.Context, client *grademywork.Client) error {
				return client.DeleteSheet(ctx, args[0], args[1], args[2])
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "answer USERNAME CAPTION SHEET QUESTION ANSWER",
		Short: "Record an answer; ANSWER is sent as JSON when it parses, as a string otherwise",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			answer := parseAnswer(args[4])
			return c.exec(cmd, "Answer recorded", func(ctx context.Context, client *grademywork.Client) error {
				return client.SetAnswer(ctx, args[0], args[1], args[2], args[3], answer)
			})
		},
	})

	return cmd
}
