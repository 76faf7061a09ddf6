package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	grademywork "github.com/ThierrySans/grademywork-sub000"
)

// assessmentCommand creates the assessment command group.
func (c *CLI) assessmentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "assessment",
		Aliases: []string{"a"},
		Short:   "Manage assessments",
	}

	cmd.AddCommand(c.assessmentGetCommand())
	cmd.AddCommand(c.assessmentNewCommand())
	cmd.AddCommand(c.assessmentRenameCommand())
	cmd.AddCommand(c.assessmentStatsCommand())
	cmd.AddCommand(c.assessmentDeleteCommand())
	cmd.AddCommand(c.assessmentToggleCommand("public", "Make an assessment visible to everyone or not", (*grademywork.Client).SetPublic))
	cmd.AddCommand(c.assessmentToggleCommand("archive", "Archive or unarchive an assessment", (*grademywork.Client).SetArchive))
	cmd.AddCommand(c.assessmentToggleCommand("release", "Release grades to students or withdraw them", (*grademywork.Client).SetRelease))

	return cmd
}

func (c *CLI) assessmentGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get USERNAME CAPTION",
		Short: "Print an assessment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, client *grademywork.Client) (interface{}, error) {
				return client.GetAssessment(ctx, args[0], args[1])
			})
		},
	}
}

func (c *CLI) assessmentNewCommand() *cobra.Command {
	var (
		public  bool
		rubrics string
		sheets  string
	)
	cmd := &cobra.Command{
		Use:   "new USERNAME CAPTION",
		Short: "Create an assessment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := grademywork.AssessmentInput{IsPublic: public}
			if rubrics != "" {
				raw, err := readJSON(cmd.InOrStdin(), rubrics)
				if err != nil {
					return fmt.Errorf("rubrics: %w", err)
				}
				input.Rubrics = raw
			}
			if sheets != "" {
				raw, err := readJSON(cmd.InOrStdin(), sheets)
				if err != nil {
					return fmt.Errorf("sheets: %w", err)
				}
				if err := json.Unmarshal(raw, &input.Sheets); err != nil {
					return fmt.Errorf("sheets: %w", err)
				}
			}
			return c.exec(cmd, "Assessment created", func(ctx context.Context, client *grademywork.Client) error {
				return client.NewAssessment(ctx, args[0], args[1], input)
			})
		},
	}
	cmd.Flags().BoolVar(&public, "public", false, "make the assessment visible to everyone")
	cmd.Flags().StringVar(&rubrics, "rubrics", "", "JSON file with the rubrics (- for stdin)")
	cmd.Flags().StringVar(&sheets, "sheets", "", "JSON file with the sheets (- for stdin)")
	return cmd
}

func (c *CLI) assessmentRenameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rename USERNAME CAPTION NEW_CAPTION",
		Short: "Rename an assessment",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.exec(cmd, "Assessment renamed", func(ctx context.Context, client *grademywork.Client) error {
				return client.UpdateAssessment(ctx, args[0], args[1], args[2])
			})
		},
	}
}

func (c *CLI) assessmentStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats USERNAME CAPTION",
		Short: "Print the statistics of an assessment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, client *grademywork.Client) (interface{}, error) {
				return client.GetAssessmentStats(ctx, args[0], args[1])
			})
		},
	}
}

func (c *CLI) assessmentDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete USERNAME CAPTION",
		Short: "Delete an assessment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.exec(cmd, "Assessment deleted", func(ctx context.Context, client *grademywork.Client) error {
				return client.DeleteAssessment(ctx, args[0], args[1])
			})
		},
	}
}

type toggleFunc func(client *grademywork.Client, ctx context.Context, username, caption string, on bool) error

func (c *CLI) assessmentToggleCommand(name, short string, toggle toggleFunc) *cobra.Command {
	return &cobra.Command{
		Use:   name + " USERNAME CAPTION true|false",
		Short: short,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			on, err := parseBool(args[2])
			if err != nil {
				return err
			}
			return c.exec(cmd, "Assessment updated", func(ctx context.Context, client *grademywork.Client) error {
				return toggle(client, ctx, args[0], args[1], on)
			})
		},
	}
}

// readJSON reads a JSON document from path, or from stdin when path is "-".
func readJSON(stdin io.Reader, path string) (jsoniter.RawMessage, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	if !isJSON(data) {
		return nil, fmt.Errorf("%s is not valid JSON", path)
	}
	return jsoniter.RawMessage(data), nil
}
