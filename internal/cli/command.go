package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	log_records_managing "logkeeper/internal/features/log_records/managing"

	"github.com/spf13/cobra"
)

const (
	outputText = "text"
	outputJSON = "json"
)

type ContentImporter interface {
	ImportContent(ctx context.Context, content []byte) (*log_records_managing.ImportSummary, error)
}

type ImportOptions struct {
	Format   string
	IsAtomic bool
	Timeout  time.Duration
}

// ImporterFactory builds the importer once flags are parsed.
type ImporterFactory func(options ImportOptions) (ContentImporter, error)

var ErrImportHadFailures = errors.New("some records were not imported")

func NewRootCommand(factory ImporterFactory, defaults ImportOptions) *cobra.Command {
	options := defaults
	output := outputText

	cmd := &cobra.Command{
		Use:   "logkeeper-import [glob...]",
		Short: "Import legacy batch files into LogKeeper",
		Long: `Reads every file matching the given patterns (recursive "**" supported),
inflates gzip or zstd compressed files and stores each line as a log record.
Invalid lines are reported and skipped, they never block the rest of the file.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var renderer SummaryRenderer
			switch output {
			case outputText:
				renderer = NewTextRenderer(cmd.OutOrStdout())
			case outputJSON:
				renderer = NewJSONRenderer(cmd.OutOrStdout())
			default:
				return fmt.Errorf("unknown output %q, use text or json", output)
			}

			files, err := ExpandPatterns(args)
			if err != nil {
				return err
			}

			importer, err := factory(options)
			if err != nil {
				return err
			}

			return ImportFiles(cmd.Context(), importer, files, renderer)
		},
	}

	cmd.Flags().StringVarP(&options.Format, "format", "f", options.Format, "line format: pipe, jsonl")
	cmd.Flags().BoolVar(&options.IsAtomic, "atomic", options.IsAtomic, "store each file in one transaction")
	cmd.Flags().DurationVar(&options.Timeout, "timeout", options.Timeout, "time limit per file, 0 disables it")
	cmd.Flags().StringVarP(&output, "output", "o", output, "output format: text, json")

	return cmd
}

// ImportFiles imports files one by one. A failing file does not stop the
// others, the returned error tells whether anything went wrong.
func ImportFiles(
	ctx context.Context,
	importer ContentImporter,
	files []string,
	renderer SummaryRenderer,
) error {
	hasFailures := false

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return err
		}

		content, err := os.ReadFile(path)
		if err != nil {
			hasFailures = true
			if renderErr := renderer.RenderFailure(path, err); renderErr != nil {
				return renderErr
			}
			continue
		}

		summary, err := importer.ImportContent(ctx, content)
		if summary != nil {
			if renderErr := renderer.Render(path, summary); renderErr != nil {
				return renderErr
			}
			hasFailures = hasFailures || summary.Failed > 0
		}

		if err != nil {
			if summary == nil {
				hasFailures = true
				if renderErr := renderer.RenderFailure(path, err); renderErr != nil {
					return renderErr
				}
			}

			if errors.Is(err, context.Canceled) {
				return err
			}
		}
	}

	if hasFailures {
		return ErrImportHadFailures
	}

	return nil
}
