package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dgallion1/pdfmark/internal/config"
	"github.com/dgallion1/pdfmark/internal/parser"
	"github.com/dgallion1/pdfmark/internal/pipeline"
)

var convertCmd = &cobra.Command{
	Use:   "convert <file.pdf>...",
	Short: "Convert PDF files to Markdown",
	Long: `Convert writes one Markdown file per PDF. By default the output is placed
next to the input with the extension replaced by ".md". Use --output for a
single input or --out-dir to collect all outputs in one directory.

Exits non-zero if any file fails to convert.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringP("output", "o", "", "output path (single input only)")
	convertCmd.Flags().String("out-dir", "", "directory for the converted files")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	outDir, _ := cmd.Flags().GetString("out-dir")
	if output != "" && len(args) > 1 {
		return fmt.Errorf("--output accepts a single input, got %d", len(args))
	}
	if output != "" && outDir != "" {
		return fmt.Errorf("--output and --out-dir are mutually exclusive")
	}

	cfg := config.Load(v)
	conv := &pipeline.FileConverter{
		Options:   parser.Options{FallbackPdftotext: cfg.PDFFallbackPdftotext},
		Generator: cfg.Generator,
		Log:       slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil)),
	}
	out := cmd.OutOrStdout()

	var batch pipeline.BatchResult
	if output != "" {
		res := conv.Convert(args[0], output)
		if res.OK() {
			fmt.Fprintf(out, "converted: %s -> %s (%d pages, %d headings)\n",
				args[0], res.OutputPath(), res.Pages, res.Headings)
		} else {
			fmt.Fprintf(out, "failed:    %s (%s)\n", args[0], res.Error)
		}
		batch = pipeline.NewBatchResult([]pipeline.Result{res})
	} else {
		batch = conv.ConvertAll(args, outDir, out)
	}

	if batch.Failed > 0 {
		return fmt.Errorf("%d of %d files failed to convert", batch.Failed, batch.Total)
	}
	return nil
}
