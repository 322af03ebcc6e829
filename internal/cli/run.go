package cli

import (
	"errors"

	"github.com/futig/examgenie/internal/entity"
	"github.com/futig/examgenie/internal/pkg/formatter"
	"github.com/futig/examgenie/internal/pkg/logger"
	"github.com/spf13/cobra"
)

var errDownloadFailed = errors.New("artifact download failed")

type runOptions struct {
	download bool
	exports  []string
}

func newRunCommand(opts *rootOptions) *cobra.Command {
	ro := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run <file>...",
		Short: "Upload files, predict and download in one go",
		Example: `  examgenie run papers/2022.pdf papers/2023.pdf
  examgenie run "scans/*.jpg" --export md,xlsx --download=false`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, opts, ro, args)
		},
	}

	cmd.Flags().BoolVar(&ro.download, "download", true, "save the generated PDF")
	cmd.Flags().StringSliceVar(&ro.exports, "export", nil, "also export locally (md, pdf, docx, xlsx)")

	return cmd
}

func runPipeline(cmd *cobra.Command, opts *rootOptions, ro *runOptions, paths []string) error {
	ctx := logger.WithAction(cmd.Context(), "run")

	formats := make([]entity.ExportFormat, 0, len(ro.exports))
	for _, e := range ro.exports {
		f, err := formatter.ParseFormat(e)
		if err != nil {
			return err
		}
		formats = append(formats, f)
	}

	wb, err := newWorkbench(cmd, opts)
	if err != nil {
		return err
	}

	files, errs := collectFiles(paths)
	for _, err := range errs {
		wb.renderer.Error(err)
	}
	if len(files) == 0 && len(errs) > 0 {
		return reported(errs[0])
	}

	if err := wb.ctrl.AddFiles(ctx, files); err != nil {
		return reported(err)
	}
	if err := wb.ctrl.Upload(ctx); err != nil {
		return reported(err)
	}
	if err := wb.ctrl.Predict(ctx); err != nil {
		return reported(err)
	}

	if ro.download {
		if err := wb.ctrl.Download(ctx); err != nil {
			return reported(err)
		}
		if wb.renderer.LastSaved() == "" {
			return reported(errDownloadFailed)
		}
	}

	for _, format := range formats {
		path, err := exportPrediction(wb.ctrl.Prediction(), format, opts.deps.Config.DownloadDir)
		if err != nil {
			return err
		}
		wb.renderer.Println("Exported " + path)
	}

	return nil
}
