package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/futig/examgenie/internal/terminal"
	"github.com/futig/examgenie/internal/workflow"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	env     string
	noColor bool
	deps    *Deps
}

// reportedError marks errors that were already shown to the user
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	if err == nil {
		return nil
	}
	return &reportedError{err: err}
}

// NewRootCommand builds the examgenie command tree. Without a subcommand it starts the shell.
func NewRootCommand(build BuildFunc) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "examgenie",
		Short: "Predict upcoming exam papers from previous ones",
		Long: `ExamGenie uploads previous exam papers (PDF or images) to the ExamGenie
backend, shows the extracted text, predicts the likely questions of the
next paper and downloads the generated PDF.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			deps, err := build(opts.env)
			if err != nil {
				return err
			}
			opts.deps = deps
			cmd.SetContext(ctxzap.ToContext(cmd.Context(), deps.Logger))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.deps != nil {
				_ = opts.deps.Logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.env, "env", "local", "environment, selects the .env.<env> file")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable ANSI colors")

	root.AddCommand(
		newShellCommand(opts),
		newRunCommand(opts),
		newThemeCommand(opts),
		newLoginCommand(opts),
		newRegisterCommand(opts),
		newLogoutCommand(opts),
		newWhoamiCommand(opts),
	)

	return root
}

// Execute runs the command tree and returns the process exit code
func Execute(ctx context.Context, build BuildFunc, args []string) int {
	root := NewRootCommand(build)
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		var rep *reportedError
		if !errors.As(err, &rep) {
			fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
		}
		return 1
	}
	return 0
}

// workbench is one workflow controller bound to a terminal renderer
type workbench struct {
	deps     *Deps
	ctrl     *workflow.Controller
	renderer *terminal.Renderer
}

func newWorkbench(cmd *cobra.Command, opts *rootOptions) (*workbench, error) {
	deps := opts.deps

	theme, err := deps.Preferences.Theme(cmd.Context())
	if err != nil {
		return nil, err
	}

	renderer := terminal.NewRenderer(cmd.OutOrStdout(), theme,
		terminal.WithColor(colorEnabled(opts)),
		terminal.WithDownloads(deps.Backend, deps.Config.DownloadDir),
	)

	return &workbench{
		deps:     deps,
		ctrl:     workflow.NewController(deps.Backend, renderer, deps.Validator),
		renderer: renderer,
	}, nil
}

func colorEnabled(opts *rootOptions) bool {
	if opts.noColor {
		return false
	}
	_, noColor := os.LookupEnv("NO_COLOR")
	return !noColor
}
