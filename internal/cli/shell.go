package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/futig/examgenie/internal/entity"
	"github.com/futig/examgenie/internal/pkg/formatter"
	"github.com/futig/examgenie/internal/pkg/logger"
	"github.com/spf13/cobra"
)

const prompt = "examgenie> "

const shellHelp = `Commands:
  add <file>...          add PDF or image files (globs allowed)
  remove <n>             remove file number n from the selection
  list                   show the selection
  upload                 extract text from the selected files
  predict                predict the next exam paper
  show                   show everything collected so far
  download               save the generated PDF into the download directory
  export <md|pdf|docx|xlsx>
                         save the prediction locally in another format
  reset                  start over
  theme                  toggle light/dark theme
  header                 show the account header
  login <email> [password]
  logout
  help
  quit`

func newShellCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive session (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, opts)
		},
	}
}

type shell struct {
	*workbench
	in  *bufio.Scanner
	out io.Writer
}

func runShell(cmd *cobra.Command, opts *rootOptions) error {
	wb, err := newWorkbench(cmd, opts)
	if err != nil {
		return err
	}

	s := &shell{
		workbench: wb,
		in:        bufio.NewScanner(cmd.InOrStdin()),
		out:       cmd.OutOrStdout(),
	}
	return s.run(logger.WithAction(cmd.Context(), "shell"))
}

func (s *shell) run(ctx context.Context) error {
	s.showHeader(ctx)
	s.renderer.Println("Type 'help' for commands.")

	for {
		fmt.Fprint(s.out, prompt)
		if !s.in.Scan() {
			fmt.Fprintln(s.out)
			return s.in.Err()
		}

		args, err := splitArgs(s.in.Text())
		if err != nil {
			s.renderer.Error(err)
			continue
		}
		if len(args) == 0 {
			continue
		}

		if quit := s.exec(ctx, args[0], args[1:]); quit {
			return nil
		}
	}
}

// exec runs one shell command. Workflow failures are already rendered as
// notices, so only errors outside the workflow are printed here.
func (s *shell) exec(ctx context.Context, name string, args []string) bool {
	switch strings.ToLower(name) {
	case "add":
		s.add(ctx, args)
	case "remove", "rm":
		s.remove(ctx, args)
	case "list", "ls":
		s.ctrl.ListFiles(ctx)
	case "upload":
		_ = s.ctrl.Upload(ctx)
	case "predict":
		_ = s.ctrl.Predict(ctx)
	case "show":
		s.ctrl.Refresh(ctx)
	case "download":
		_ = s.ctrl.Download(ctx)
	case "export":
		s.export(args)
	case "reset":
		s.ctrl.Reset(ctx)
	case "theme":
		s.toggleTheme(ctx)
	case "header":
		s.showHeader(ctx)
	case "login":
		s.login(ctx, args)
	case "logout":
		s.logout(ctx)
	case "help", "?":
		s.renderer.Println(shellHelp)
	case "quit", "exit", "q":
		return true
	default:
		s.renderer.Error(fmt.Errorf("unknown command %q, type 'help'", name))
	}
	return false
}

func (s *shell) add(ctx context.Context, args []string) {
	if len(args) == 0 {
		s.renderer.Error(errors.New("usage: add <file>..."))
		return
	}

	files, errs := collectFiles(args)
	for _, err := range errs {
		s.renderer.Error(err)
	}
	if len(files) == 0 {
		return
	}
	_ = s.ctrl.AddFiles(ctx, files)
}

func (s *shell) remove(ctx context.Context, args []string) {
	if len(args) != 1 {
		s.renderer.Error(errors.New("usage: remove <n>"))
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		s.renderer.Error(fmt.Errorf("%q is not a file number", args[0]))
		return
	}
	_ = s.ctrl.RemoveFile(ctx, n-1)
}

func (s *shell) export(args []string) {
	if len(args) != 1 {
		s.renderer.Error(errors.New("usage: export <md|pdf|docx|xlsx>"))
		return
	}
	format, err := formatter.ParseFormat(args[0])
	if err != nil {
		s.renderer.Error(err)
		return
	}

	path, err := exportPrediction(s.ctrl.Prediction(), format, s.deps.Config.DownloadDir)
	if errors.Is(err, entity.ErrNoPrediction) {
		s.renderer.Error(errors.New("No prediction available to export."))
		return
	}
	if err != nil {
		s.renderer.Error(err)
		return
	}
	s.renderer.Println("Exported " + path)
}

func (s *shell) toggleTheme(ctx context.Context) {
	theme, err := s.deps.Preferences.ToggleTheme(ctx)
	if err != nil {
		s.renderer.Error(err)
		return
	}
	s.renderer.SetTheme(theme)
	s.showHeader(ctx)
}

func (s *shell) showHeader(ctx context.Context) {
	header, err := s.deps.Preferences.Header(ctx)
	if err != nil {
		s.renderer.Error(err)
		return
	}
	s.renderer.RenderHeader(header)
}

func (s *shell) login(ctx context.Context, args []string) {
	if len(args) == 0 || len(args) > 2 {
		s.renderer.Error(errors.New("usage: login <email> [password]"))
		return
	}

	password := ""
	if len(args) == 2 {
		password = args[1]
	} else {
		fmt.Fprint(s.out, "Password: ")
		if !s.in.Scan() {
			return
		}
		password = s.in.Text()
	}

	account, err := s.deps.Backend.Login(ctx, args[0], password)
	if err != nil {
		s.renderer.Error(err)
		return
	}
	if err := s.deps.Preferences.Login(ctx, account.Name); err != nil {
		s.renderer.Error(err)
		return
	}
	s.showHeader(ctx)
}

func (s *shell) logout(ctx context.Context) {
	if err := s.deps.Preferences.Logout(ctx); err != nil {
		s.renderer.Error(err)
		return
	}
	s.showHeader(ctx)
}
