package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/futig/examgenie/internal/entity"
	"github.com/futig/examgenie/internal/pkg/validator"
	"github.com/futig/examgenie/internal/preferences"
	"github.com/futig/examgenie/internal/workflow"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/olekukonko/tablewriter"
	"go.uber.org/zap"
)

// Downloader fetches an artifact by reference
type Downloader interface {
	Download(ctx context.Context, ref string, w io.Writer) (int64, error)
}

var busyMessages = map[workflow.Phase]string{
	workflow.PhaseUpload:  "Uploading and extracting text...",
	workflow.PhasePredict: "Analyzing papers and predicting questions...",
}

// Renderer prints workflow effects to a terminal
type Renderer struct {
	mu          sync.Mutex
	out         io.Writer
	palette     Palette
	color       bool
	downloader  Downloader
	downloadDir string

	uploadVisible bool
	lastSaved     string
}

type Option func(*Renderer)

// WithColor enables ANSI colors
func WithColor(enabled bool) Option {
	return func(r *Renderer) {
		r.color = enabled
	}
}

// WithDownloads lets OpenDownload effects save artifacts into dir
func WithDownloads(d Downloader, dir string) Option {
	return func(r *Renderer) {
		r.downloader = d
		r.downloadDir = dir
	}
}

func NewRenderer(out io.Writer, theme entity.Theme, opts ...Option) *Renderer {
	r := &Renderer{out: out}
	for _, opt := range opts {
		opt(r)
	}
	r.palette = PaletteFor(theme, r.color)
	return r
}

// SetTheme switches the palette used from now on
func (r *Renderer) SetTheme(theme entity.Theme) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.palette = PaletteFor(theme, r.color)
}

// LastSaved returns the path of the last downloaded artifact
func (r *Renderer) LastSaved() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastSaved
}

func (r *Renderer) Apply(ctx context.Context, effect workflow.Effect) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch e := effect.(type) {
	case workflow.RenderFileList:
		r.renderFileList(e.Items)
	case workflow.SetUploadAction:
		if e.Visible && !r.uploadVisible {
			r.printf("%s\n", r.palette.paint(r.palette.Muted, "Type 'upload' to extract text from the selected files."))
		}
		r.uploadVisible = e.Visible
	case workflow.SetBusy:
		if e.Busy {
			r.printf("%s\n", r.palette.paint(r.palette.Muted, "⏳ "+busyMessages[e.Phase]))
		}
	case workflow.RenderExtracted:
		r.renderExtracted(e.Previews)
	case workflow.RenderPrediction:
		r.renderPrediction(e.View)
	case workflow.Reveal:
		r.renderReveal(e.Region)
	case workflow.OpenDownload:
		r.download(ctx, e)
	case workflow.Notify:
		r.renderNotice(e.Notice)
	}
}

func (r *Renderer) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

func (r *Renderer) title(s string) {
	r.printf("\n%s\n", r.palette.paint(r.palette.Title, s))
}

func (r *Renderer) renderFileList(items []workflow.FileListItem) {
	if len(items) == 0 {
		r.printf("%s\n", r.palette.paint(r.palette.Muted, "No files selected."))
		return
	}

	r.title("Selected files")
	table := tablewriter.NewWriter(r.out)
	table.SetHeader([]string{"#", "", "Name", "Size"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	for _, item := range items {
		table.Append([]string{strconv.Itoa(item.Index + 1), item.Icon, item.Name, item.Size})
	}
	table.Render()
}

func (r *Renderer) renderExtracted(previews []workflow.TextPreview) {
	r.title("Extracted text")
	for _, p := range previews {
		r.printf("\n%s\n%s\n", r.palette.paint(r.palette.Accent, "📄 "+p.Filename), p.Text)
	}
}

func (r *Renderer) renderPrediction(view workflow.PredictionView) {
	r.title("Predicted exam paper")
	r.printf("Papers analyzed: %d\n", view.PapersAnalyzed)
	r.printf("Questions found: %d\n", view.QuestionsFound)
	r.printf("Generated:       %s\n", view.GeneratedDate)

	if len(view.Topics) > 0 {
		r.title("Top topics")
		for _, t := range view.Topics {
			r.printf("  • %s\n", t.String())
		}
	}

	for _, s := range view.Sections {
		r.title(s.Section)
		for _, q := range s.Questions {
			r.printf("  %s\n", q)
		}
	}
}

func (r *Renderer) renderReveal(region workflow.Region) {
	switch region {
	case workflow.RegionExtracted:
		r.printf("\n%s\n", r.palette.paint(r.palette.Muted, "Type 'predict' to generate the predicted paper."))
	case workflow.RegionPrediction:
		r.printf("\n%s\n", r.palette.paint(r.palette.Muted, "Type 'download' for the PDF or 'export <format>' to save it locally."))
	}
}

func (r *Renderer) renderNotice(n workflow.Notice) {
	switch n.Kind {
	case workflow.NoticeValidation:
		r.printf("%s\n", r.palette.paint(r.palette.Warning, "⚠ "+n.Message))
	default:
		r.printf("%s\n", r.palette.paint(r.palette.Error, "✖ "+n.Message))
	}
}

func (r *Renderer) download(ctx context.Context, e workflow.OpenDownload) {
	if r.downloader == nil {
		r.printf("Download: %s\n", e.URL)
		return
	}

	path, n, err := SaveArtifact(ctx, r.downloader, r.downloadDir, e.Ref)
	if err != nil {
		ctxzap.Warn(ctx, "artifact download failed", zap.String("artifact", e.Ref), zap.Error(err))
		r.renderNotice(workflow.Notice{
			Kind:    workflow.NoticeTransport,
			Phase:   workflow.PhaseDownload,
			Message: "Download failed: " + errorMessage(err),
			Err:     err,
		})
		return
	}

	r.lastSaved = path
	r.printf("%s\n", r.palette.paint(r.palette.Success, fmt.Sprintf("✔ Saved %s (%s)", path, workflow.FormatFileSize(n))))
}

// RenderHeader prints the header line for the current preferences
func (r *Renderer) RenderHeader(h preferences.Header) {
	r.mu.Lock()
	defer r.mu.Unlock()

	brand := r.palette.paint(r.palette.Title, "ExamGenie")
	switch h.Variant {
	case preferences.HeaderLoggedIn:
		r.printf("%s  %s  %s  [logout]\n", brand, h.ThemeIcon, "Welcome, "+h.UserName)
	default:
		r.printf("%s  [login]  [theme %s]\n", brand, h.ThemeIcon)
	}
}

// Println prints a plain line under the renderer's lock
func (r *Renderer) Println(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.printf("%s\n", s)
}

// Error prints an error line
func (r *Renderer) Error(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.printf("%s\n", r.palette.paint(r.palette.Error, "✖ "+errorMessage(err)))
}

// SaveArtifact downloads ref into dir and returns the written path and size.
// A partially written file is removed on failure.
func SaveArtifact(ctx context.Context, d Downloader, dir, ref string) (string, int64, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("create download dir: %w", err)
	}

	path := filepath.Join(dir, validator.SanitizeFilename(ref))
	f, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("create %s: %w", path, err)
	}

	n, err := d.Download(ctx, ref, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", 0, err
	}
	return path, n, nil
}

func errorMessage(err error) string {
	var appErr *entity.ApplicationError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return strings.TrimSpace(err.Error())
}
