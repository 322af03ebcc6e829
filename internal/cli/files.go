package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/futig/examgenie/internal/entity"
)

// collectFiles stats every path, expanding it as a glob pattern only when no
// file exists under the literal name. Paths that cannot be read are returned
// as errors; extension checks are left to the workflow.
func collectFiles(paths []string) ([]entity.SelectedFile, []error) {
	var (
		files []entity.SelectedFile
		errs  []error
	)

	for _, p := range paths {
		matches := []string{p}
		if _, err := os.Stat(p); err != nil && strings.ContainsAny(p, "*?[") {
			found, err := filepath.Glob(p)
			if err != nil {
				errs = append(errs, fmt.Errorf("pattern %q: %w", p, err))
				continue
			}
			if len(found) == 0 {
				errs = append(errs, fmt.Errorf("no files match %q", p))
				continue
			}
			matches = found
		}

		for _, m := range matches {
			f, err := entity.FileFromPath(m)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			files = append(files, f)
		}
	}

	return files, errs
}

// splitArgs splits a shell line on whitespace, keeping quoted sections together.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		current strings.Builder
		quote   rune
		inArg   bool
	)

	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}
			current.WriteRune(r)
		case r == '"' || r == '\'':
			quote = r
			inArg = true
		case r == ' ' || r == '\t':
			if inArg {
				args = append(args, current.String())
				current.Reset()
				inArg = false
			}
		default:
			current.WriteRune(r)
			inArg = true
		}
	}

	if quote != 0 {
		return nil, fmt.Errorf("unterminated quote in %q", line)
	}
	if inArg {
		args = append(args, current.String())
	}
	return args, nil
}
