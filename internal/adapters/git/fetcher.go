// Package git materializes resolved formulas as git working copies under the
// vendor directory and links their exports into the generated salt root.
package git

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"

	"github.com/ministryofjustice/salt-shaker/internal/adapters/metadata"
	"github.com/ministryofjustice/salt-shaker/internal/core/domain"
	"github.com/ministryofjustice/salt-shaker/internal/core/ports"
)

const (
	vendorDir   = "vendor"
	reposDir    = "formula-repos"
	saltRootDir = "_root"
)

// dynamicDirs are the salt dynamic module directories merged across formulas
// into the salt root.
var dynamicDirs = []string{"_grains", "_modules", "_renderers", "_returners", "_states"}

// Fetcher implements ports.Fetcher by shelling out to git.
type Fetcher struct {
	log ports.Logger
}

// NewFetcher creates a git-backed formula fetcher.
func NewFetcher(log ports.Logger) *Fetcher {
	return &Fetcher{log: log}
}

// ReposPath returns the directory holding formula working copies.
func ReposPath(rootDir string) string {
	return filepath.Join(rootDir, vendorDir, reposDir)
}

// SaltRootPath returns the generated salt root directory.
func SaltRootPath(rootDir string) string {
	return filepath.Join(rootDir, vendorDir, saltRootDir)
}

// Prepare sets up the vendor layout. The salt root only holds links, so it is
// rebuilt from scratch on every run; working copies survive unless overwrite
// is set.
func (f *Fetcher) Prepare(rootDir string, overwrite bool) error {
	if overwrite {
		if err := os.RemoveAll(ReposPath(rootDir)); err != nil {
			return zerr.Wrap(err, "failed to clear formula working copies")
		}
	}
	if err := os.MkdirAll(ReposPath(rootDir), 0o755); err != nil {
		return zerr.Wrap(err, "failed to create vendor directory")
	}
	if err := os.RemoveAll(SaltRootPath(rootDir)); err != nil {
		return zerr.Wrap(err, "failed to clear salt root")
	}
	if err := os.MkdirAll(SaltRootPath(rootDir), 0o755); err != nil {
		return zerr.Wrap(err, "failed to create salt root")
	}
	return nil
}

// Fetch brings the formula's working copy to its pinned commit, cloning it
// first when absent. When no commit is pinned the tag is checked out instead.
func (f *Fetcher) Fetch(ctx context.Context, formula *domain.ResolvedFormula, rootDir string, out io.Writer) (bool, error) {
	repoDir := filepath.Join(ReposPath(rootDir), formula.Key.Name)

	if _, err := os.Stat(repoDir); err != nil {
		if !os.IsNotExist(err) {
			return false, zerr.With(zerr.Wrap(err, "failed to inspect working copy"), "path", repoDir)
		}
		if err := f.run(ctx, ReposPath(rootDir), out, "clone", formula.Key.SourceURL(), formula.Key.Name); err != nil {
			return false, err
		}
	} else if formula.Commit != "" {
		head, err := f.capture(ctx, repoDir, "rev-parse", "HEAD")
		if err != nil {
			return false, err
		}
		if head == formula.Commit {
			f.log.Debug(formula.Key.String() + " already at " + formula.Commit)
			return true, nil
		}
		if err := f.run(ctx, repoDir, out, "fetch", "--tags", "origin"); err != nil {
			return false, err
		}
	} else {
		if err := f.run(ctx, repoDir, out, "fetch", "--tags", "origin"); err != nil {
			return false, err
		}
	}

	target := formula.Commit
	if target == "" {
		target = formula.Tag
	}
	if err := f.run(ctx, repoDir, out, "checkout", "--quiet", target); err != nil {
		return false, err
	}
	return false, nil
}

// Link links the formula's exports and dynamic module contents into the salt
// root. The export list comes from the checked-out metadata file so that
// pinned installs see the exports of the pinned revision.
func (f *Fetcher) Link(formula *domain.ResolvedFormula, rootDir string) error {
	repoDir := filepath.Join(ReposPath(rootDir), formula.Key.Name)

	exports, err := f.exports(formula, repoDir)
	if err != nil {
		return err
	}
	for _, export := range exports {
		source := filepath.Join(repoDir, export)
		if _, err := os.Stat(source); err != nil {
			f.log.Warn("export " + export + " missing in " + formula.Key.String() + ", skipping")
			continue
		}
		link := filepath.Join(SaltRootPath(rootDir), export)
		if err := replaceSymlink(source, link); err != nil {
			return zerr.With(err, "formula", formula.Key.String())
		}
	}

	for _, dyn := range dynamicDirs {
		sourceDir := filepath.Join(repoDir, dyn)
		entries, err := os.ReadDir(sourceDir)
		if err != nil {
			continue
		}
		targetDir := filepath.Join(SaltRootPath(rootDir), dyn)
		if err := os.MkdirAll(targetDir, 0o755); err != nil {
			return zerr.Wrap(err, "failed to create dynamic module directory")
		}
		for _, entry := range entries {
			source := filepath.Join(sourceDir, entry.Name())
			link := filepath.Join(targetDir, entry.Name())
			if err := replaceSymlink(source, link); err != nil {
				return zerr.With(err, "formula", formula.Key.String())
			}
		}
	}
	return nil
}

// exports reads the export list from the working copy's metadata file,
// defaulting to the formula's short name.
func (f *Fetcher) exports(formula *domain.ResolvedFormula, repoDir string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(repoDir, metadata.FileName))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{formula.Key.ShortName()}, nil
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to read checked-out metadata"), "formula", formula.Key.String())
	}
	meta, err := metadata.Parse(data)
	if err != nil {
		return nil, zerr.With(err, "formula", formula.Key.String())
	}
	meta.Key = formula.Key
	return meta.ExportNames(), nil
}

// Prune removes working copies of formulas absent from the current resolution.
func (f *Fetcher) Prune(rootDir string, keep []domain.FormulaKey) error {
	keepNames := make(map[string]bool, len(keep))
	for _, key := range keep {
		keepNames[key.Name] = true
	}

	entries, err := os.ReadDir(ReposPath(rootDir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return zerr.Wrap(err, "failed to list working copies")
	}
	for _, entry := range entries {
		if keepNames[entry.Name()] {
			continue
		}
		f.log.Info("pruning unused formula " + entry.Name())
		if err := os.RemoveAll(filepath.Join(ReposPath(rootDir), entry.Name())); err != nil {
			return zerr.Wrap(err, "failed to prune working copy")
		}
	}
	return nil
}

// run executes one git command, streaming output to out.
func (f *Fetcher) run(ctx context.Context, dir string, out io.Writer, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	cmd.Stdout = out
	cmd.Stderr = out
	if err := cmd.Run(); err != nil {
		wrapped := zerr.With(zerr.Wrap(err, "git command failed"), "args", strings.Join(args, " "))
		return zerr.With(wrapped, "dir", dir)
	}
	return nil
}

// capture executes one git command and returns its trimmed stdout.
func (f *Fetcher) capture(ctx context.Context, dir string, args ...string) (string, error) {
	var buf bytes.Buffer
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	cmd.Stdout = &buf
	if err := cmd.Run(); err != nil {
		wrapped := zerr.With(zerr.Wrap(err, "git command failed"), "args", strings.Join(args, " "))
		return "", zerr.With(wrapped, "dir", dir)
	}
	return strings.TrimSpace(buf.String()), nil
}

// replaceSymlink links source at link, replacing any previous link.
func replaceSymlink(source, link string) error {
	if err := os.Remove(link); err != nil && !os.IsNotExist(err) {
		return zerr.With(zerr.Wrap(err, "failed to replace link"), "link", link)
	}
	if err := os.Symlink(source, link); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create link"), "link", link)
	}
	return nil
}
