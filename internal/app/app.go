// Package app implements the application layer for salt-shaker: the install,
// pinned-install and check workflows on top of the resolver engine and the
// adapter ports.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"

	"github.com/ministryofjustice/salt-shaker/internal/core/domain"
	"github.com/ministryofjustice/salt-shaker/internal/core/ports"
	"github.com/ministryofjustice/salt-shaker/internal/engine/resolver"
)

// Options carries the per-run settings shared by all workflows.
type Options struct {
	// RootDir is the directory holding metadata.yml and the vendor tree.
	RootDir string
	// Simulate resolves and reports without fetching or writing anything.
	Simulate bool
	// EnableRemoteCheck re-verifies lockfile pins against the remote instead
	// of trusting recorded tags and commits.
	EnableRemoteCheck bool
}

// App wires the resolution engine to the adapters.
type App struct {
	loader    ports.ConfigLoader
	graph     *resolver.Resolver
	versions  *resolver.VersionResolver
	lockStore ports.LockfileStore
	fetcher   ports.Fetcher
	progress  ports.Progress
	log       ports.Logger
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	graph *resolver.Resolver,
	versions *resolver.VersionResolver,
	lockStore ports.LockfileStore,
	fetcher ports.Fetcher,
	progress ports.Progress,
	log ports.Logger,
) *App {
	return &App{
		loader:    loader,
		graph:     graph,
		versions:  versions,
		lockStore: lockStore,
		fetcher:   fetcher,
		progress:  progress,
		log:       log,
	}
}

// Install resolves the dependency graph from metadata.yml, pins every formula
// to a tag and commit, fetches the working copies and rewrites the
// requirements file. Versions already pinned in the requirements file are
// reused unless the remote check is enabled.
func (a *App) Install(ctx context.Context, opts Options) error {
	meta, err := a.loader.Load(opts.RootDir)
	if err != nil {
		return zerr.Wrap(err, "failed to load formula metadata")
	}

	res, err := a.graph.Resolve(ctx, meta)
	if err != nil {
		return zerr.Wrap(err, "dependency resolution failed")
	}
	a.log.Info(fmt.Sprintf("resolved %d formulas", len(res.Order)))

	lock, err := a.loadLockfileIfPresent(opts.RootDir)
	if err != nil {
		return err
	}

	if err := a.pinVersions(ctx, res, lock, opts.EnableRemoteCheck); err != nil {
		return err
	}

	fresh := domain.NewLockfile(res.Formulas)
	if opts.Simulate {
		a.reportPlanned(lock, fresh)
		return nil
	}

	if err := a.fetchAll(ctx, res, opts.RootDir, false); err != nil {
		return err
	}
	return a.lockStore.Write(opts.RootDir, fresh)
}

// InstallPinned installs exactly what the requirements file records, without
// consulting any metadata. Remote access only happens when the remote check
// is enabled or a working copy is missing.
func (a *App) InstallPinned(ctx context.Context, opts Options) error {
	lock, err := a.lockStore.Load(opts.RootDir)
	if err != nil {
		return zerr.Wrap(err, "failed to load requirements file")
	}

	res := a.graph.ResolvePinned(lock)
	a.log.Info(fmt.Sprintf("installing %d pinned formulas", len(res.Order)))

	if err := a.pinVersions(ctx, res, lock, opts.EnableRemoteCheck); err != nil {
		return err
	}

	fresh := domain.NewLockfile(res.Formulas)
	if opts.Simulate {
		a.reportPlanned(lock, fresh)
		return nil
	}

	if err := a.fetchAll(ctx, res, opts.RootDir, false); err != nil {
		return err
	}
	return a.lockStore.Write(opts.RootDir, fresh)
}

// Check resolves the dependency graph and reports what an install would
// change compared to the current requirements file. Nothing is fetched and
// nothing is written.
func (a *App) Check(ctx context.Context, opts Options) ([]domain.Change, error) {
	meta, err := a.loader.Load(opts.RootDir)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load formula metadata")
	}

	res, err := a.graph.Resolve(ctx, meta)
	if err != nil {
		return nil, zerr.Wrap(err, "dependency resolution failed")
	}

	lock, err := a.loadLockfileIfPresent(opts.RootDir)
	if err != nil {
		return nil, err
	}

	if err := a.pinVersions(ctx, res, lock, opts.EnableRemoteCheck); err != nil {
		return nil, err
	}

	fresh := domain.NewLockfile(res.Formulas)
	if lock == nil {
		lock = &domain.Lockfile{}
	} else if lock.Checksum() == fresh.Checksum() {
		a.log.Info("no changes")
		return nil, nil
	}

	changes := lock.Diff(fresh)
	if len(changes) == 0 {
		a.log.Info("no changes")
	} else {
		a.log.Info(fmt.Sprintf("%d requirement changes", len(changes)))
	}
	return changes, nil
}

// pinVersions runs version resolution and surfaces tag moves as warnings.
func (a *App) pinVersions(ctx context.Context, res *resolver.Resolution, lock *domain.Lockfile, remoteCheck bool) error {
	moves, err := a.versions.ResolveAll(ctx, res, lock, remoteCheck)
	if err != nil {
		return zerr.Wrap(err, "version resolution failed")
	}
	for _, move := range moves {
		a.log.Warn(move.String())
	}
	return nil
}

// loadLockfileIfPresent loads the requirements file, treating a missing file
// as no lockfile at all.
func (a *App) loadLockfileIfPresent(rootDir string) (*domain.Lockfile, error) {
	lock, err := a.lockStore.Load(rootDir)
	if err != nil {
		if errors.Is(err, domain.ErrRequirementsNotFound) {
			return nil, nil
		}
		return nil, zerr.Wrap(err, "failed to load requirements file")
	}
	return lock, nil
}

// reportPlanned logs what an install would do, for simulate runs.
func (a *App) reportPlanned(lock, fresh *domain.Lockfile) {
	if lock == nil {
		lock = &domain.Lockfile{}
	}
	changes := lock.Diff(fresh)
	if len(changes) == 0 {
		a.log.Info("simulate: no changes")
		return
	}
	for _, change := range changes {
		a.log.Info("simulate: " + change.String())
	}
}

// fetchAll materializes every resolved formula concurrently, then links the
// exports sequentially and prunes working copies that fell out of the
// resolution. The requirements file is only written by callers after this
// succeeds as a whole.
func (a *App) fetchAll(ctx context.Context, res *resolver.Resolution, rootDir string, overwrite bool) error {
	if err := a.fetcher.Prepare(rootDir, overwrite); err != nil {
		return zerr.Wrap(err, domain.ErrFetchFailed.Error())
	}
	defer a.progress.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(resolver.DefaultWorkers)
	for _, key := range res.Order {
		formula := res.Formulas[key]
		g.Go(func() error {
			vctx, vertex := a.progress.Record(gctx, formula.Key.String())
			cached, err := a.fetcher.Fetch(vctx, formula, rootDir, vertex.Stdout())
			if cached {
				vertex.Cached()
			}
			vertex.Complete(err)
			if err != nil {
				return zerr.With(err, "formula", formula.Key.String())
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return zerr.Wrap(err, domain.ErrFetchFailed.Error())
	}

	// Linking shares the salt root across formulas, so it stays sequential
	// and deterministic in resolution order.
	for _, key := range res.Order {
		if err := a.fetcher.Link(res.Formulas[key], rootDir); err != nil {
			return zerr.Wrap(err, domain.ErrFetchFailed.Error())
		}
	}

	if err := a.fetcher.Prune(rootDir, res.Order); err != nil {
		return zerr.Wrap(err, domain.ErrFetchFailed.Error())
	}
	return nil
}
