package orchestrator

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"filtersync/internal/resolver"
	"filtersync/internal/source"
	"filtersync/internal/watermark"
)

// VersionResolver resolves a descriptor to its current remote version.
// A (nil, nil) return means the source has no published artifact yet.
type VersionResolver interface {
	Resolve(ctx context.Context, desc source.Descriptor) (*resolver.VersionRecord, error)
}

// ArchiveInstaller downloads an artifact and installs its managed entries,
// returning the number of files written.
type ArchiveInstaller interface {
	Install(ctx context.Context, downloadURL, targetDir string) (int, error)
}

// SyncOrchestrator drives the sync pipeline: it owns the watermark store
// for the duration of one run, processes sources strictly in the order
// given, and persists the store once after all sources succeed. Any failure
// aborts the run without saving.
type SyncOrchestrator struct {
	parser    *source.Parser
	resolver  VersionResolver
	installer ArchiveInstaller
	targetDir string
	statePath string
	changeLog io.Writer
	logger    zerolog.Logger
}

// NewSyncOrchestrator creates a new sync orchestrator. changeLog receives
// the user-facing per-source change announcements; stateFileName is the
// watermark document's file name inside targetDir.
func NewSyncOrchestrator(
	parser *source.Parser,
	versionResolver VersionResolver,
	archiveInstaller ArchiveInstaller,
	targetDir string,
	stateFileName string,
	changeLog io.Writer,
	logger zerolog.Logger,
) *SyncOrchestrator {
	return &SyncOrchestrator{
		parser:    parser,
		resolver:  versionResolver,
		installer: archiveInstaller,
		targetDir: targetDir,
		statePath: filepath.Join(targetDir, stateFileName),
		changeLog: changeLog,
		logger:    logger.With().Str("component", "SyncOrchestrator").Logger(),
	}
}

// Run processes the requested sources in order. With clear set, the loaded
// watermark store is emptied first so every source is treated as changed.
func (o *SyncOrchestrator) Run(ctx context.Context, sources []string, clear bool) error {
	runLogger := o.logger.With().Str("run_id", uuid.NewString()).Logger()

	store := watermark.Load(o.statePath, runLogger)
	if clear {
		runLogger.Info().Int("discarded", store.Len()).Msg("Clearing watermark store, all sources will be reinstalled")
		store.Clear()
	}

	for _, raw := range sources {
		if err := o.syncSource(ctx, raw, store, runLogger); err != nil {
			return err
		}
	}

	runLogger.Info().Msg("Saving watermarks")
	return store.Save(o.statePath)
}

func (o *SyncOrchestrator) syncSource(ctx context.Context, raw string, store *watermark.Store, logger zerolog.Logger) error {
	desc, err := o.parser.Parse(raw)
	if err != nil {
		return err
	}

	key := desc.String()
	stored, hasStored := store.Get(key)

	logger.Info().Str("source", key).Str("watermark", storedOrNone(stored, hasStored)).Msg("Updating source")

	record, err := o.resolver.Resolve(ctx, desc)
	if err != nil {
		return err
	}

	// No published artifact yet: leave the source untouched in the store.
	if record == nil {
		logger.Info().Str("source", key).Msg("Nothing to install yet")
		return nil
	}

	if hasStored && stored == record.Watermark {
		logger.Info().Str("source", key).Str("watermark", stored).Msg("Source is up to date")
		return nil
	}

	count, err := o.installer.Install(ctx, record.DownloadURL, o.targetDir)
	if err != nil {
		return err
	}

	logger.Info().Str("source", key).Str("watermark", record.Watermark).Int("files_written", count).Msg("Source updated")

	o.announceChange(key, record)
	store.Set(key, record.Watermark)
	return nil
}

// announceChange writes one user-facing change block: a header naming the
// source and the new watermark, the optional note, then a blank line.
func (o *SyncOrchestrator) announceChange(key string, record *resolver.VersionRecord) {
	fmt.Fprintf(o.changeLog, "# %s: %s\n", key, record.Watermark)
	if record.Note != "" {
		fmt.Fprintln(o.changeLog, record.Note)
	}
	fmt.Fprintln(o.changeLog)
}

func storedOrNone(stored string, has bool) string {
	if !has {
		return "none"
	}
	return stored
}
