package orchestrator

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filtersync/internal/errorwrapper"
	"filtersync/internal/resolver"
	"filtersync/internal/source"
	"filtersync/internal/watermark"
)

type stubResolver struct {
	records map[string]*resolver.VersionRecord
	errs    map[string]error
	calls   []string
}

func (s *stubResolver) Resolve(_ context.Context, desc source.Descriptor) (*resolver.VersionRecord, error) {
	key := desc.String()
	s.calls = append(s.calls, key)
	if err := s.errs[key]; err != nil {
		return nil, err
	}
	return s.records[key], nil
}

type stubInstaller struct {
	urls  []string
	count int
	err   error
}

func (s *stubInstaller) Install(_ context.Context, downloadURL, _ string) (int, error) {
	s.urls = append(s.urls, downloadURL)
	if s.err != nil {
		return 0, s.err
	}
	return s.count, nil
}

type fixture struct {
	orch      *SyncOrchestrator
	resolver  *stubResolver
	installer *stubInstaller
	targetDir string
	statePath string
	changeLog *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	targetDir := t.TempDir()
	res := &stubResolver{records: map[string]*resolver.VersionRecord{}, errs: map[string]error{}}
	inst := &stubInstaller{count: 1}
	changeLog := &bytes.Buffer{}

	orch := NewSyncOrchestrator(
		source.NewParser(nil),
		res,
		inst,
		targetDir,
		"filter_watermarks.json",
		changeLog,
		zerolog.Nop(),
	)

	return &fixture{
		orch:      orch,
		resolver:  res,
		installer: inst,
		targetDir: targetDir,
		statePath: filepath.Join(targetDir, "filter_watermarks.json"),
		changeLog: changeLog,
	}
}

func TestRun_InstallsChangedSourceAndPersists(t *testing.T) {
	f := newFixture(t)
	f.resolver.records["github:o/r"] = &resolver.VersionRecord{
		DownloadURL: "http://example.com/v1.zip",
		Watermark:   "v1",
		Note:        "initial release",
	}

	require.NoError(t, f.orch.Run(context.Background(), []string{"github:o/r"}, false))

	assert.Equal(t, []string{"http://example.com/v1.zip"}, f.installer.urls)

	store := watermark.Load(f.statePath, zerolog.Nop())
	mark, ok := store.Get("github:o/r")
	require.True(t, ok)
	assert.Equal(t, "v1", mark)
}

func TestRun_SecondRunWithNoRemoteChangeIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.resolver.records["github:o/r"] = &resolver.VersionRecord{
		DownloadURL: "http://example.com/v1.zip",
		Watermark:   "v1",
	}

	require.NoError(t, f.orch.Run(context.Background(), []string{"github:o/r"}, false))
	stateAfterFirst, err := os.ReadFile(f.statePath)
	require.NoError(t, err)

	require.NoError(t, f.orch.Run(context.Background(), []string{"github:o/r"}, false))

	// Resolution happens again (the watermark is only knowable remotely),
	// but no second install, and the state file is byte-identical.
	assert.Len(t, f.resolver.calls, 2)
	assert.Len(t, f.installer.urls, 1)
	stateAfterSecond, err := os.ReadFile(f.statePath)
	require.NoError(t, err)
	assert.Equal(t, stateAfterFirst, stateAfterSecond)
}

func TestRun_EqualWatermarkNeverInvokesInstaller(t *testing.T) {
	f := newFixture(t)
	seed := watermark.Load(f.statePath, zerolog.Nop())
	seed.Set("github:o/r", "v1")
	require.NoError(t, seed.Save(f.statePath))

	f.resolver.records["github:o/r"] = &resolver.VersionRecord{
		DownloadURL: "http://example.com/v1.zip",
		Watermark:   "v1",
	}

	require.NoError(t, f.orch.Run(context.Background(), []string{"github:o/r"}, false))

	assert.Empty(t, f.installer.urls)
	assert.Empty(t, f.changeLog.String())
}

func TestRun_FailureAbortsRemainingSourcesAndPersistence(t *testing.T) {
	f := newFixture(t)
	seed := watermark.Load(f.statePath, zerolog.Nop())
	seed.Set("github:old/entry", "kept")
	require.NoError(t, seed.Save(f.statePath))
	stateBefore, err := os.ReadFile(f.statePath)
	require.NoError(t, err)

	f.resolver.records["github:a/a"] = &resolver.VersionRecord{DownloadURL: "http://example.com/a.zip", Watermark: "v1"}
	f.resolver.errs["github:b/b"] = errorwrapper.NewHTTPErrorWithURL(500, "Internal Server Error", "http://example.com")
	f.resolver.records["github:c/c"] = &resolver.VersionRecord{DownloadURL: "http://example.com/c.zip", Watermark: "v1"}

	err = f.orch.Run(context.Background(), []string{"github:a/a", "github:b/b", "github:c/c"}, false)

	require.Error(t, err)
	// Source 1 installed before the failure, source 3 never reached.
	assert.Equal(t, []string{"github:a/a", "github:b/b"}, f.resolver.calls)
	assert.Equal(t, []string{"http://example.com/a.zip"}, f.installer.urls)

	// Source 1's in-memory update is discarded: disk state is untouched.
	stateAfter, err := os.ReadFile(f.statePath)
	require.NoError(t, err)
	assert.Equal(t, stateBefore, stateAfter)
}

func TestRun_ClearForcesReinstall(t *testing.T) {
	f := newFixture(t)
	seed := watermark.Load(f.statePath, zerolog.Nop())
	seed.Set("github:o/r", "v1")
	require.NoError(t, seed.Save(f.statePath))

	f.resolver.records["github:o/r"] = &resolver.VersionRecord{
		DownloadURL: "http://example.com/v1.zip",
		Watermark:   "v1",
	}

	require.NoError(t, f.orch.Run(context.Background(), []string{"github:o/r"}, true))

	assert.Equal(t, []string{"http://example.com/v1.zip"}, f.installer.urls)
}

func TestRun_NoArtifactLeavesStoreUntouched(t *testing.T) {
	f := newFixture(t)
	// Release strategy with zero releases resolves to nil.
	f.resolver.records["github:o/r"] = nil

	require.NoError(t, f.orch.Run(context.Background(), []string{"github:o/r"}, false))

	assert.Empty(t, f.installer.urls)
	store := watermark.Load(f.statePath, zerolog.Nop())
	_, ok := store.Get("github:o/r")
	assert.False(t, ok)
}

func TestRun_ChangeLogBlocksInProcessingOrder(t *testing.T) {
	f := newFixture(t)
	f.resolver.records["github:a/a"] = &resolver.VersionRecord{
		DownloadURL: "http://example.com/a.zip",
		Watermark:   "v1",
		Note:        "first note",
	}
	f.resolver.records["github:b/b"] = &resolver.VersionRecord{
		DownloadURL: "http://example.com/b.zip",
		Watermark:   "sha9",
	}

	require.NoError(t, f.orch.Run(context.Background(), []string{"github:a/a", "github:b/b"}, false))

	assert.Equal(t, "# github:a/a: v1\nfirst note\n\n# github:b/b: sha9\n\n", f.changeLog.String())
}

func TestRun_AliasUsesCanonicalStoreKey(t *testing.T) {
	f := newFixture(t)
	f.resolver.records["github:NeverSinkDev/NeverSink-PoE2litefilter"] = &resolver.VersionRecord{
		DownloadURL: "http://example.com/ns.zip",
		Watermark:   "v3.0.0",
	}

	require.NoError(t, f.orch.Run(context.Background(), []string{"neversink-lite"}, false))

	store := watermark.Load(f.statePath, zerolog.Nop())
	mark, ok := store.Get("github:NeverSinkDev/NeverSink-PoE2litefilter")
	require.True(t, ok)
	assert.Equal(t, "v3.0.0", mark)
	_, ok = store.Get("neversink-lite")
	assert.False(t, ok)
}

func TestRun_MalformedSourceAbortsBeforeResolution(t *testing.T) {
	f := newFixture(t)

	err := f.orch.Run(context.Background(), []string{"no-separator-here"}, false)

	require.Error(t, err)
	var malformed *errorwrapper.MalformedDescriptorError
	assert.ErrorAs(t, err, &malformed)
	assert.Empty(t, f.resolver.calls)
	_, statErr := os.Stat(f.statePath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRun_InstallErrorAbortsWithoutSave(t *testing.T) {
	f := newFixture(t)
	f.resolver.records["github:o/r"] = &resolver.VersionRecord{
		DownloadURL: "http://example.com/v1.zip",
		Watermark:   "v1",
	}
	f.installer.err = errorwrapper.NewArchiveError("truncated archive", nil)

	err := f.orch.Run(context.Background(), []string{"github:o/r"}, false)

	require.Error(t, err)
	_, statErr := os.Stat(f.statePath)
	assert.True(t, os.IsNotExist(statErr))
}
