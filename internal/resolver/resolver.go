package resolver

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"filtersync/internal/errorwrapper"
	"filtersync/internal/source"
)

const (
	apiVersionHeader = "X-Github-Api-Version"
	apiVersionValue  = "2022-11-28"
	acceptValue      = "application/vnd.github+json"
)

// VersionRecord is the result of a successful resolution. Watermark is
// opaque: equal watermarks mean equal remote state, nothing more. Release
// and branch watermarks are never comparable with each other.
type VersionRecord struct {
	DownloadURL string
	Watermark   string
	Note        string
}

// JSONFetcher is the transport capability the resolver consumes
type JSONFetcher interface {
	FetchJSON(ctx context.Context, url string, headers map[string]string, out any) error
}

// GitHubResolver resolves github descriptors to their latest published
// artifact via the release or branch strategy, selected by payload shape.
type GitHubResolver struct {
	fetcher         JSONFetcher
	apiBaseURL      string
	downloadBaseURL string
	logger          zerolog.Logger
}

// NewGitHubResolver creates a new GitHub version resolver
func NewGitHubResolver(fetcher JSONFetcher, apiBaseURL, downloadBaseURL string, logger zerolog.Logger) *GitHubResolver {
	return &GitHubResolver{
		fetcher:         fetcher,
		apiBaseURL:      strings.TrimRight(apiBaseURL, "/"),
		downloadBaseURL: strings.TrimRight(downloadBaseURL, "/"),
		logger:          logger.With().Str("component", "GitHubResolver").Logger(),
	}
}

type releaseInfo struct {
	ZipballURL string `json:"zipball_url"`
	TagName    string `json:"tag_name"`
	Body       string `json:"body"`
}

type branchInfo struct {
	Commit commitInfo `json:"commit"`
}

type commitInfo struct {
	SHA    string     `json:"sha"`
	Commit commitMeta `json:"commit"`
}

type commitMeta struct {
	Message string `json:"message"`
}

// Resolve returns the current remote version for the descriptor, or
// (nil, nil) when the release strategy finds no published artifact.
// It never consults prior state.
func (r *GitHubResolver) Resolve(ctx context.Context, desc source.Descriptor) (*VersionRecord, error) {
	if desc.Type != "github" {
		return nil, errorwrapper.NewMalformedDescriptorError(desc.String(), "source type must be github")
	}

	parts := strings.Split(desc.Payload, "/")
	switch len(parts) {
	case 2:
		return r.resolveRelease(ctx, parts[0], parts[1])
	case 3:
		return r.resolveBranch(ctx, parts[0], parts[1], parts[2])
	default:
		return nil, errorwrapper.NewMalformedDescriptorError(desc.String(), "github source must be either github:owner/repo or github:owner/repo/branch")
	}
}

func (r *GitHubResolver) resolveRelease(ctx context.Context, owner, repo string) (*VersionRecord, error) {
	requestURL := fmt.Sprintf("%s/repos/%s/%s/releases?per_page=1&page=0", r.apiBaseURL, owner, repo)

	r.logger.Info().Str("owner", owner).Str("repo", repo).Msg("Fetching latest release")

	var releases []releaseInfo
	if err := r.fetcher.FetchJSON(ctx, requestURL, apiHeaders(), &releases); err != nil {
		return nil, err
	}

	// Zero published releases is a valid state, not an error.
	if len(releases) == 0 {
		r.logger.Info().Str("owner", owner).Str("repo", repo).Msg("Repository has no releases yet")
		return nil, nil
	}

	release := releases[0]
	if release.TagName == "" || release.ZipballURL == "" {
		return nil, errorwrapper.NewProtocolError(requestURL, "release is missing tag name or zipball URL", nil)
	}

	r.logger.Info().Str("tag", release.TagName).Msg("Found release")

	return &VersionRecord{
		DownloadURL: release.ZipballURL,
		Watermark:   release.TagName,
		Note:        release.Body,
	}, nil
}

func (r *GitHubResolver) resolveBranch(ctx context.Context, owner, repo, branch string) (*VersionRecord, error) {
	requestURL := fmt.Sprintf("%s/repos/%s/%s/branches/%s", r.apiBaseURL, owner, repo, branch)

	r.logger.Info().Str("owner", owner).Str("repo", repo).Str("branch", branch).Msg("Fetching branch head commit")

	var info branchInfo
	if err := r.fetcher.FetchJSON(ctx, requestURL, apiHeaders(), &info); err != nil {
		return nil, err
	}

	if info.Commit.SHA == "" {
		return nil, errorwrapper.NewProtocolError(requestURL, "branch response is missing head commit", nil)
	}

	r.logger.Info().Str("sha", info.Commit.SHA).Msg("Found branch head commit")

	return &VersionRecord{
		DownloadURL: fmt.Sprintf("%s/%s/%s/archive/%s.zip", r.downloadBaseURL, owner, repo, info.Commit.SHA),
		Watermark:   info.Commit.SHA,
		Note:        info.Commit.Commit.Message,
	}, nil
}

func apiHeaders() map[string]string {
	return map[string]string{
		apiVersionHeader: apiVersionValue,
		"Accept":         acceptValue,
	}
}
