package installer

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"filtersync/internal/errorwrapper"
)

// ByteFetcher is the transport capability the installer consumes
type ByteFetcher interface {
	FetchBytes(ctx context.Context, url string, headers map[string]string) ([]byte, error)
}

// Installer downloads an artifact archive and writes its managed entries
// into the target directory. Entries are flattened to their base name, so
// same-named files in different archive subdirectories overwrite each other
// in destination order (last write wins). This is a known, accepted
// limitation.
type Installer struct {
	fetcher         ByteFetcher
	markerExtension string
	logger          zerolog.Logger
}

// NewInstaller creates a new archive installer. markerExtension is the file
// extension (without leading dot) identifying managed entries.
func NewInstaller(fetcher ByteFetcher, markerExtension string, logger zerolog.Logger) *Installer {
	return &Installer{
		fetcher:         fetcher,
		markerExtension: strings.TrimPrefix(markerExtension, "."),
		logger:          logger.With().Str("component", "Installer").Logger(),
	}
}

// Install fetches the archive at downloadURL, extracts every entry whose
// extension matches the marker extension into targetDir, and returns the
// number of files written. Zero matches is a valid result.
func (i *Installer) Install(ctx context.Context, downloadURL, targetDir string) (int, error) {
	i.logger.Info().Str("url", downloadURL).Msg("Downloading artifact archive")

	data, err := i.fetcher.FetchBytes(ctx, downloadURL, nil)
	if err != nil {
		return 0, err
	}

	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, errorwrapper.NewArchiveError("downloaded bytes are not a valid zip archive", err)
	}

	// Snapshot entry names up front so iteration is decoupled from the
	// reader's internal state.
	names := make([]string, 0, len(archive.File))
	entries := make(map[string]*zip.File, len(archive.File))
	for _, file := range archive.File {
		names = append(names, file.Name)
		entries[file.Name] = file
	}

	var fileData bytes.Buffer
	written := 0

	for _, name := range names {
		if strings.TrimPrefix(path.Ext(name), ".") != i.markerExtension {
			continue
		}

		baseName := path.Base(name)
		if baseName == "" || baseName == "." || baseName == ".." || baseName == "/" {
			// Not really possible, but avoid writing outside the target
			i.logger.Warn().Str("entry", name).Msg("Skipping entry with no derivable base name")
			continue
		}

		i.logger.Info().Str("entry", name).Msg("Extracting entry")

		reader, err := entries[name].Open()
		if err != nil {
			return written, errorwrapper.NewArchiveError("could not open archive entry "+name, err)
		}

		fileData.Reset()
		_, err = io.Copy(&fileData, reader)
		reader.Close()
		if err != nil {
			return written, errorwrapper.NewArchiveError("could not read archive entry "+name, err)
		}

		destPath := filepath.Join(targetDir, baseName)

		i.logger.Debug().Str("path", destPath).Msg("Writing extracted file")

		if err := writeFile(destPath, fileData.Bytes()); err != nil {
			return written, err
		}
		written++
	}

	return written, nil
}

func writeFile(destPath string, data []byte) error {
	dest, err := os.OpenFile(destPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errorwrapper.WrapError(err, "could not create destination file")
	}
	defer dest.Close()

	if _, err := dest.Write(data); err != nil {
		return errorwrapper.WrapError(err, "could not write destination file")
	}
	return nil
}
