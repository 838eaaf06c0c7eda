package gamedir

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"filtersync/internal/errorwrapper"
)

const gameDirName = "Path of Exile 2"

// Locate probes the known Steam compatdata locations for the game's
// document directory and returns (creating it if needed) the game data
// directory inside it. defaultAppID is used when no Steam environment
// variable names the app id.
func Locate(defaultAppID string, logger zerolog.Logger) (string, error) {
	appID := resolveAppID(defaultAppID)
	candidates := candidateRoots(appID)

	checked := make(map[string]bool, len(candidates))
	for _, candidate := range candidates {
		if checked[candidate] {
			continue
		}
		checked[candidate] = true

		probePath := filepath.Join(candidate, "pfx", "drive_c", "users", "steamuser", "My Documents", "My Games")
		logger.Info().Str("path", probePath).Msg("Checking candidate game directory")

		info, err := os.Stat(probePath)
		if err != nil || !info.IsDir() {
			continue
		}

		gamePath := filepath.Join(probePath, gameDirName)

		logger.Info().Str("path", gamePath).Msg("Attempting to create game data directory")
		if err := os.MkdirAll(gamePath, 0755); err != nil {
			logger.Warn().Err(err).Str("path", gamePath).Msg("Failed to create game data directory")
			continue
		}

		logger.Info().Str("path", gamePath).Msg("Found game directory")
		return gamePath, nil
	}

	return "", errorwrapper.NewError("no steam path could be located")
}

// resolveAppID determines the Steam app id from the environment, falling
// back to the configured default
func resolveAppID(defaultAppID string) string {
	if appID := os.Getenv("STEAM_COMPAT_APP_ID"); appID != "" {
		return appID
	}
	if appID := os.Getenv("SteamGameId"); appID != "" {
		return appID
	}
	return defaultAppID
}

// candidateRoots builds the prioritized list of compatdata roots to probe
func candidateRoots(appID string) []string {
	var candidates []string

	if compatPath := os.Getenv("STEAM_COMPAT_DATA_PATH"); compatPath != "" {
		candidates = append(candidates, compatPath)
	}

	if libraryPaths := os.Getenv("STEAM_COMPAT_LIBRARY_PATHS"); libraryPaths != "" {
		for _, libraryPath := range filepath.SplitList(libraryPaths) {
			if libraryPath == "" {
				continue
			}
			candidates = append(candidates, filepath.Join(libraryPath, "compatdata", appID))
		}
	}

	if basePath := os.Getenv("STEAM_BASE_FOLDER"); basePath != "" {
		candidates = append(candidates, filepath.Join(basePath, "steamapps", "compatdata", appID))
	}

	if dataDirs := os.Getenv("XDG_DATA_DIRS"); dataDirs != "" {
		for _, dataDir := range filepath.SplitList(dataDirs) {
			if dataDir == "" {
				continue
			}
			candidates = append(candidates, filepath.Join(dataDir, "Steam", "steamapps", "compatdata", appID))
		}
	}

	if home := os.Getenv("HOME"); home != "" {
		candidates = append(candidates, filepath.Join(home, ".local", "share", "Steam", "steamapps", "compatdata", appID))
	}

	return candidates
}
