package beatmap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var ErrNotFound = errors.New("beatmap not found")

var hashPattern = regexp.MustCompile(`^[0-9a-fA-F]{32}$`)

// Library is a directory of beatmap object graphs stored as <md5 hash>.json
type Library struct {
	Dir string
}

func NewLibrary(dir string) *Library {
	return &Library{Dir: dir}
}

func (lib *Library) path(hash string) (string, error) {
	if !hashPattern.MatchString(hash) {
		return "", fmt.Errorf("%w: invalid hash %q", ErrNotFound, hash)
	}

	return filepath.Join(lib.Dir, strings.ToLower(hash)+".json"), nil
}

// Load reads and decodes the beatmap with the given hash
func (lib *Library) Load(hash string) (*BeatMap, error) {
	path, err := lib.path(hash)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, hash)
		}

		return nil, fmt.Errorf("read beatmap %s: %w", hash, err)
	}

	beatMap, err := ParseJSON(data)
	if err != nil {
		return nil, fmt.Errorf("beatmap %s: %w", hash, err)
	}

	if beatMap.Hash == "" {
		beatMap.Hash = strings.ToLower(hash)
	}

	return beatMap, nil
}

// Lookup returns the metadata of a stored beatmap
func (lib *Library) Lookup(_ context.Context, hash string) (Info, error) {
	beatMap, err := lib.Load(hash)
	if err != nil {
		return Info{}, err
	}

	return beatMap.Info, nil
}

// LoadFile decodes a beatmap from an arbitrary path
func LoadFile(path string) (*BeatMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return ParseJSON(data)
}
