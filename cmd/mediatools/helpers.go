package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"mediatools/internal/pipeline"
)

// collectFiles expands the command arguments into a flat file list.
// Directory arguments contribute their regular files; subdirectories are
// only entered with recursive set. Order follows the arguments, with
// directory entries sorted by name.
func collectFiles(args []string, recursive bool) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}

		if recursive {
			err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if d.Type().IsRegular() {
					files = append(files, path)
				}
				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("walk %s: %w", arg, err)
			}
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("read dir %s: %w", arg, err)
		}
		names := make([]string, 0, len(entries))
		for _, entry := range entries {
			if entry.Type().IsRegular() {
				names = append(names, entry.Name())
			}
		}
		sort.Strings(names)
		for _, name := range names {
			files = append(files, filepath.Join(arg, name))
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no files to process")
	}
	return files, nil
}

// outcomeRow renders one outcome as table cells.
func outcomeRow(outcome pipeline.FileOutcome) []string {
	detail := ""
	switch {
	case outcome.Failure != nil:
		detail = outcome.Failure.String()
	case len(outcome.Steps) > 0:
		parts := make([]string, 0, len(outcome.Steps))
		for _, step := range outcome.Steps {
			s := step.Artifact.Summary()
			if step.FromCache {
				s += " (cached)"
			}
			parts = append(parts, s)
		}
		detail = strings.Join(parts, "; ")
	}
	return []string{outcome.Path, string(outcome.Kind), string(outcome.Status), detail}
}
