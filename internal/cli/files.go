package cli

import (
	"fmt"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// ExpandPatterns resolves doublestar patterns such as "logs/**/*.log" into a
// sorted list of distinct files. A pattern that matches nothing is an error.
func ExpandPatterns(patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	files := make([]string, 0)

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(
			pattern,
			doublestar.WithFilesOnly(),
			doublestar.WithFailOnIOErrors(),
		)
		if err != nil {
			return nil, fmt.Errorf("expand %q: %w", pattern, err)
		}

		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", pattern)
		}

		for _, match := range matches {
			if _, ok := seen[match]; ok {
				continue
			}

			seen[match] = struct{}{}
			files = append(files, match)
		}
	}

	sort.Strings(files)

	return files, nil
}
