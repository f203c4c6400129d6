package scanner

import (
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

// ListCorpus returns the files of a corpus laid out as
// root/<category>/<subcategory>/<file> whose base name matches pattern.
// Entries are visited in lexical order at every level so the result is
// stable across platforms. Anything that is not a directory at the first
// two levels is ignored.
//
// Only a failure to read root itself is returned; unreadable nested
// directories are logged and skipped.
func ListCorpus(root string, pattern glob.Glob, logger *logrus.Entry) ([]string, error) {
	categories, err := os.ReadDir(root)
	if err != nil {
		return nil, xerrors.Errorf("read corpus root: %w", err)
	}

	var files []string
	for _, category := range categories {
		catPath := filepath.Join(root, category.Name())
		if !isDir(catPath, category) {
			continue
		}
		subcategories, err := os.ReadDir(catPath)
		if err != nil {
			logger.WithField("path", catPath).WithError(err).Warn("skipping unreadable directory")
			continue
		}

		for _, subcategory := range subcategories {
			subPath := filepath.Join(catPath, subcategory.Name())
			if !isDir(subPath, subcategory) {
				continue
			}
			entries, err := os.ReadDir(subPath)
			if err != nil {
				logger.WithField("path", subPath).WithError(err).Warn("skipping unreadable directory")
				continue
			}

			for _, entry := range entries {
				filePath := filepath.Join(subPath, entry.Name())
				if isDir(filePath, entry) || !pattern.Match(entry.Name()) {
					continue
				}
				files = append(files, filePath)
			}
		}
	}
	return files, nil
}

// isDir reports whether entry is a directory, following symlinks.
func isDir(path string, entry os.DirEntry) bool {
	if entry.Type()&os.ModeSymlink == 0 {
		return entry.IsDir()
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
