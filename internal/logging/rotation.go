package logging

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const logFilePrefix = appName + "_"

// rotate keeps at most maxFiles hnreader log files in dir, removing the
// oldest by modification time.
func rotate(dir string, maxFiles int) error {
	if maxFiles <= 0 {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	type logFile struct {
		path    string
		modTime time.Time
	}
	var files []logFile
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, logFilePrefix) || !strings.HasSuffix(name, ".log") {
			continue
		}
		lf := logFile{path: filepath.Join(dir, name)}
		if info, err := entry.Info(); err == nil {
			lf.modTime = info.ModTime()
		}
		files = append(files, lf)
	}
	if len(files) <= maxFiles {
		return nil
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].modTime.Equal(files[j].modTime) {
			return files[i].path < files[j].path
		}
		return files[i].modTime.Before(files[j].modTime)
	})
	for _, f := range files[:len(files)-maxFiles] {
		os.Remove(f.path) // ignore errors
	}
	return nil
}
