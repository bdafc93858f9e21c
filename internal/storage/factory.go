package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cristianoliveira/hnreader/internal/colors"
	"github.com/cristianoliveira/hnreader/internal/config"
	"github.com/cristianoliveira/hnreader/internal/storage/sqlite"
)

const (
	// BackendFile selects the count-prefixed skip file.
	BackendFile = "file"
	// BackendSQLite selects SQLite-backed storage.
	BackendSQLite = "sqlite"

	SkipFileName          = "hnreader.dat"
	DBFileName            = "hnreader.db"
	migrationBackupSuffix = ".sqlite-migration.bak"
)

var _ SkipStore = (*sqlite.SQLiteStorage)(nil)

// NewFromConfig creates a store for the configured backend under state_dir.
// config.Load must have run.
func NewFromConfig(ctx context.Context) (SkipStore, error) {
	return NewForBackend(ctx, config.Get("storage_backend", BackendSQLite), config.Get("state_dir", ""))
}

// NewForBackend creates a store for backend inside stateDir. A sqlite
// backend that cannot be opened falls back to the skip file.
func NewForBackend(ctx context.Context, backend, stateDir string) (SkipStore, error) {
	if stateDir == "" {
		return nil, fmt.Errorf("storage: state_dir not configured")
	}
	filePath := filepath.Join(stateDir, SkipFileName)
	dbPath := filepath.Join(stateDir, DBFileName)

	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendFile:
		return NewFileStore(filePath)
	case "", BackendSQLite:
		if err := maybeMigrateFileToSQLite(ctx, filePath, dbPath); err != nil {
			colors.Warning(fmt.Sprintf("sqlite migration failed, falling back to file: %v", err))
			return NewFileStore(filePath)
		}
		s, err := sqlite.NewSQLiteStorage(dbPath)
		if err != nil {
			colors.Warning(fmt.Sprintf("failed to initialize sqlite backend, falling back to file: %v", err))
			return NewFileStore(filePath)
		}
		return s, nil
	default:
		colors.Warning(fmt.Sprintf("unknown storage backend '%s', falling back to file", backend))
		return NewFileStore(filePath)
	}
}

// maybeMigrateFileToSQLite imports a legacy skip file into a database that
// does not exist yet. The skip file is kept as a backup.
func maybeMigrateFileToSQLite(ctx context.Context, filePath, dbPath string) error {
	dbExists, err := pathExists(dbPath)
	if err != nil {
		return fmt.Errorf("check sqlite database path: %w", err)
	}
	if dbExists {
		return nil
	}
	hasData, err := fileHasContent(filePath)
	if err != nil {
		return fmt.Errorf("check skip file: %w", err)
	}
	if !hasData {
		return nil
	}

	fs, err := NewFileStore(filePath)
	if err != nil {
		return err
	}
	ids, err := fs.LoadSkipSet(ctx)
	if err != nil {
		return err
	}

	backupPath := filePath + migrationBackupSuffix
	if err := copyFile(filePath, backupPath); err != nil {
		return fmt.Errorf("backup skip file: %w", err)
	}

	db, err := sqlite.NewSQLiteStorage(dbPath)
	if err != nil {
		return fmt.Errorf("open sqlite storage: %w", err)
	}
	importErr := db.Import(ctx, ids)
	closeErr := db.Close()
	if importErr != nil || closeErr != nil {
		if rmErr := os.Remove(dbPath); rmErr != nil && !os.IsNotExist(rmErr) {
			return fmt.Errorf("import skip file: %v (rollback failed: %v)", firstErr(importErr, closeErr), rmErr)
		}
		return fmt.Errorf("import skip file: %w", firstErr(importErr, closeErr))
	}

	colors.Success(fmt.Sprintf("SQLite migration complete: %d skipped stories imported", len(ids)))
	return nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, FileModeFile)
}

func pathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func fileHasContent(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if info.IsDir() {
		return false, fmt.Errorf("expected file but found directory: %s", path)
	}
	return info.Size() > 0, nil
}
