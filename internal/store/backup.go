package store

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Backup copies the database file to dest after checkpointing the WAL
// so the copy is self-contained.
func (s *Store) Backup(ctx context.Context, dest string) error {
	if _, err := s.db.ExecContext(ctx, `PRAGMA wal_checkpoint(TRUNCATE)`); err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}
	if err := copyFile(s.path, dest); err != nil {
		return fmt.Errorf("backup database: %w", err)
	}
	slog.Info("database backed up", "dest", dest)
	return nil
}

// Restore replaces the live database with the file at src. The store
// must be reopened afterwards; the connection is closed here.
func (s *Store) Restore(src string) error {
	if _, err := os.Stat(src); err != nil {
		return fmt.Errorf("restore source: %w", err)
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	// Stale WAL and shm files would shadow the restored data.
	for _, suffix := range []string{"-wal", "-shm"} {
		_ = os.Remove(s.path + suffix)
	}
	if err := copyFile(src, s.path); err != nil {
		return fmt.Errorf("restore database: %w", err)
	}
	slog.Info("database restored", "src", src)
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
