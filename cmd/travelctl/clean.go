package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove stale generated artifacts",
	}

	cmd.AddCommand(newCleanImagesCmd(), newCleanLogsCmd())
	return cmd
}

func newCleanImagesCmd() *cobra.Command {
	var (
		dir  string
		days int
	)

	cmd := &cobra.Command{
		Use:   "images",
		Short: "Delete generated images older than the given number of days",
		RunE: func(cmd *cobra.Command, _ []string) error {
			removed, err := cleanImages(dir, days)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d image(s) older than %d day(s) from %s\n", removed, days, dir)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "images", "directory holding generated images")
	cmd.Flags().IntVar(&days, "days", 7, "delete images older than this many days")
	return cmd
}

func cleanImages(dir string, days int) (int, error) {
	if days <= 0 {
		return 0, fmt.Errorf("days must be positive, got %d", days)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read %s: %w", dir, err)
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	removed := 0

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".png") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			return removed, fmt.Errorf("remove %s: %w", entry.Name(), err)
		}
		removed++
	}

	return removed, nil
}

func newCleanLogsCmd() *cobra.Command {
	var (
		dir  string
		keep int
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Truncate log files, keeping only the most recent lines",
		RunE: func(cmd *cobra.Command, _ []string) error {
			truncated, err := cleanLogs(dir, keep)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Truncated %d log file(s) in %s to the last %d line(s)\n", truncated, dir, keep)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "logs", "directory holding log files")
	cmd.Flags().IntVar(&keep, "keep", 1000, "number of trailing lines to keep per file")
	return cmd
}

func cleanLogs(dir string, keep int) (int, error) {
	if keep <= 0 {
		return 0, fmt.Errorf("keep must be positive, got %d", keep)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read %s: %w", dir, err)
	}

	truncated := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".log") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		changed, err := truncateFile(path, keep)
		if err != nil {
			return truncated, err
		}
		if changed {
			truncated++
		}
	}

	return truncated, nil
}

func truncateFile(path string, keep int) (bool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}

	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	if len(lines) <= keep {
		return false, nil
	}

	tail := strings.Join(lines[len(lines)-keep:], "\n") + "\n"
	if err := os.WriteFile(path, []byte(tail), 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}
