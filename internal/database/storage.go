package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/shirou/gopsutil/v3/disk"
)

// StorageInfo describes the database file and the volume it lives on.
type StorageInfo struct {
	Path            string
	FileSize        int64
	DiskTotal       uint64
	DiskFree        uint64
	DiskUsedPercent float64
}

// Storage reports the size of the database file and the usage of its volume.
func (c *Client) Storage(ctx context.Context) (*StorageInfo, error) {
	path := c.filePath()

	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat database file: %w", err)
	}

	usage, err := disk.UsageWithContext(ctx, filepath.Dir(path))
	if err != nil {
		log.Error("failed to get disk usage", "path", path, "error", err)
		return nil, fmt.Errorf("failed to get disk usage: %w", err)
	}

	return &StorageInfo{
		Path:            path,
		FileSize:        fi.Size(),
		DiskTotal:       usage.Total,
		DiskFree:        usage.Free,
		DiskUsedPercent: usage.UsedPercent,
	}, nil
}

// filePath strips connection parameters from the dsn.
func (c *Client) filePath() string {
	path, _, _ := strings.Cut(c.path, "?")
	return strings.TrimPrefix(path, "file:")
}
