package system_healthcheck

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/disk"
)

// free disk below this share of the data volume marks the instance unhealthy
const minFreeDiskPercent = 5.0

type AvailabilityChecker interface {
	IsAvailable(ctx context.Context) error
}

type DiskUsage struct {
	Path        string  `json:"path"`
	TotalBytes  uint64  `json:"totalBytes"`
	FreeBytes   uint64  `json:"freeBytes"`
	UsedPercent float64 `json:"usedPercent"`
}

type HealthcheckService struct {
	availabilityChecker AvailabilityChecker
	diskPath            string
	getDiskUsage        func(ctx context.Context, path string) (*disk.UsageStat, error)
}

func NewHealthcheckService(availabilityChecker AvailabilityChecker, diskPath string) *HealthcheckService {
	return &HealthcheckService{
		availabilityChecker: availabilityChecker,
		diskPath:            diskPath,
		getDiskUsage:        disk.UsageWithContext,
	}
}

func (s *HealthcheckService) IsHealthy(ctx context.Context) (*DiskUsage, error) {
	usage, err := s.getDiskUsage(ctx, s.diskPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read disk usage: %w", err)
	}

	diskUsage := &DiskUsage{
		Path:        usage.Path,
		TotalBytes:  usage.Total,
		FreeBytes:   usage.Free,
		UsedPercent: usage.UsedPercent,
	}

	if 100-usage.UsedPercent < minFreeDiskPercent {
		return diskUsage, fmt.Errorf("disk %s is %.1f%% full", usage.Path, usage.UsedPercent)
	}

	if err := s.availabilityChecker.IsAvailable(ctx); err != nil {
		return diskUsage, err
	}

	return diskUsage, nil
}
