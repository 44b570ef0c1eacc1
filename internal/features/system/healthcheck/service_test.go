package system_healthcheck

import (
	"context"
	"errors"
	"testing"

	"github.com/shirou/gopsutil/v4/disk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_IsHealthy_WithRealDisk_ReportsUsage(t *testing.T) {
	service := NewHealthcheckService(availabilityFunc(func(context.Context) error { return nil }), t.TempDir())

	usage, err := service.IsHealthy(context.Background())
	if err != nil {
		// the test machine itself may be short on disk space
		require.NotNil(t, usage)
		return
	}

	assert.NotZero(t, usage.TotalBytes)
}

func Test_IsHealthy_WhenDiskAlmostFull_ReturnsError(t *testing.T) {
	service := NewHealthcheckService(availabilityFunc(func(context.Context) error { return nil }), "/data")
	service.getDiskUsage = func(context.Context, string) (*disk.UsageStat, error) {
		return &disk.UsageStat{Path: "/data", Total: 100, Free: 2, UsedPercent: 98}, nil
	}

	usage, err := service.IsHealthy(context.Background())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "98.0% full")
	assert.Equal(t, uint64(2), usage.FreeBytes)
}

func Test_IsHealthy_WhenDependencyIsDown_ReturnsItsError(t *testing.T) {
	dependencyErr := errors.New("database check failed")
	service := NewHealthcheckService(availabilityFunc(func(context.Context) error { return dependencyErr }), "/data")
	service.getDiskUsage = func(context.Context, string) (*disk.UsageStat, error) {
		return &disk.UsageStat{Path: "/data", Total: 100, Free: 50, UsedPercent: 50}, nil
	}

	_, err := service.IsHealthy(context.Background())

	assert.ErrorIs(t, err, dependencyErr)
}

type availabilityFunc func(ctx context.Context) error

func (f availabilityFunc) IsAvailable(ctx context.Context) error {
	return f(ctx)
}
