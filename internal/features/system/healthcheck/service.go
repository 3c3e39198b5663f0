package system_healthcheck

import (
	"context"
	"fmt"
	"time"

	"taskflow/internal/config"
	"taskflow/internal/storage"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
)

const (
	HealthStatusOK       = "ok"
	HealthStatusDegraded = "degraded"
)

// diskUsageWarnPercent marks the host as degraded when exceeded.
const diskUsageWarnPercent = 95.0

type HealthcheckService struct {
	store func() storage.DocumentStore
}

func (s *HealthcheckService) Check(ctx context.Context) *HealthcheckResponseDTO {
	response := &HealthcheckResponseDTO{
		Status: HealthStatusOK,
		Store:  config.GetEnv().StoreDriver,
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.store().Ping(pingCtx); err != nil {
		response.Status = HealthStatusDegraded
		response.Errors = append(response.Errors, fmt.Sprintf("store ping failed: %v", err))
	}

	host, err := s.collectHostStats(ctx)
	if err != nil {
		response.Errors = append(response.Errors, fmt.Sprintf("host stats unavailable: %v", err))
		return response
	}

	response.Host = host
	if host.DiskUsedPercent > diskUsageWarnPercent {
		response.Status = HealthStatusDegraded
		response.Errors = append(response.Errors, fmt.Sprintf("disk usage is %.1f%%", host.DiskUsedPercent))
	}

	return response
}

func (s *HealthcheckService) collectHostStats(ctx context.Context) (*HostStatsDTO, error) {
	memory, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read memory stats: %w", err)
	}

	cpuPercents, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return nil, fmt.Errorf("failed to read cpu stats: %w", err)
	}

	usage, err := disk.UsageWithContext(ctx, config.GetEnv().BackendRootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read disk stats: %w", err)
	}

	stats := &HostStatsDTO{
		MemoryUsedPercent: memory.UsedPercent,
		MemoryTotalBytes:  memory.Total,
		DiskUsedPercent:   usage.UsedPercent,
		DiskFreeBytes:     usage.Free,
	}
	if len(cpuPercents) > 0 {
		stats.CPUUsedPercent = cpuPercents[0]
	}

	return stats, nil
}
