package system_healthcheck

type HealthcheckResponseDTO struct {
	Status string        `json:"status"`
	Store  string        `json:"store"`
	Host   *HostStatsDTO `json:"host,omitempty"`
	Errors []string      `json:"errors,omitempty"`
}

type HostStatsDTO struct {
	MemoryUsedPercent float64 `json:"memoryUsedPercent"`
	MemoryTotalBytes  uint64  `json:"memoryTotalBytes"`
	CPUUsedPercent    float64 `json:"cpuUsedPercent"`
	DiskUsedPercent   float64 `json:"diskUsedPercent"`
	DiskFreeBytes     uint64  `json:"diskFreeBytes"`
}
