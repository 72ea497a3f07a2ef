package metrics

import (
	"runtime"
	"time"
)

// SysHealth represents real-time process metrics.
type SysHealth struct {
	AllocMB      uint64 `json:"alloc_mb"`
	TotalAllocMB uint64 `json:"total_alloc_mb"`
	SysMB        uint64 `json:"sys_mb"`
	NumGC        uint32 `json:"num_gc"`
	Goroutines   int    `json:"goroutines"`
	GoVersion    string `json:"go_version"`
	Uptime       string `json:"uptime"`
}

// GetSysHealth collects real-time health data for a process started at started.
func GetSysHealth(started time.Time) SysHealth {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return SysHealth{
		AllocMB:      m.Alloc / 1024 / 1024,
		TotalAllocMB: m.TotalAlloc / 1024 / 1024,
		SysMB:        m.Sys / 1024 / 1024,
		NumGC:        m.NumGC,
		Goroutines:   runtime.NumGoroutine(),
		GoVersion:    runtime.Version(),
		Uptime:       time.Since(started).Round(time.Second).String(),
	}
}
