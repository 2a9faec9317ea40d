package server

import (
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// SystemHandlers exposes liveness and host resource information.
type SystemHandlers struct {
	startupTime time.Time
	log         zerolog.Logger
}

// NewSystemHandlers creates new system handlers
func NewSystemHandlers(log zerolog.Logger) *SystemHandlers {
	return &SystemHandlers{
		startupTime: time.Now(),
		log:         log.With().Str("handler", "system").Logger(),
	}
}

// HandleHealth handles GET /api/health — cheap liveness probe.
func (h *SystemHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// HandleSystemHealth handles GET /api/system/health — uptime plus host
// CPU and memory usage.
func (h *SystemHandlers) HandleSystemHealth(w http.ResponseWriter, r *http.Request) {
	payload := map[string]interface{}{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(h.startupTime).Seconds()),
		"goroutines":     runtime.NumGoroutine(),
	}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		payload["cpu_percent"] = percents[0]
	} else if err != nil {
		h.log.Debug().Err(err).Msg("Failed to read CPU usage")
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		payload["memory_percent"] = vm.UsedPercent
		payload["memory_total_mb"] = vm.Total / 1024 / 1024
	} else {
		h.log.Debug().Err(err).Msg("Failed to read memory usage")
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}
