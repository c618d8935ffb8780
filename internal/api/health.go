package api

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	psnet "github.com/shirou/gopsutil/v3/net"
)

var processStart = time.Now()

// HealthCheck reports process and host diagnostics plus storage connectivity.
// It never fails; storage trouble is surfaced as data.
func HealthCheck(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		data := map[string]any{
			"message":      "Sleep Tracker API v1 working!",
			"serverUptime": formatUptime(time.Since(processStart).Seconds()),
			"timestamp":    time.Now().UTC().Format(time.RFC1123),
			"goVersion":    runtime.Version(),
			"architecture": runtime.GOARCH,
			"goroutines":   runtime.NumGoroutine(),
			"reqIP":        clientIP(c),
		}

		if info, err := host.Info(); err == nil {
			data["osUptime"] = formatUptime(float64(info.Uptime))
			data["hostname"] = info.Hostname
			data["platform"] = info.Platform
			data["osType"] = info.OS
			data["osRelease"] = info.PlatformVersion
			data["kernelVersion"] = info.KernelVersion
		}
		if counts, err := cpu.Counts(true); err == nil {
			data["cpuCount"] = counts
		}
		if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
			data["cpuModel"] = infos[0].ModelName
		}
		if vm, err := mem.VirtualMemory(); err == nil {
			data["totalMemory"] = vm.Total
			data["freeMemory"] = vm.Available
		}
		if avg, err := load.Avg(); err == nil {
			data["loadAverage"] = []float64{avg.Load1, avg.Load5, avg.Load15}
		}
		if ifaces, err := psnet.Interfaces(); err == nil {
			nets := make(map[string][]string, len(ifaces))
			for _, iface := range ifaces {
				addrs := make([]string, 0, len(iface.Addrs))
				for _, a := range iface.Addrs {
					addrs = append(addrs, a.Addr)
				}
				nets[iface.Name] = addrs
			}
			data["networkInterfaces"] = nets
		}

		status := app.StorageStatus(c.Request.Context())
		data["storageStatus"] = status

		HandleSuccess(c, http.StatusOK, "Health check completed successfully", data)
	}
}

// formatUptime renders seconds as HH:MM:SS.
func formatUptime(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
