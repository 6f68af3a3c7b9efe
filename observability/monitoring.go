// Package observability aggregates runtime counters for the stats endpoint.
package observability

import (
	"log/slog"
	"os"
	"runtime"
	"sync/atomic"

	"github.com/shirou/gopsutil/process"
)

// Stats is the snapshot served on /statsz.
type Stats struct {
	MessagesSent            uint64  `json:"messages_sent"`
	MessagesEdited          uint64  `json:"messages_edited"`
	MessagesDeleted         uint64  `json:"messages_deleted"`
	NotificationsDispatched uint64  `json:"notifications_dispatched"`
	DispatchFailures        uint64  `json:"dispatch_failures"`
	AllocMemMB              uint64  `json:"alloc_mem_mb"`
	NumGC                   uint32  `json:"num_gc"`
	RSSBytes                uint64  `json:"rss_bytes"`
	CPUPercent              float64 `json:"cpu_percent"`
}

// Monitor is safe for concurrent use; all counters are atomics.
type Monitor struct {
	log  *slog.Logger
	proc *process.Process

	messagesSent            uint64
	messagesEdited          uint64
	messagesDeleted         uint64
	notificationsDispatched uint64
	dispatchFailures        uint64
}

func NewMonitor(log *slog.Logger) *Monitor {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		log.Warn("Process metrics unavailable", "error", err)
	}
	return &Monitor{log: log, proc: proc}
}

func (m *Monitor) IncrMessagesSent()    { atomic.AddUint64(&m.messagesSent, 1) }
func (m *Monitor) IncrMessagesEdited()  { atomic.AddUint64(&m.messagesEdited, 1) }
func (m *Monitor) IncrMessagesDeleted() { atomic.AddUint64(&m.messagesDeleted, 1) }

func (m *Monitor) IncrNotificationsDispatched() {
	atomic.AddUint64(&m.notificationsDispatched, 1)
}

func (m *Monitor) IncrDispatchFailures() { atomic.AddUint64(&m.dispatchFailures, 1) }

// Snapshot combines the domain counters with Go runtime and OS process
// metrics.
func (m *Monitor) Snapshot() Stats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	stats := Stats{
		MessagesSent:            atomic.LoadUint64(&m.messagesSent),
		MessagesEdited:          atomic.LoadUint64(&m.messagesEdited),
		MessagesDeleted:         atomic.LoadUint64(&m.messagesDeleted),
		NotificationsDispatched: atomic.LoadUint64(&m.notificationsDispatched),
		DispatchFailures:        atomic.LoadUint64(&m.dispatchFailures),
		AllocMemMB:              memStats.Alloc / 1024 / 1024,
		NumGC:                   memStats.NumGC,
	}

	if m.proc != nil {
		if memInfo, err := m.proc.MemoryInfo(); err == nil {
			stats.RSSBytes = memInfo.RSS
		}
		if cpuPercent, err := m.proc.CPUPercent(); err == nil {
			stats.CPUPercent = cpuPercent
		}
	}
	return stats
}
