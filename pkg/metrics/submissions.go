// Package metrics 进程内的提交统计
package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Operation 外部调用类型
type Operation string

const (
	OpUpload  Operation = "upload"
	OpAppend  Operation = "append"
	OpPublish Operation = "publish"
)

// Outcome 提交结果
type Outcome string

const (
	OutcomeRecorded       Outcome = "recorded"
	OutcomeInvalid        Outcome = "invalid"
	OutcomeUploadRejected Outcome = "upload_rejected"
	OutcomeWriteRejected  Outcome = "write_rejected"
)

// LatencyStats 延迟统计
type LatencyStats struct {
	mu     sync.Mutex
	count  int64
	errors int64
	total  time.Duration
	min    time.Duration
	max    time.Duration
}

// LatencySnapshot 延迟统计快照
type LatencySnapshot struct {
	Count  int64  `json:"count"`
	Errors int64  `json:"errors"`
	Avg    string `json:"avg"`
	Min    string `json:"min"`
	Max    string `json:"max"`
}

func (s *LatencyStats) record(d time.Duration, failed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.count++
	if failed {
		s.errors++
	}
	s.total += d
	if s.min == 0 || d < s.min {
		s.min = d
	}
	if d > s.max {
		s.max = d
	}
}

func (s *LatencyStats) snapshot() LatencySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := LatencySnapshot{
		Count:  s.count,
		Errors: s.errors,
		Min:    s.min.String(),
		Max:    s.max.String(),
		Avg:    time.Duration(0).String(),
	}
	if s.count > 0 {
		snap.Avg = (s.total / time.Duration(s.count)).String()
	}
	return snap
}

// Submissions 提交结果计数与外部调用延迟
type Submissions struct {
	recorded       atomic.Int64
	invalid        atomic.Int64
	uploadRejected atomic.Int64
	writeRejected  atomic.Int64

	latency sync.Map // map[Operation]*LatencyStats
	started time.Time
}

// Snapshot 统计快照
type Snapshot struct {
	Recorded       int64                         `json:"recorded"`
	Invalid        int64                         `json:"invalid"`
	UploadRejected int64                         `json:"upload_rejected"`
	WriteRejected  int64                         `json:"write_rejected"`
	Latency        map[Operation]LatencySnapshot `json:"latency"`
	Uptime         string                        `json:"uptime"`
}

// NewSubmissions 创建统计
func NewSubmissions() *Submissions {
	return &Submissions{started: time.Now()}
}

// RecordOutcome 记录一次提交的结果
func (m *Submissions) RecordOutcome(o Outcome) {
	switch o {
	case OutcomeRecorded:
		m.recorded.Add(1)
	case OutcomeInvalid:
		m.invalid.Add(1)
	case OutcomeUploadRejected:
		m.uploadRejected.Add(1)
	case OutcomeWriteRejected:
		m.writeRejected.Add(1)
	}
}

// RecordLatency 记录一次外部调用的耗时
func (m *Submissions) RecordLatency(op Operation, d time.Duration, err error) {
	stats, _ := m.latency.LoadOrStore(op, &LatencyStats{})
	stats.(*LatencyStats).record(d, err != nil)
}

// Snapshot 当前统计
func (m *Submissions) Snapshot() Snapshot {
	snap := Snapshot{
		Recorded:       m.recorded.Load(),
		Invalid:        m.invalid.Load(),
		UploadRejected: m.uploadRejected.Load(),
		WriteRejected:  m.writeRejected.Load(),
		Latency:        make(map[Operation]LatencySnapshot),
		Uptime:         time.Since(m.started).Truncate(time.Second).String(),
	}
	m.latency.Range(func(key, value any) bool {
		snap.Latency[key.(Operation)] = value.(*LatencyStats).snapshot()
		return true
	})
	return snap
}
