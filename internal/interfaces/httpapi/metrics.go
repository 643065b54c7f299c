package httpapi

import (
	"sync"
	"time"
)

// Metrics tracks request-level counters for the /metrics endpoint.
type Metrics struct {
	mu              sync.RWMutex
	startTime       time.Time
	requestsTotal   uint64
	requestsOK      uint64
	badRequests     uint64
	upstreamErrs    uint64
	throttled       uint64
	lastDuration    time.Duration
	maxDuration     time.Duration
	lastAddress     string
	lastTxCount     int
	totalTxReported uint64
}

func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

func (m *Metrics) OnRequest() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestsTotal++
}

func (m *Metrics) OnBadRequest() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.badRequests++
}

func (m *Metrics) OnUpstreamError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upstreamErrs++
}

func (m *Metrics) OnThrottled() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.throttled++
}

func (m *Metrics) OnReport(address string, txCount int, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestsOK++
	m.lastAddress = address
	m.lastTxCount = txCount
	m.totalTxReported += uint64(txCount)
	m.lastDuration = duration
	if duration > m.maxDuration {
		m.maxDuration = duration
	}
}

type Snapshot struct {
	StartTime       time.Time
	RequestsTotal   uint64
	RequestsOK      uint64
	BadRequests     uint64
	UpstreamErrs    uint64
	Throttled       uint64
	LastDuration    time.Duration
	MaxDuration     time.Duration
	LastAddress     string
	LastTxCount     int
	TotalTxReported uint64
}

func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{
		StartTime:       m.startTime,
		RequestsTotal:   m.requestsTotal,
		RequestsOK:      m.requestsOK,
		BadRequests:     m.badRequests,
		UpstreamErrs:    m.upstreamErrs,
		Throttled:       m.throttled,
		LastDuration:    m.lastDuration,
		MaxDuration:     m.maxDuration,
		LastAddress:     m.lastAddress,
		LastTxCount:     m.lastTxCount,
		TotalTxReported: m.totalTxReported,
	}
}
