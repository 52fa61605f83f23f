package common

import (
	"sync"
	"time"
)

// NegotiationMetrics holds counters for the agent's negotiation activity
type NegotiationMetrics struct {
	MessagesReceived int64 `json:"messages_received"`
	MessagesIgnored  int64 `json:"messages_ignored"`
	MessagesSent     int64 `json:"messages_sent"`
	ProcessingErrors int64 `json:"processing_errors"`
	RelayErrors      int64 `json:"relay_errors"`

	BidsByType map[BidType]int64 `json:"bids_by_type"`

	ProcessingLatency time.Duration `json:"processing_latency"`

	mu sync.RWMutex
}

// NewNegotiationMetrics creates a new metrics instance
func NewNegotiationMetrics() *NegotiationMetrics {
	return &NegotiationMetrics{
		BidsByType: make(map[BidType]int64),
	}
}

// IncrementMessagesReceived increments the messages received counter
func (m *NegotiationMetrics) IncrementMessagesReceived() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MessagesReceived++
}

// IncrementMessagesIgnored increments the counter of messages that produced no reply
func (m *NegotiationMetrics) IncrementMessagesIgnored() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MessagesIgnored++
}

// IncrementMessagesSent increments the messages sent counter
func (m *NegotiationMetrics) IncrementMessagesSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MessagesSent++
}

// IncrementProcessingErrors increments the processing errors counter
func (m *NegotiationMetrics) IncrementProcessingErrors() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ProcessingErrors++
}

// IncrementRelayErrors increments the relay errors counter
func (m *NegotiationMetrics) IncrementRelayErrors() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RelayErrors++
}

// RecordBid counts a generated bid by type
func (m *NegotiationMetrics) RecordBid(t BidType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BidsByType[t]++
}

// UpdateProcessingLatency updates the processing latency moving average
func (m *NegotiationMetrics) UpdateProcessingLatency(latency time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ProcessingLatency == 0 {
		m.ProcessingLatency = latency
	} else {
		// Simple exponential moving average with alpha = 0.1
		m.ProcessingLatency = time.Duration(float64(m.ProcessingLatency)*0.9 + float64(latency)*0.1)
	}
}

// NegotiationMetricsSnapshot represents a point-in-time metrics snapshot
type NegotiationMetricsSnapshot struct {
	MessagesReceived  int64             `json:"messages_received"`
	MessagesIgnored   int64             `json:"messages_ignored"`
	MessagesSent      int64             `json:"messages_sent"`
	ProcessingErrors  int64             `json:"processing_errors"`
	RelayErrors       int64             `json:"relay_errors"`
	BidsByType        map[BidType]int64 `json:"bids_by_type"`
	ProcessingLatency time.Duration     `json:"processing_latency"`
	Timestamp         time.Time         `json:"timestamp"`
}

// GetSnapshot returns a snapshot of current metrics
func (m *NegotiationMetrics) GetSnapshot() NegotiationMetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	bids := make(map[BidType]int64, len(m.BidsByType))
	for t, n := range m.BidsByType {
		bids[t] = n
	}

	return NegotiationMetricsSnapshot{
		MessagesReceived:  m.MessagesReceived,
		MessagesIgnored:   m.MessagesIgnored,
		MessagesSent:      m.MessagesSent,
		ProcessingErrors:  m.ProcessingErrors,
		RelayErrors:       m.RelayErrors,
		BidsByType:        bids,
		ProcessingLatency: m.ProcessingLatency,
		Timestamp:         time.Now(),
	}
}

// Reset resets all metrics to zero
func (m *NegotiationMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.MessagesReceived = 0
	m.MessagesIgnored = 0
	m.MessagesSent = 0
	m.ProcessingErrors = 0
	m.RelayErrors = 0
	m.BidsByType = make(map[BidType]int64)
	m.ProcessingLatency = 0
}
