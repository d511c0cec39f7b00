package core

import "sync"

// AckKey identifies one acknowledged sales report: co_no + "-" + sr_id.
type AckKey string

// NewAckKey builds the acknowledgment key of a report within an order.
func NewAckKey(orderNumber, reportID string) AckKey {
	return AckKey(orderNumber + "-" + reportID)
}

// AcknowledgmentTracker records which awaiting-invoice reports the user has
// acknowledged. The set only grows; there is no way to withdraw an acknowledgment.
type AcknowledgmentTracker struct {
	mu   sync.RWMutex
	keys map[AckKey]struct{}
}

// NewAcknowledgmentTracker returns an empty tracker.
func NewAcknowledgmentTracker() *AcknowledgmentTracker {
	return &AcknowledgmentTracker{keys: make(map[AckKey]struct{})}
}

// Acknowledge marks the report as acknowledged. It returns true when the key
// was not present before.
func (t *AcknowledgmentTracker) Acknowledge(orderNumber, reportID string) bool {
	k := NewAckKey(orderNumber, reportID)
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.keys[k]; ok {
		return false
	}
	t.keys[k] = struct{}{}
	return true
}

// IsAcknowledged reports whether the report has been acknowledged.
func (t *AcknowledgmentTracker) IsAcknowledged(orderNumber, reportID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.keys[NewAckKey(orderNumber, reportID)]
	return ok
}

// Len returns the number of acknowledged reports.
func (t *AcknowledgmentTracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.keys)
}
