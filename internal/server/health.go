package server

import (
	"sort"
	"sync"
	"time"
)

// Component names tracked by the server.
const (
	ComponentGenerator = "generator"
	ComponentStore     = "store"
)

// ComponentStatus is the last observed state of one dependency.
type ComponentStatus struct {
	Healthy     bool      `json:"healthy"`
	Message     string    `json:"message"`
	LastCheck   time.Time `json:"last_check"`
	LastSuccess time.Time `json:"last_success,omitzero"`
}

// StatusReport is the body of GET /api/status.
type StatusReport struct {
	Healthy    bool                       `json:"healthy"`
	Uptime     string                     `json:"uptime"`
	Components map[string]ComponentStatus `json:"components"`
}

// Health tracks dependency health from the outcome of real calls.
type Health struct {
	mu         sync.RWMutex
	started    time.Time
	components map[string]*ComponentStatus
}

// NewHealth creates a new health tracker.
func NewHealth() *Health {
	return &Health{
		started:    time.Now(),
		components: make(map[string]*ComponentStatus),
	}
}

// SetHealthy marks a component as healthy.
func (h *Health) SetHealthy(component, message string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := time.Now()
	status := h.component(component)
	status.Healthy = true
	status.Message = message
	status.LastCheck = now
	status.LastSuccess = now
}

// SetUnhealthy marks a component as unhealthy. Only the error text is kept.
func (h *Health) SetUnhealthy(component string, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	status := h.component(component)
	status.Healthy = false
	status.Message = err.Error()
	status.LastCheck = time.Now()
}

// component returns the entry for name, creating it. Caller holds mu.
func (h *Health) component(name string) *ComponentStatus {
	status, ok := h.components[name]
	if !ok {
		status = &ComponentStatus{}
		h.components[name] = status
	}
	return status
}

// Status returns a copy of one component's status.
func (h *Health) Status(component string) (ComponentStatus, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status, ok := h.components[component]
	if !ok {
		return ComponentStatus{}, false
	}
	return *status, true
}

// Names returns the tracked component names, sorted.
func (h *Health) Names() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, 0, len(h.components))
	for name := range h.components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Report snapshots every component. Overall health is true when no
// component is unhealthy, including when nothing has been observed yet.
func (h *Health) Report() StatusReport {
	h.mu.RLock()
	defer h.mu.RUnlock()

	report := StatusReport{
		Healthy:    true,
		Uptime:     time.Since(h.started).Round(time.Second).String(),
		Components: make(map[string]ComponentStatus, len(h.components)),
	}
	for name, status := range h.components {
		report.Components[name] = *status
		if !status.Healthy {
			report.Healthy = false
		}
	}
	return report
}
