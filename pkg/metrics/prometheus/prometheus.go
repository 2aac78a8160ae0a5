package prometheus

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/strandlabs/vaultwire/pkg/wire"
)

type MetricsConfig struct {
	Namespace   string
	SubSession  string
	TickSession time.Duration
}

func DefaultConfig() *MetricsConfig {
	return &MetricsConfig{
		Namespace:   "vaultwire",
		SubSession:  "session",
		TickSession: 100 * time.Millisecond,
	}
}

type Metrics struct {
	reg    prometheus.Registerer
	lock   sync.Mutex
	config *MetricsConfig

	// session
	sessionFramesIn       *prometheus.GaugeVec
	sessionFramesOut      *prometheus.GaugeVec
	sessionWorkflowsRun   *prometheus.GaugeVec
	sessionDomainFailures *prometheus.GaugeVec
	sessionFaults         *prometheus.GaugeVec
	sessionInterruptions  *prometheus.GaugeVec
	sessionUnknownTypes   *prometheus.GaugeVec

	cancelfns map[string]context.CancelFunc
}

func New(reg prometheus.Registerer, config *MetricsConfig) *Metrics {
	m := &Metrics{
		reg:    reg,
		config: config,

		sessionFramesIn: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: config.Namespace, Subsystem: config.SubSession, Name: "frames_in", Help: "Frames received"}, []string{"session"}),
		sessionFramesOut: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: config.Namespace, Subsystem: config.SubSession, Name: "frames_out", Help: "Frames written"}, []string{"session"}),
		sessionWorkflowsRun: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: config.Namespace, Subsystem: config.SubSession, Name: "workflows_run", Help: "Workflows dispatched"}, []string{"session"}),
		sessionDomainFailures: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: config.Namespace, Subsystem: config.SubSession, Name: "domain_failures", Help: "Workflows ended in a domain failure"}, []string{"session"}),
		sessionFaults: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: config.Namespace, Subsystem: config.SubSession, Name: "faults", Help: "Workflows ended in a generic fault"}, []string{"session"}),
		sessionInterruptions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: config.Namespace, Subsystem: config.SubSession, Name: "interruptions", Help: "Workflow waits aborted by an unexpected message"}, []string{"session"}),
		sessionUnknownTypes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: config.Namespace, Subsystem: config.SubSession, Name: "unknown_types", Help: "Frames with no registered workflow"}, []string{"session"}),

		cancelfns: make(map[string]context.CancelFunc),
	}

	reg.MustRegister(m.sessionFramesIn, m.sessionFramesOut, m.sessionWorkflowsRun,
		m.sessionDomainFailures, m.sessionFaults, m.sessionInterruptions, m.sessionUnknownTypes)

	return m
}

func (m *Metrics) add(subsystem string, name string, interval time.Duration, tickfn func()) {
	ctx, cancelfn := context.WithCancel(context.TODO())
	m.lock.Lock()
	m.cancelfns[fmt.Sprintf("%s_%s", subsystem, name)] = cancelfn
	m.lock.Unlock()

	ticker := time.NewTicker(interval)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				tickfn()
			}
		}
	}()
}

func (m *Metrics) remove(subsystem string, name string) {
	m.lock.Lock()
	cancelfn, ok := m.cancelfns[fmt.Sprintf("%s_%s", subsystem, name)]
	if ok {
		cancelfn()
		delete(m.cancelfns, fmt.Sprintf("%s_%s", subsystem, name))
	}
	m.lock.Unlock()
}

// Shutdown everything
func (m *Metrics) Shutdown() {
	m.lock.Lock()
	for _, cancelfn := range m.cancelfns {
		cancelfn()
	}
	m.cancelfns = make(map[string]context.CancelFunc)
	m.lock.Unlock()
}

func (m *Metrics) AddSession(name string, s *wire.Session) {
	m.add(m.config.SubSession, name, m.config.TickSession, func() {
		met := s.GetMetrics()
		m.sessionFramesIn.WithLabelValues(name).Set(float64(met.FramesIn))
		m.sessionFramesOut.WithLabelValues(name).Set(float64(met.FramesOut))
		m.sessionWorkflowsRun.WithLabelValues(name).Set(float64(met.WorkflowsRun))
		m.sessionDomainFailures.WithLabelValues(name).Set(float64(met.DomainFailures))
		m.sessionFaults.WithLabelValues(name).Set(float64(met.Faults))
		m.sessionInterruptions.WithLabelValues(name).Set(float64(met.Interruptions))
		m.sessionUnknownTypes.WithLabelValues(name).Set(float64(met.UnknownTypes))
	})
}

func (m *Metrics) RemoveSession(name string) {
	m.remove(m.config.SubSession, name)
}
