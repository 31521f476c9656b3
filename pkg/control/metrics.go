package control

import "github.com/prometheus/client_golang/prometheus"

// metrics are the loop's prometheus collectors. Registration is optional;
// a nil metrics value disables collection.
type metrics struct {
	commands *prometheus.CounterVec
	ticks    *prometheus.CounterVec
	cycles   prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "canopy_commands_total",
				Help: "Commands applied by the control loop, by command kind.",
			},
			[]string{"command"},
		),
		ticks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "canopy_root_ticks_total",
				Help: "Root executions performed by the control loop, by outcome.",
			},
			[]string{"status"},
		),
		cycles: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "canopy_loop_cycles_total",
				Help: "Poll/tick cycles completed by the control loop.",
			},
		),
	}
	reg.MustRegister(m.commands, m.ticks, m.cycles)
	return m
}

func (m *metrics) observeCommand(name string) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(name).Inc()
}

func (m *metrics) observeTick(outcome string) {
	if m == nil {
		return
	}
	m.ticks.WithLabelValues(outcome).Inc()
}

func (m *metrics) observeCycle() {
	if m == nil {
		return
	}
	m.cycles.Inc()
}
