package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Checks counts check outcomes by check name and outcome.
type Checks struct {
	total *prometheus.CounterVec
}

func New(reg prometheus.Registerer) (*Checks, error) {
	total := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "approval_checks_total",
			Help: "Validation checks run, by check and outcome.",
		},
		[]string{"check", "outcome"},
	)
	if err := reg.Register(total); err != nil {
		return nil, err
	}
	return &Checks{total: total}, nil
}

func (c *Checks) ObserveCheck(check string, approved bool) {
	outcome := "rejected"
	if approved {
		outcome = "approved"
	}
	c.total.WithLabelValues(check, outcome).Inc()
}
