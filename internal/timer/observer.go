package timer

import (
	"github.com/2beens/fitdash/internal/countdown"
	"github.com/2beens/fitdash/internal/telemetry/metrics"

	log "github.com/sirupsen/logrus"
)

var _ countdown.Observer = (*metricsObserver)(nil)

// metricsObserver turns countdown events of one session into prometheus
// metrics and trace logs.
type metricsObserver struct {
	sessionToken   string
	metricsManager *metrics.Manager
}

func (o *metricsObserver) Started(minutes int) {
	log.Tracef("timer [%s] started, %d min", o.sessionToken, minutes)
	o.metricsManager.CounterTimerEvents.WithLabelValues("started").Inc()
	o.metricsManager.GaugeRunningTimer.Inc()
	o.metricsManager.HistogramTimerMinutes.Observe(float64(minutes))
}

func (o *metricsObserver) Paused(remainingSeconds int) {
	log.Tracef("timer [%s] paused, %s left", o.sessionToken, countdown.FormatTime(remainingSeconds))
	o.metricsManager.CounterTimerEvents.WithLabelValues("paused").Inc()
	o.metricsManager.GaugeRunningTimer.Dec()
}

func (o *metricsObserver) Restarted(minutes int) {
	log.Tracef("timer [%s] restarted, %d min", o.sessionToken, minutes)
	o.metricsManager.CounterTimerEvents.WithLabelValues("restarted").Inc()
	o.metricsManager.HistogramTimerMinutes.Observe(float64(minutes))
}

func (o *metricsObserver) Ticked(int) {
	o.metricsManager.CounterTimerTicks.Inc()
}

func (o *metricsObserver) Completed() {
	log.Debugf("timer [%s] completed", o.sessionToken)
	o.metricsManager.CounterTimerEvents.WithLabelValues("completed").Inc()
	o.metricsManager.GaugeRunningTimer.Dec()
}

func (o *metricsObserver) Closed(running bool) {
	if running {
		o.metricsManager.GaugeRunningTimer.Dec()
	}
}
