// Copyright (C) 2023 Gobalsky Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package metrics

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"code.vegaprotocol.io/vaults/logging"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// Gauge ...
	Gauge instrument = iota
	// Counter ...
	Counter
	// Histogram ...
	Histogram
)

const namespace = "vaults"

var (
	// ErrInstrumentNotSupported signals the specified instrument is not yet supported.
	ErrInstrumentNotSupported = errors.New("instrument type unsupported")
	// ErrInstrumentTypeMismatch signal the type of the instrument is not expected.
	ErrInstrumentTypeMismatch = errors.New("instrument is not of the expected type")
)

var (
	setupOnce sync.Once
	setupErr  error

	vaultOperationCounter *prometheus.CounterVec
	vaultTotalAssetsGauge *prometheus.GaugeVec
	vaultTotalSupplyGauge *prometheus.GaugeVec
	commissionCounter     *prometheus.CounterVec
	commissionSplitTime   *prometheus.HistogramVec
)

// abstract prometheus types.
type instrument int

type instrumentOpts struct {
	opts    prometheus.Opts
	buckets []float64
	vectors []string
}

type mi struct {
	gaugeV     *prometheus.GaugeVec
	gauge      prometheus.Gauge
	counterV   *prometheus.CounterVec
	counter    prometheus.Counter
	histogramV *prometheus.HistogramVec
	histogram  prometheus.Histogram
}

// InstrumentOption - vararg for instrument options setting.
type InstrumentOption func(o *instrumentOpts)

// Vectors - configuration used to create a vector of a given interface, slice of label names.
func Vectors(labels ...string) InstrumentOption {
	return func(o *instrumentOpts) {
		o.vectors = labels
	}
}

// Help - set the help field on instrument.
func Help(help string) InstrumentOption {
	return func(o *instrumentOpts) {
		o.opts.Help = help
	}
}

// Namespace - set namespace.
func Namespace(ns string) InstrumentOption {
	return func(o *instrumentOpts) {
		o.opts.Namespace = ns
	}
}

// Buckets - specific to histogram type.
func Buckets(b []float64) InstrumentOption {
	return func(o *instrumentOpts) {
		o.buckets = b
	}
}

// AddInstrument configure and register new metrics instrument.
func AddInstrument(t instrument, name string, opts ...InstrumentOption) (*mi, error) {
	var col prometheus.Collector
	ret := mi{}
	opt := instrumentOpts{
		opts: prometheus.Opts{
			Name: name,
		},
	}
	for _, o := range opts {
		o(&opt)
	}
	switch t {
	case Gauge:
		o := prometheus.GaugeOpts(opt.opts)
		if len(opt.vectors) == 0 {
			ret.gauge = prometheus.NewGauge(o)
			col = ret.gauge
		} else {
			ret.gaugeV = prometheus.NewGaugeVec(o, opt.vectors)
			col = ret.gaugeV
		}
	case Counter:
		o := prometheus.CounterOpts(opt.opts)
		if len(opt.vectors) == 0 {
			ret.counter = prometheus.NewCounter(o)
			col = ret.counter
		} else {
			ret.counterV = prometheus.NewCounterVec(o, opt.vectors)
			col = ret.counterV
		}
	case Histogram:
		o := prometheus.HistogramOpts{
			Name:      opt.opts.Name,
			Namespace: opt.opts.Namespace,
			Help:      opt.opts.Help,
			Buckets:   opt.buckets,
		}
		if len(opt.vectors) == 0 {
			ret.histogram = prometheus.NewHistogram(o)
			col = ret.histogram
		} else {
			ret.histogramV = prometheus.NewHistogramVec(o, opt.vectors)
			col = ret.histogramV
		}
	default:
		return nil, ErrInstrumentNotSupported
	}
	if err := prometheus.Register(col); err != nil {
		return nil, errors.Wrapf(err, "could not register instrument %s", name)
	}
	return &ret, nil
}

// Gauge returns a prometheus Gauge instrument.
func (m mi) Gauge() (prometheus.Gauge, error) {
	if m.gauge == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.gauge, nil
}

// GaugeVec returns a prometheus GaugeVec instrument.
func (m mi) GaugeVec() (*prometheus.GaugeVec, error) {
	if m.gaugeV == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.gaugeV, nil
}

// Counter returns a prometheus Counter instrument.
func (m mi) Counter() (prometheus.Counter, error) {
	if m.counter == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.counter, nil
}

// CounterVec returns a prometheus CounterVec instrument.
func (m mi) CounterVec() (*prometheus.CounterVec, error) {
	if m.counterV == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.counterV, nil
}

func (m mi) HistogramVec() (*prometheus.HistogramVec, error) {
	if m.histogramV == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.histogramV, nil
}

// Setup registers the vault and commission instruments, it is safe
// to call it more than once.
func Setup() error {
	setupOnce.Do(func() {
		setupErr = setupMetrics()
	})
	return setupErr
}

// Start registers the instruments and serves them over http if enabled.
// The server is shut down when the context is cancelled.
func Start(ctx context.Context, log *logging.Logger, conf Config) error {
	if !conf.Enabled {
		return nil
	}
	if err := Setup(); err != nil {
		return errors.Wrap(err, "could not set up metrics")
	}

	log = log.Named(namedLogger)
	log.SetLevel(conf.Level.Get())

	mux := http.NewServeMux()
	mux.Handle(conf.Path, promhttp.Handler())
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", conf.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()
	go func() {
		log.Info("starting prometheus endpoint",
			logging.Int("port", conf.Port),
			logging.String("path", conf.Path))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("prometheus endpoint stopped", logging.Error(err))
		}
	}()
	return nil
}

func setupMetrics() error {
	h, err := AddInstrument(
		Counter,
		"vault_operations_total",
		Namespace(namespace),
		Vectors("asset", "operation", "result"),
		Help("Number of vault operations processed, by outcome"),
	)
	if err != nil {
		return err
	}
	if vaultOperationCounter, err = h.CounterVec(); err != nil {
		return err
	}

	h, err = AddInstrument(
		Gauge,
		"vault_total_assets",
		Namespace(namespace),
		Vectors("asset"),
		Help("Total assets held by a vault, including unrealised interest"),
	)
	if err != nil {
		return err
	}
	if vaultTotalAssetsGauge, err = h.GaugeVec(); err != nil {
		return err
	}

	h, err = AddInstrument(
		Gauge,
		"vault_total_supply",
		Namespace(namespace),
		Vectors("asset"),
		Help("Total shares outstanding in a vault"),
	)
	if err != nil {
		return err
	}
	if vaultTotalSupplyGauge, err = h.GaugeVec(); err != nil {
		return err
	}

	h, err = AddInstrument(
		Counter,
		"commission_distributed_total",
		Namespace(namespace),
		Vectors("recipient"),
		Help("Commission shares distributed, by recipient kind"),
	)
	if err != nil {
		return err
	}
	if commissionCounter, err = h.CounterVec(); err != nil {
		return err
	}

	h, err = AddInstrument(
		Histogram,
		"commission_charge_seconds",
		Namespace(namespace),
		Vectors("result"),
		Buckets(prometheus.ExponentialBuckets(0.00001, 4, 8)),
		Help("Time spent charging a commission"),
	)
	if err != nil {
		return err
	}
	commissionSplitTime, err = h.HistogramVec()
	return err
}

// VaultOperationCounterInc increments the vault operations counter.
func VaultOperationCounterInc(asset, operation, result string) {
	if vaultOperationCounter == nil {
		return
	}
	vaultOperationCounter.WithLabelValues(asset, operation, result).Inc()
}

// VaultTotalsGaugeSet records the current totals of a vault.
func VaultTotalsGaugeSet(asset string, totalAssets, totalSupply float64) {
	if vaultTotalAssetsGauge == nil || vaultTotalSupplyGauge == nil {
		return
	}
	vaultTotalAssetsGauge.WithLabelValues(asset).Set(totalAssets)
	vaultTotalSupplyGauge.WithLabelValues(asset).Set(totalSupply)
}

// CommissionDistributedAdd adds the shares paid to a recipient kind.
func CommissionDistributedAdd(recipient string, amount float64) {
	if commissionCounter == nil {
		return
	}
	commissionCounter.WithLabelValues(recipient).Add(amount)
}

// StartCommissionCharge returns a function recording the time spent
// charging a commission once called with the outcome.
func StartCommissionCharge() func(result string) {
	startTime := time.Now()
	return func(result string) {
		if commissionSplitTime == nil {
			return
		}
		commissionSplitTime.WithLabelValues(result).Observe(time.Since(startTime).Seconds())
	}
}
