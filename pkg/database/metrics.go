package database

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// PoolStatser is satisfied by *pgxpool.Pool.
type PoolStatser interface {
	Stat() *pgxpool.Stat
}

// PoolStatsCollector exports pgxpool statistics as Prometheus metrics.
type PoolStatsCollector struct {
	pool PoolStatser

	acquiredConns   *prometheus.Desc
	idleConns       *prometheus.Desc
	totalConns      *prometheus.Desc
	maxConns        *prometheus.Desc
	acquireCount    *prometheus.Desc
	acquireDuration *prometheus.Desc
	emptyAcquires   *prometheus.Desc
}

// NewPoolStatsCollector creates a collector for the given pool.
func NewPoolStatsCollector(pool PoolStatser) *PoolStatsCollector {
	return &PoolStatsCollector{
		pool:            pool,
		acquiredConns:   prometheus.NewDesc("db_pool_acquired_connections", "Number of currently acquired connections", nil, nil),
		idleConns:       prometheus.NewDesc("db_pool_idle_connections", "Number of currently idle connections", nil, nil),
		totalConns:      prometheus.NewDesc("db_pool_total_connections", "Total number of connections in the pool", nil, nil),
		maxConns:        prometheus.NewDesc("db_pool_max_connections", "Maximum size of the pool", nil, nil),
		acquireCount:    prometheus.NewDesc("db_pool_acquire_total", "Cumulative count of successful acquires", nil, nil),
		acquireDuration: prometheus.NewDesc("db_pool_acquire_duration_seconds_total", "Total time spent acquiring connections", nil, nil),
		emptyAcquires:   prometheus.NewDesc("db_pool_empty_acquire_total", "Acquires that waited because the pool was empty", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *PoolStatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.acquiredConns
	ch <- c.idleConns
	ch <- c.totalConns
	ch <- c.maxConns
	ch <- c.acquireCount
	ch <- c.acquireDuration
	ch <- c.emptyAcquires
}

// Collect implements prometheus.Collector.
func (c *PoolStatsCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.pool.Stat()
	ch <- prometheus.MustNewConstMetric(c.acquiredConns, prometheus.GaugeValue, float64(s.AcquiredConns()))
	ch <- prometheus.MustNewConstMetric(c.idleConns, prometheus.GaugeValue, float64(s.IdleConns()))
	ch <- prometheus.MustNewConstMetric(c.totalConns, prometheus.GaugeValue, float64(s.TotalConns()))
	ch <- prometheus.MustNewConstMetric(c.maxConns, prometheus.GaugeValue, float64(s.MaxConns()))
	ch <- prometheus.MustNewConstMetric(c.acquireCount, prometheus.CounterValue, float64(s.AcquireCount()))
	ch <- prometheus.MustNewConstMetric(c.acquireDuration, prometheus.CounterValue, s.AcquireDuration().Seconds())
	ch <- prometheus.MustNewConstMetric(c.emptyAcquires, prometheus.CounterValue, float64(s.EmptyAcquireCount()))
}
