package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	KernelsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kernels_created_total",
		Help: "The total number of kernel instances created (fresh or cloned)",
	})

	KernelsFreed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kernels_freed_total",
		Help: "The total number of kernel instances destroyed",
	})

	KernelsLive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "kernels_live",
		Help: "Kernel instances currently alive across all programs",
	})

	KernelCreateErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kernel_create_errors_total",
		Help: "Kernel creation failures by status",
	}, []string{"status"})

	KernelCreateDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "kernel_create_duration_us",
		Help:    "Duration of kernel resolution and construction in microseconds",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10), // 1us to ~262ms
	})

	ArgBindErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kernel_arg_bind_errors_total",
		Help: "Argument binding failures by status",
	}, []string{"status"})
)
