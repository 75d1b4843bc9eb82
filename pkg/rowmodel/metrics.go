package rowmodel

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess     = "success"
	outcomeUnsupported = "unsupported"
	outcomeError       = "error"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "treegrid_get_rows_total",
		Help: "Total number of getRows requests by outcome",
	}, []string{"outcome"})

	pushesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "treegrid_push_children_total",
		Help: "Total number of child sets pushed to the grid",
	})

	pushedRowsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "treegrid_pushed_rows_total",
		Help: "Total number of rows pushed to the grid",
	})
)
