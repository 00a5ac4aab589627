package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "worktracker_logins_total",
		Help: "Login attempts by outcome.",
	}, []string{"outcome"})

	entriesSavedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "worktracker_entries_saved_total",
		Help: "Entry upserts accepted through the API.",
	})

	entriesDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "worktracker_entries_deleted_total",
		Help: "Entry deletions accepted through the API.",
	})

	resetsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "worktracker_resets_total",
		Help: "Dataset resets to the seed.",
	})
)
