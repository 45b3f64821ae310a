package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var imageUploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "vegoodies_image_uploads_total",
		Help: "Recipe image uploads to the object store, by result",
	},
	[]string{"result"},
)
