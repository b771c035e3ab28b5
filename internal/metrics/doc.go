// Package metrics provides observability hooks for sitegen generation runs.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics are collected only when a caller asks for them:
//
//	reg := prometheus.NewRegistry()
//	gen := site.NewGenerator(cfg, site.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//	// ... run ...
//	_ = metrics.WriteTextfile(path, reg)
//
// The text file output is meant for a node exporter textfile collector, since
// a generation run is too short-lived to be scraped.
package metrics
