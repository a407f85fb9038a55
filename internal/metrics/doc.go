// Package metrics records build and stage metrics.
//
// Components receive a Recorder and default to NoopRecorder, so metrics
// calls never need nil checks. The Prometheus implementation registers its
// collectors on a private registry which is written out once per build as
// a node-exporter textfile:
//
//	reg := prom.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	builder := build.New(cfg).WithRecorder(rec)
//	...
//	err := metrics.WriteTextfile(path, reg)
package metrics
