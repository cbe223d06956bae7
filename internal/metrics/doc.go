// Package metrics provides build observability for rde docs.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics collection needs no nil checks at call sites.
// PrometheusRecorder backs the recorder with client_golang; its registry can
// be written in textfile-collector format after a one-shot build or served
// over HTTP while previewing.
package metrics
