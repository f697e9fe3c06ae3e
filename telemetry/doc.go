// SPDX-License-Identifier: MIT

// Package telemetry exposes clustering progress as Prometheus metrics.
//
// A Recorder owns its own registry, so several runs in one process (or in
// one test binary) never collide on metric names. Every series carries a
// "stage" label: "cluster" for a de novo run, "fit" for reference fitting,
// "unfitted" for the open-mode sub-clustering, or any caller-chosen name.
//
// The CLI has no HTTP surface; WriteTextfile dumps the registry in the
// node_exporter textfile format instead.
package telemetry
