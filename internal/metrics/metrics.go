// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package metrics holds the Prometheus collectors updated by the vault
// crypto core. Collectors are registered on a caller-supplied registerer so
// that tests and embedding applications stay isolated from the global
// default registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "vault"

// Operation labels.
const (
	OpDeriveKey     = "derive_key"
	OpEncryptString = "encrypt_string"
	OpDecryptString = "decrypt_string"
	OpEncryptFolder = "encrypt_folder"
	OpDecryptFolder = "decrypt_folder"
	OpRecoverFolder = "recover_folder"
)

// Result labels.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics groups the collectors. The zero value is not usable; call [New]
// or [Nop].
type Metrics struct {
	Operations     *prometheus.CounterVec
	TamperDetected prometheus.Counter
	DeriveDuration prometheus.Histogram
	ArchiveBytes   *prometheus.CounterVec
}

// New builds the collectors and registers them on reg. A nil reg leaves the
// collectors unregistered, which is what [Nop] does.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Crypto core operations by kind and result.",
		}, []string{"op", "result"}),
		TamperDetected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tamper_detected_total",
			Help:      "Cipher blobs rejected because the authentication tag did not match.",
		}),
		DeriveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "derive_key_duration_seconds",
			Help:      "Wall time spent in PBKDF2 key derivation.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		ArchiveBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "archive_bytes_total",
			Help:      "Bytes streamed through the archive cipher by direction.",
		}, []string{"direction"}),
	}

	if reg != nil {
		reg.MustRegister(m.Operations, m.TamperDetected, m.DeriveDuration, m.ArchiveBytes)
	}

	return m
}

// Nop returns unregistered collectors. Updates are accepted and discarded
// from the exporter's point of view.
func Nop() *Metrics {
	return New(nil)
}

// Observe records the outcome of one operation.
func (m *Metrics) Observe(op string, err error) {
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	m.Operations.WithLabelValues(op, result).Inc()
}

// ObserveDerive records one key derivation that started at start.
func (m *Metrics) ObserveDerive(start time.Time, err error) {
	m.DeriveDuration.Observe(time.Since(start).Seconds())
	m.Observe(OpDeriveKey, err)
}
