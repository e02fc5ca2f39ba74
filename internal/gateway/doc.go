// Package gateway hosts the notification delivery boundary.
//
// The engine (internal/remind) talks to a remind.Gateway; this package
// provides the local implementation: daily triggers realized as cron
// entries keyed by reminder identifier, with deliveries fanned out to a
// pluggable Sink (log output or a Telegram chat).
package gateway
