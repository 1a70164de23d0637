// Package infra contains technical adapters: the series reader, the KPI
// store, the MQTT publisher and the metrics exporters. These packages
// should depend only on the interfaces defined in the core packages.
package infra
