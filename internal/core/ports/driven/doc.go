// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): the content source, embedding, vector
// index and generation gateways, plus local configuration and session
// storage. The orchestrators in core/services depend only on these
// interfaces; concrete adapters live under internal/adapters/driven.
package driven
