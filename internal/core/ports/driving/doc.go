// Package driving provides interfaces for the user-facing adapters
// (primary/inbound ports). The CLI depends on these interfaces; the
// services in core/services implement them.
package driving
