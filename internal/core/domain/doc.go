// Package domain contains the core business entities for the quarry
// pipeline: documents fetched from the web, the chunks they are split
// into, the vector records stored in the index, and the results of
// ingestion and query runs.
//
// Domain types have no dependencies on adapters or external services.
package domain
