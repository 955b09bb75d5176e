// Package qdrant provides a vector store adapter backed by a Qdrant
// server over gRPC. Query text is embedded through the injected
// embedding service before search.
package qdrant
