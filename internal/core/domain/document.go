package domain

// Document represents one fetched web page before chunking.
// Metadata comes straight from the content source and is untrusted:
// it is sanitized at the ingestion boundary, not here.
type Document struct {
	// URI is the page address the content was fetched from.
	URI string

	// Title is the page title when the source reports one.
	Title string

	// Text is the extracted page text (markdown preferred).
	Text string

	// Metadata contains source-reported key-value pairs.
	// Values may have arbitrary shapes until sanitized.
	Metadata map[string]any
}

// Chunk is a bounded-length segment of a Document and the unit of
// retrieval. Chunks are transient: they exist only between splitting
// and storage within a single ingestion call.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentURI links back to the source page.
	DocumentURI string

	// Text is the chunk content, at most the configured chunk size.
	Text string

	// Position is the ordinal position within the document.
	Position int

	// Metadata is this chunk's own copy of the parent document
	// metadata. Chunks never share a metadata map.
	Metadata map[string]any
}

// FetchMode selects how much of a site the content source fetches.
type FetchMode string

const (
	// FetchSinglePage fetches one page, yielding zero or one Document.
	FetchSinglePage FetchMode = "single_page"

	// FetchFullSite crawls the site, yielding one Document per
	// discovered page.
	FetchFullSite FetchMode = "full_site"
)

// IsValid returns true if the fetch mode is recognised.
func (m FetchMode) IsValid() bool {
	return m == FetchSinglePage || m == FetchFullSite
}

// String returns the string representation.
func (m FetchMode) String() string {
	return string(m)
}
