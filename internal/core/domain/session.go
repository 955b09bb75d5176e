package domain

import "time"

// Chat message roles.
const (
	// RoleUser marks a message typed by the user.
	RoleUser = "user"

	// RoleAssistant marks a generated answer.
	RoleAssistant = "assistant"
)

// ChatMessage is one persisted turn of a question/answer session.
type ChatMessage struct {
	// ID is the unique identifier for the message.
	ID string

	// Role is "user" or "assistant".
	Role string

	// Content is the message text.
	Content string

	// CreatedAt is when the message was recorded.
	CreatedAt time.Time
}

// IngestionRecord is one persisted entry of the ingestion log.
type IngestionRecord struct {
	// ID is the unique identifier for the record.
	ID string

	// URL is the page or site that was ingested.
	URL string

	// Mode is the fetch mode used.
	Mode FetchMode

	// DocumentsFetched is the number of pages retrieved.
	DocumentsFetched int

	// ChunksStored is the number of vector records written.
	ChunksStored int

	// Summary is the content summary produced for the run.
	Summary string

	// CreatedAt is when the ingestion completed.
	CreatedAt time.Time
}
