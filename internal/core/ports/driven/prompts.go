package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a
	// sensible default or an error, depending on whether the prompt
	// is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next
	// access. Useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptSummarise builds the content summary after ingestion.
	// The template expects a %s placeholder for the combined content.
	PromptSummarise = "summarise"

	// PromptGroundedAnswer builds the grounded answer prompt.
	// The template expects %s (context block) and %s (question)
	// placeholders, in that order.
	PromptGroundedAnswer = "grounded_answer"
)
