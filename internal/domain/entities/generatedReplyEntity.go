package entities

// FallbackMessage is sent verbatim whenever generation fails.
const FallbackMessage = "I apologize, but I'm having trouble processing your message right now. Please try again in a moment, or reach out to your healthcare provider for immediate support."

// GeneratedReply is the outcome of one call to the text generator.
type GeneratedReply struct {
	Body        string
	Success     bool
	ErrorDetail string
	Fallback    string
}

// Text returns the body on success and the fallback otherwise.
func (r GeneratedReply) Text() string {
	if r.Success {
		return r.Body
	}
	if r.Fallback == "" {
		return FallbackMessage
	}
	return r.Fallback
}
