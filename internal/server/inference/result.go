package inference

const (
	FallbackTranscription = "Error during transcription"
	FallbackRequest       = "Error in identified request"
)

// Result is the outcome of one transcription. When Fallback is set the text
// fields hold the fixed placeholders and Err holds the cause.
type Result struct {
	Transcription     string
	IdentifiedRequest string
	Fallback          bool
	Err               error
}

func fallback(err error) Result {
	return Result{
		Transcription:     FallbackTranscription,
		IdentifiedRequest: FallbackRequest,
		Fallback:          true,
		Err:               err,
	}
}
