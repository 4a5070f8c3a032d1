// Package inference talks to the Ollama chat API: it sends one image per
// request and splits the model's reply into a transcription and the
// identified request.
package inference
