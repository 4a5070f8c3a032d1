package inference

const (
	transcriptionMarker = "TRANSCRIÇÃO:"
	requestMarker       = "PEDIDO IDENTIFICADO:"
)

// AuditorPrompt asks the model to answer in the two labeled sections that
// ParseReply understands.
const AuditorPrompt = `
Você é um auditor de plano de saúde.

Responda exatamente no formato:

TRANSCRIÇÃO:
texto aqui

PEDIDO IDENTIFICADO:
texto aqui
`
