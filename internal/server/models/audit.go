package models

// AuditRecord is one row of the auditoria table: a single uploaded file and
// what the model extracted from it. Rows are append-only.
type AuditRecord struct {
	ID                int64     `db:"id" json:"id"`
	Username          string    `db:"usuario" json:"usuario"`
	Filename          string    `db:"arquivo" json:"arquivo"`
	Transcription     string    `db:"transcricao" json:"transcricao"`
	IdentifiedRequest string    `db:"pedido_identificado" json:"pedido_identificado"`
	RequestedAt       Timestamp `db:"data_requisicao" json:"data_requisicao"`
	RespondedAt       Timestamp `db:"data_resposta" json:"data_resposta"`
}

// AuditColumns is the column order used by listings and the spreadsheet export.
var AuditColumns = []string{
	"id",
	"usuario",
	"arquivo",
	"transcricao",
	"pedido_identificado",
	"data_requisicao",
	"data_resposta",
}

// Row returns the record's values in AuditColumns order.
func (r AuditRecord) Row() []any {
	return []any{
		r.ID,
		r.Username,
		r.Filename,
		r.Transcription,
		r.IdentifiedRequest,
		r.RequestedAt.String(),
		r.RespondedAt.String(),
	}
}
