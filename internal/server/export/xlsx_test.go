package export

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/auditoria/internal/server/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	return rows
}

func TestWriteXLSX_HeaderAndRows(t *testing.T) {
	at := models.NewTimestamp(time.Date(2025, 3, 1, 9, 30, 0, 0, time.Local))
	records := []models.AuditRecord{
		{ID: 1, Username: "admin", Filename: "a.png", Transcription: "t1", IdentifiedRequest: "p1", RequestedAt: at, RespondedAt: at},
		{ID: 2, Username: "ana", Filename: "b.png", Transcription: "t2", IdentifiedRequest: "p2", RequestedAt: at, RespondedAt: at},
	}

	path := filepath.Join(t.TempDir(), "out", "auditoria_export.xlsx")
	require.NoError(t, WriteXLSX(path, records))

	want := [][]string{
		{"id", "usuario", "arquivo", "transcricao", "pedido_identificado", "data_requisicao", "data_resposta"},
		{"1", "admin", "a.png", "t1", "p1", "2025-03-01 09:30:00", "2025-03-01 09:30:00"},
		{"2", "ana", "b.png", "t2", "p2", "2025-03-01 09:30:00", "2025-03-01 09:30:00"},
	}
	if diff := cmp.Diff(want, readRows(t, path)); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteXLSX_OverwritesPreviousExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.xlsx")

	require.NoError(t, WriteXLSX(path, []models.AuditRecord{{ID: 1}, {ID: 2}, {ID: 3}}))
	require.NoError(t, WriteXLSX(path, []models.AuditRecord{{ID: 9}}))

	rows := readRows(t, path)
	require.Len(t, rows, 2)
	require.Equal(t, "9", rows[1][0])
}

func TestWriteXLSX_EmptyHasHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.xlsx")
	require.NoError(t, WriteXLSX(path, nil))

	rows := readRows(t, path)
	require.Len(t, rows, 1)
	require.Equal(t, "id", rows[0][0])
}

func TestWriteXLSX_BadPath(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	err := WriteXLSX(filepath.Join(blocker, "x.xlsx"), nil)
	require.Error(t, err)
}
