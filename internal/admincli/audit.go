package admincli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// cells longer than this are cut in the table view
const maxCellWidth = 60

func newAuditCommand(ctx *commandContext) *cobra.Command {
	auditCmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect the audit log",
	}

	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Show audit records, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, _, err := ctx.openApp(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			records, err := app.Reports().ListAudit(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No audit records")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, r := range records {
				rows = append(rows, []string{
					strconv.FormatInt(r.ID, 10),
					r.Username,
					r.Filename,
					truncate(r.Transcription),
					truncate(r.IdentifiedRequest),
					r.RequestedAt.String(),
					r.RespondedAt.String(),
				})
			}
			headers := []string{"ID", "Usuário", "Arquivo", "Transcrição", "Pedido", "Requisição", "Resposta"}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, []columnAlignment{alignRight}))
			return nil
		},
	}
	listCmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum rows to show (0 for all)")

	var out string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write all audit records to an xlsx file",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cfg, err := ctx.openApp(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			target := out
			if target == "" {
				target = cfg.ExportPath
			}
			path, err := app.Reports().ExportAuditTo(cmd.Context(), target)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
			return nil
		},
	}
	exportCmd.Flags().StringVarP(&out, "out", "o", "", "Output path (defaults to the configured export path)")

	auditCmd.AddCommand(listCmd, exportCmd)
	return auditCmd
}

func truncate(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= maxCellWidth {
		return s
	}
	return string(r[:maxCellWidth-1]) + "…"
}
