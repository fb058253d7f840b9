// Package worker mirrors transactions from the local store to the financial
// report spreadsheet, driven by sync messages from the data layer.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"pondok/internal/amqp"
	"pondok/internal/sheets"
	"pondok/internal/state"
)

type ReportWorker struct {
	state  *state.AppState
	writer sheets.ReportWriter
}

func NewReportWorker(st *state.AppState, writer sheets.ReportWriter) *ReportWorker {
	return &ReportWorker{state: st, writer: writer}
}

// HandleSyncMessage resolves the transaction behind one sync message and
// appends it to the report. A transaction deleted since the message was
// published is dropped without error.
func (w *ReportWorker) HandleSyncMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	trx, ok := w.state.GetTransaksi(msg.ID)
	if !ok {
		slog.WarnContext(ctx, "Transaction behind sync message no longer exists", "id", msg.ID)
		return nil
	}

	ref, err := w.writer.AppendTransaction(ctx, trx)
	if err != nil {
		return fmt.Errorf("append transaction %s to report: %w", msg.ID, err)
	}

	slog.InfoContext(ctx, "Transaction mirrored to report",
		"id", msg.ID, "kategori", trx.Kategori, "jumlah", trx.Jumlah, "ref", ref)
	return nil
}
