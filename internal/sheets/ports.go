// Package sheets defines the outbound port for the financial report: a
// spreadsheet mirror of the transaction book, appended to asynchronously by
// the report worker.
package sheets

import (
	"context"

	"pondok/internal/core"
)

// ReportWriter appends one transaction row to the financial report.
type ReportWriter interface {
	AppendTransaction(ctx context.Context, trx core.Transaksi) (rowRef string, err error)
}
