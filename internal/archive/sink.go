// Package archive persists finished analysis aggregates to BigQuery so jobs
// outlive the in-memory result retention window.
package archive

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"google.golang.org/api/iterator"

	"github.com/mxfin-tools/tpv-analyzer/internal/banks"
	"github.com/mxfin-tools/tpv-analyzer/internal/extract"
	"github.com/mxfin-tools/tpv-analyzer/internal/pipeline"
)

const (
	jobsTable      = "jobs"
	accountsTable  = "accounts"
	movementsTable = "movements"
)

// Sink writes analysis aggregates into one BigQuery dataset. The caller owns
// the client's lifecycle.
type Sink struct {
	client  *bigquery.Client
	dataset string
}

// NewSink builds a sink over an existing client and dataset.
func NewSink(client *bigquery.Client, dataset string) *Sink {
	return &Sink{client: client, dataset: dataset}
}

// ArchiveJob flattens one aggregate into job, account and movement rows and
// streams them in. Rows for one job are written together; a failure on any
// table leaves the job unarchived and is the caller's to retry.
func (s *Sink) ArchiveJob(ctx context.Context, agg pipeline.JobAggregate, jobErr string) error {
	now := time.Now()
	jobRows := []*JobRow{{
		JobID:          agg.JobID,
		AnalyzedTS:     now,
		DocumentCount:  len(agg.Documents),
		TotalDeposits:  agg.TotalDeposits,
		AboveThreshold: agg.AboveThreshold,
		ErrorMessage:   jobErr,
	}}

	var accountRows []*AccountRow
	var movementRows []*MovementRow
	for _, doc := range agg.Documents {
		if doc.Error != "" && len(doc.Accounts) == 0 {
			accountRows = append(accountRows, &AccountRow{
				JobID:        agg.JobID,
				Filename:     doc.Filename,
				Scanned:      doc.Scanned,
				AnalyzedDate: civil.DateOf(now),
				ErrorMessage: doc.Error,
			})
			continue
		}
		for _, acc := range doc.Accounts {
			accountRows = append(accountRows, accountRow(agg.JobID, doc, acc, now))
			for _, tx := range acc.Transactions {
				movementRows = append(movementRows, &MovementRow{
					JobID:        agg.JobID,
					Filename:     doc.Filename,
					MovementDate: tx.Date,
					Description:  tx.Description,
					Amount:       tx.Value,
					Category:     tx.Category,
					Excluded:     tx.Excluded,
				})
			}
		}
	}

	if err := s.insert(ctx, jobsTable, jobRows); err != nil {
		return err
	}
	if err := s.insert(ctx, accountsTable, accountRows); err != nil {
		return err
	}
	return s.insert(ctx, movementsTable, movementRows)
}

func accountRow(jobID string, doc pipeline.DocumentResult, acc pipeline.ExtractionResult, now time.Time) *AccountRow {
	row := &AccountRow{
		JobID:        jobID,
		Filename:     doc.Filename,
		Bank:         acc.Cover.Bank,
		SectionStart: acc.Section.Start,
		SectionEnd:   acc.Section.End,
		Scanned:      doc.Scanned,
		TPVNet:       acc.TPVNet,
		AnalyzedDate: civil.DateOf(now),
		ErrorMessage: acc.Error,
	}
	row.RFC, _ = acc.Cover.TextField(banks.FieldRFC)
	row.Cliente, _ = acc.Cover.TextField(banks.FieldCliente)
	row.Periodo, _ = acc.Cover.TextField(banks.FieldPeriodo)
	row.Depositos = nullAmount(acc.Cover, banks.FieldDepositos)
	row.Cargos = nullAmount(acc.Cover, banks.FieldCargos)
	row.Comisiones = nullAmount(acc.Cover, banks.FieldComisiones)
	row.SaldoPromedio = nullAmount(acc.Cover, banks.FieldSaldoPromedio)
	return row
}

func nullAmount(cover extract.CoverData, field banks.FieldID) bigquery.NullFloat64 {
	v, ok := cover.Amount(field)
	return bigquery.NullFloat64{Float64: v, Valid: ok}
}

func (s *Sink) insert(ctx context.Context, table string, rows interface{}) error {
	inserter := s.client.Dataset(s.dataset).Table(table).Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return fmt.Errorf("archive: inserting into %s.%s: %w", s.dataset, table, err)
	}
	return nil
}

// RecentJobs returns the job rows archived since the given time, newest
// first.
func (s *Sink) RecentJobs(ctx context.Context, since time.Time) ([]*JobRow, error) {
	q := s.client.Query(fmt.Sprintf(`
		SELECT job_id, analyzed_ts, document_count, total_deposits, above_threshold, error_message
		FROM %s.%s
		WHERE analyzed_ts >= @since
		ORDER BY analyzed_ts DESC
	`, s.dataset, jobsTable))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "since", Value: since},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("archive: recent jobs query: %w", err)
	}

	var rows []*JobRow
	for {
		var r JobRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("archive: recent jobs iter: %w", err)
		}
		rows = append(rows, &r)
	}
	return rows, nil
}
