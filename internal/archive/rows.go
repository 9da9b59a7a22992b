package archive

import (
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
)

// JobRow is one analyzed job in analysis.jobs.
type JobRow struct {
	JobID      string    `bigquery:"job_id"`      // REQUIRED
	AnalyzedTS time.Time `bigquery:"analyzed_ts"` // REQUIRED

	DocumentCount  int     `bigquery:"document_count"`  // REQUIRED
	TotalDeposits  float64 `bigquery:"total_deposits"`  // REQUIRED
	AboveThreshold bool    `bigquery:"above_threshold"` // REQUIRED

	ErrorMessage string `bigquery:"error_message"` // NULLABLE
}

// AccountRow is one account section of one document in analysis.accounts.
type AccountRow struct {
	JobID    string `bigquery:"job_id"`   // REQUIRED
	Filename string `bigquery:"filename"` // REQUIRED
	Bank     string `bigquery:"bank"`     // NULLABLE

	SectionStart int  `bigquery:"section_start"`
	SectionEnd   int  `bigquery:"section_end"`
	Scanned      bool `bigquery:"scanned"`

	RFC     string `bigquery:"rfc"`     // NULLABLE
	Cliente string `bigquery:"cliente"` // NULLABLE
	Periodo string `bigquery:"periodo"` // NULLABLE

	Depositos     bigquery.NullFloat64 `bigquery:"depositos"`      // NULLABLE, absent != 0
	Cargos        bigquery.NullFloat64 `bigquery:"cargos"`         // NULLABLE
	Comisiones    bigquery.NullFloat64 `bigquery:"comisiones"`     // NULLABLE
	SaldoPromedio bigquery.NullFloat64 `bigquery:"saldo_promedio"` // NULLABLE

	TPVNet       float64    `bigquery:"tpv_net"`
	AnalyzedDate civil.Date `bigquery:"analyzed_date"` // partition column

	ErrorMessage string `bigquery:"error_message"` // NULLABLE
}

// MovementRow is one classified movement in analysis.movements. Dates stay as
// printed on the statement; normalizing them is out of scope here.
type MovementRow struct {
	JobID    string `bigquery:"job_id"`   // REQUIRED
	Filename string `bigquery:"filename"` // REQUIRED

	MovementDate string  `bigquery:"movement_date"`
	Description  string  `bigquery:"description"`
	Amount       float64 `bigquery:"amount"`
	Category     string  `bigquery:"category"` // NULLABLE for excluded rows
	Excluded     bool    `bigquery:"excluded"`
}
