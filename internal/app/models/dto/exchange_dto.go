package dto

// ImportReport summarises the import of one sheet
type ImportReport struct {
	Table    string `json:"table"`
	Sheet    string `json:"sheet"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
	Error    string `json:"error,omitempty"`
}
