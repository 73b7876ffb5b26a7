package dto

type IngestResult struct {
	Symbol  string `json:"symbol"`
	Success bool   `json:"success"`
	EtfID   uint   `json:"etf_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

type IngestReport struct {
	RunID     string         `json:"run_id"`
	Total     int            `json:"total"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
	Results   []IngestResult `json:"results"`
}

type SeedReport struct {
	Mode          string `json:"mode"`
	FundsCreated  int    `json:"funds_created"`
	PricesCreated int    `json:"prices_created"`
	FundsDeleted  int64  `json:"funds_deleted"`
}
