package models

import "time"

// LedgerEntry is one record in the mocked per-batch transaction ledger.
// Hashes are opaque references: consumers must not interpret them beyond
// equality. Entries chain through PreviousHash in append order.
type LedgerEntry struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	BatchID      string    `gorm:"index;not null" json:"batchId"`
	Stage        StageName `gorm:"not null" json:"stage"`
	TxHash       string    `gorm:"uniqueIndex;not null" json:"txHash"`
	PreviousHash string    `json:"previousHash"`
	BlockNumber  int64     `json:"blockNumber"`
	From         string    `json:"from"`
	To           string    `json:"to"`
	GasUsed      int64     `json:"gasUsed"`
	Status       bool      `json:"status"`
	Timestamp    time.Time `json:"timestamp"`

	CreatedAt time.Time `json:"-"`
}

func (LedgerEntry) TableName() string { return "ledger_entries" }
