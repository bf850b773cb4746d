// Package ledger produces the mocked blockchain view of a batch's history.
// Hashes are content-addressed (sha256 over the event fields) rather than
// random, so the ledger stays deterministic and re-derivable; consumers
// treat them as opaque references either way.
package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/agrichain/agrichaingo/internal/models"
)

const genesisHash = "0x0000000000000000000000000000000000000000"

// TxHash derives the opaque ledger reference for one stage event. The 40-hex
// "0x" form matches what existing consumers expect on the wire.
func TxHash(batchID string, stage models.StageName, timestamp time.Time, actor string) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%d|%s",
		batchID, stage, timestamp.UnixMilli(), actor)))
	return "0x" + hex.EncodeToString(h[:])[:40]
}

// BuildChain derives the full mocked ledger for a batch from its history,
// chaining each entry to the previous one. Block numbers and gas figures are
// synthesized deterministically from the same material as the hash.
func BuildChain(batch *models.Batch) []models.LedgerEntry {
	entries := make([]models.LedgerEntry, 0, len(batch.History))
	prev := genesisHash

	for i, s := range batch.History {
		txHash := s.TxHash
		if txHash == "" {
			txHash = TxHash(batch.ID, s.Name, s.Timestamp, s.Actor)
		}

		entries = append(entries, models.LedgerEntry{
			BatchID:      batch.ID,
			Stage:        s.Name,
			TxHash:       txHash,
			PreviousHash: prev,
			BlockNumber:  blockNumber(txHash),
			From:         fromParty(batch, i),
			To:           s.Actor,
			GasUsed:      gasUsed(txHash),
			Status:       true,
			Timestamp:    s.Timestamp,
		})
		prev = txHash
	}
	return entries
}

// blockNumber folds the hash into a plausible block height. Hashes shorter
// than the canonical 42 chars (legacy mock values) still fold safely.
func blockNumber(txHash string) int64 {
	return 18_000_000 + foldHex(txHash, 2, 10)%1_000_000
}

func gasUsed(txHash string) int64 {
	return 21_000 + foldHex(txHash, 10, 16)%80_000
}

func foldHex(s string, from, to int) int64 {
	if from > len(s) {
		from = len(s)
	}
	if to > len(s) {
		to = len(s)
	}
	var n int64
	for _, c := range s[from:to] {
		n = n*16 + int64(hexVal(byte(c)))
	}
	return n
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	}
	return 0
}

func fromParty(batch *models.Batch, i int) string {
	if i == 0 {
		return "0x0 (genesis)"
	}
	return batch.History[i-1].Actor
}
