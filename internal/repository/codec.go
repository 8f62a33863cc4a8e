// Package repository binds the generic CSV store to the transaction
// and projected-transaction record types and their file locations.
package repository

import (
	"github.com/joshuarreid/whatsMyBudget-sub000/internal/core"
)

// Canonical column names shared by both stores.
const (
	ColName            = "Name"
	ColAmount          = "Amount"
	ColCategory        = "Category"
	ColCriticality     = "Criticality"
	ColTransactionDate = "Transaction Date"
	ColAccount         = "Account"
	ColStatus          = "status"
	ColCreatedTime     = "Created time"
	ColPaymentMethod   = "Payment Method"
	ColStatementPeriod = "Statement Period"
)

var recordHeaders = []string{
	ColName,
	ColAmount,
	ColCategory,
	ColCriticality,
	ColTransactionDate,
	ColAccount,
	ColStatus,
	ColCreatedTime,
	ColPaymentMethod,
	ColStatementPeriod,
}

// recordCodec maps core.Record onto the canonical column set. The kind
// is not persisted; each store stamps its own on decode.
type recordCodec struct {
	kind core.RecordKind
}

func (c recordCodec) Headers() []string {
	return recordHeaders
}

func (c recordCodec) Encode(r core.Record) []string {
	return []string{
		r.Name,
		r.Amount.String(),
		r.Category,
		r.Criticality,
		r.TransactionDate,
		r.Account,
		r.Status,
		r.CreatedTime,
		r.PaymentMethod,
		r.StatementPeriod,
	}
}

// Decode is tolerant: a malformed amount decodes to $0.00 rather than
// dropping the row, since stored files may predate amount validation.
func (c recordCodec) Decode(fields map[string]string) (core.Record, error) {
	return core.Record{
		Kind:            c.kind,
		Name:            fields[ColName],
		Amount:          core.AmountOrZero(fields[ColAmount]),
		Category:        fields[ColCategory],
		Criticality:     fields[ColCriticality],
		TransactionDate: fields[ColTransactionDate],
		Account:         fields[ColAccount],
		Status:          fields[ColStatus],
		CreatedTime:     fields[ColCreatedTime],
		PaymentMethod:   fields[ColPaymentMethod],
		StatementPeriod: fields[ColStatementPeriod],
	}, nil
}
