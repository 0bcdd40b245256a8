package service_test

import (
	"testing"

	"go-diamond-ledger/internal/apperr"
	"go-diamond-ledger/internal/model"
	"go-diamond-ledger/internal/repository"
	"go-diamond-ledger/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionService_CRUDAndSummary(t *testing.T) {
	f := newFixture(t)
	f.seedRates(t, f.party)
	svc := service.NewTransactionService(repository.NewTransactionRepo(f.db), f.lotRepo, f.refs.Parties, nil)

	it := f.item(15, 14)
	it.PolishWeight = f64(12)
	it.PolishDate = dateIn(day(2024, 7, 1))
	f.createOne(t, it) // amount 96

	paid, err := svc.Create(f.ctx, f.owner, service.TransactionRequest{
		PartyID: f.party, Amount: f64(50), Date: dateIn(day(2024, 7, 2)), Type: model.TxPaid,
	})
	require.NoError(t, err)
	require.NotNil(t, paid.Party)

	_, err = svc.Create(f.ctx, f.owner, service.TransactionRequest{
		PartyID: f.party, Amount: f64(6.1), Date: dateIn(day(2024, 7, 3)), Type: model.TxOffset,
	})
	require.NoError(t, err)

	summary, err := svc.Summary(f.ctx, f.owner, &f.party)
	require.NoError(t, err)
	assert.Equal(t, 96.0, summary.TotalLotAmount)
	assert.Equal(t, 50.0, summary.TotalPaid)
	assert.Equal(t, 6.1, summary.TotalOffset)
	assert.Equal(t, 39.9, summary.Balance)

	_, err = svc.Update(f.ctx, uuid.New(), paid.ID, service.TransactionRequest{
		PartyID: f.party, Amount: f64(1), Date: dateIn(day(2024, 7, 2)), Type: model.TxPaid,
	})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	updated, err := svc.Update(f.ctx, f.owner, paid.ID, service.TransactionRequest{
		PartyID: f.party, Amount: f64(60), Date: dateIn(day(2024, 7, 2)), Type: model.TxPaid, Remark: "cheque",
	})
	require.NoError(t, err)
	assert.Equal(t, 60.0, updated.Amount)
	assert.Equal(t, "cheque", updated.Remark)

	list, err := svc.List(f.ctx, f.owner, nil)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	assert.ErrorIs(t, svc.Delete(f.ctx, uuid.New(), paid.ID), apperr.ErrForbidden)
	require.NoError(t, svc.Delete(f.ctx, f.owner, paid.ID))
	assert.ErrorIs(t, svc.Delete(f.ctx, f.owner, paid.ID), apperr.ErrNotFound)
}

func TestTransactionService_Validation(t *testing.T) {
	f := newFixture(t)
	svc := service.NewTransactionService(repository.NewTransactionRepo(f.db), f.lotRepo, f.refs.Parties, nil)

	tests := []struct {
		name string
		req  service.TransactionRequest
	}{
		{"bad type", service.TransactionRequest{PartyID: f.party, Amount: f64(1), Date: dateIn(day(2024, 1, 1)), Type: "Gift"}},
		{"zero amount", service.TransactionRequest{PartyID: f.party, Amount: f64(0), Date: dateIn(day(2024, 1, 1)), Type: model.TxPaid}},
		{"no date", service.TransactionRequest{PartyID: f.party, Amount: f64(1), Type: model.TxPaid}},
		{"unknown party", service.TransactionRequest{PartyID: uuid.New(), Amount: f64(1), Date: dateIn(day(2024, 1, 1)), Type: model.TxPaid}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(f.ctx, f.owner, tt.req)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
}
