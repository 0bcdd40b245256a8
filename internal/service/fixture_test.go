package service_test

import (
	"context"
	"testing"
	"time"

	"go-diamond-ledger/internal/model"
	"go-diamond-ledger/internal/repository"
	"go-diamond-ledger/internal/service"
	"go-diamond-ledger/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	ctx     context.Context
	owner   uuid.UUID
	lotRepo repository.LotRepository
	refs    service.LotRefs
	rates   service.RateService
	lots    service.LotService
	party   uuid.UUID
	shape   uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	refs := service.LotRefs{
		Parties:         repository.NewRegistryRepo[model.Party](db),
		Shapes:          repository.NewRegistryRepo[model.Shape](db),
		Colors:          repository.NewRegistryRepo[model.Color](db),
		Clarities:       repository.NewRegistryRepo[model.Clarity](db),
		Statuses:        repository.NewRegistryRepo[model.Status](db),
		PaymentStatuses: repository.NewRegistryRepo[model.PaymentStatus](db),
	}
	lotRepo := repository.NewLotRepo(db)
	rates := service.NewRateService(repository.NewRateRepo(db), refs.Parties, nil)

	f := &fixture{
		db:      db,
		ctx:     context.Background(),
		owner:   uuid.New(),
		lotRepo: lotRepo,
		refs:    refs,
		rates:   rates,
		lots:    service.NewLotService(lotRepo, refs, rates, nil),
	}
	f.party = seedEntry[model.Party](t, refs.Parties, "Acme")
	f.shape = seedEntry[model.Shape](t, refs.Shapes, "Round")
	return f
}

func seedEntry[T any, PT interface {
	*T
	Entry() *model.RegistryEntry
}](t *testing.T, repo repository.RegistryRepository[T], name string) uuid.UUID {
	t.Helper()
	entity := PT(new(T))
	entity.Entry().Name = name
	entity.Entry().Active = true
	require.NoError(t, repo.Create(context.Background(), (*T)(entity)))
	return entity.Entry().ID
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dateIn(t time.Time) *model.DateInput {
	return &model.DateInput{Time: t}
}

func f64(v float64) *float64 { return &v }

// seedRates installs [0,10) -> 5 @2024-01-01 and [10,20) -> 7 @2024-01-01, 8 @2024-06-01.
func (f *fixture) seedRates(t *testing.T, party uuid.UUID) {
	t.Helper()
	_, err := f.rates.CreateRate(f.ctx, f.owner, service.CreateRateRequest{
		PartyID: party, StartingValue: f64(0), EndingValue: f64(10), Rate: f64(5), Date: dateIn(day(2024, 1, 1)),
	})
	require.NoError(t, err)
	tier, err := f.rates.CreateRate(f.ctx, f.owner, service.CreateRateRequest{
		PartyID: party, StartingValue: f64(10), EndingValue: f64(20), Rate: f64(7), Date: dateIn(day(2024, 1, 1)),
	})
	require.NoError(t, err)
	_, err = f.rates.UpsertRateItem(f.ctx, f.owner, tier.ID, service.RateItemRequest{Rate: f64(8), Date: dateIn(day(2024, 6, 1))})
	require.NoError(t, err)
}

func (f *fixture) item(issue, expected float64) service.CreateLotItem {
	return service.CreateLotItem{
		PKTNumber:      "PKT",
		IssueWeight:    f64(issue),
		ExpectedWeight: f64(expected),
		ShapeID:        f.shape,
		Date:           dateIn(day(2024, 7, 1)),
	}
}

func (f *fixture) createOne(t *testing.T, it service.CreateLotItem) model.DiamondLot {
	t.Helper()
	lots, err := f.lots.CreateLots(f.ctx, f.owner, service.CreateLotsRequest{
		PartyID: f.party, KapanNumber: "K1", Items: []service.CreateLotItem{it},
	})
	require.NoError(t, err)
	require.Len(t, lots, 1)
	return lots[0]
}
