package purchase

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leafbook/internal/core/apperror"
	"leafbook/internal/core/id"
	"leafbook/internal/domain"
)

type fakeTx struct{}

func (fakeTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeRepo struct {
	purchases map[id.ID]*Purchase
	allocated map[id.ID]decimal.Decimal
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		purchases: make(map[id.ID]*Purchase),
		allocated: make(map[id.ID]decimal.Decimal),
	}
}

func (r *fakeRepo) Create(ctx context.Context, p *Purchase) error {
	r.purchases[p.ID] = p
	return nil
}

func (r *fakeRepo) Update(ctx context.Context, p *Purchase) error {
	r.purchases[p.ID] = p
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, purchaseID id.ID) (*Purchase, error) {
	p, ok := r.purchases[purchaseID]
	if !ok {
		return nil, apperror.NewNotFound("purchases", purchaseID.String())
	}
	return p, nil
}

func (r *fakeRepo) GetForUpdate(ctx context.Context, purchaseID id.ID) (*Purchase, error) {
	return r.GetByID(ctx, purchaseID)
}

func (r *fakeRepo) Delete(ctx context.Context, purchaseID id.ID) error {
	delete(r.purchases, purchaseID)
	return nil
}

func (r *fakeRepo) AllocatedWeight(ctx context.Context, purchaseID id.ID) (decimal.Decimal, error) {
	if w, ok := r.allocated[purchaseID]; ok {
		return w, nil
	}
	return decimal.Zero, nil
}

func (r *fakeRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Purchase], error) {
	return domain.ListResult[*Purchase]{}, nil
}

func TestCreateRecomputesTotals(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, fakeTx{})

	p := NewPurchase(id.New(), time.Now(),
		decimal.NewFromInt(100), decimal.NewFromInt(10),
		decimal.RequireFromString("25.5"), PackagingBodh)

	// Tampered derived values must be overwritten on create
	p.TotalWeight = decimal.NewFromInt(1)
	p.TotalAmount = decimal.NewFromInt(1)

	require.NoError(t, svc.Create(context.Background(), p))
	assert.True(t, p.TotalWeight.Equal(decimal.NewFromInt(110)))
	assert.True(t, p.TotalAmount.Equal(decimal.NewFromInt(2550)))
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newFakeRepo(), fakeTx{})

	tests := []struct {
		name   string
		mutate func(p *Purchase)
	}{
		{"zero process weight", func(p *Purchase) { p.ProcessWeight = decimal.Zero }},
		{"negative packaging weight", func(p *Purchase) { p.PackagingWeight = decimal.NewFromInt(-1) }},
		{"negative rate", func(p *Purchase) { p.RatePerKg = decimal.NewFromInt(-5) }},
		{"unknown packaging type", func(p *Purchase) { p.PackagingType = "SACK" }},
		{"missing date", func(p *Purchase) { p.PurchaseDate = time.Time{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPurchase(id.New(), time.Now(),
				decimal.NewFromInt(100), decimal.NewFromInt(10),
				decimal.NewFromInt(20), PackagingBag)
			tt.mutate(p)

			err := svc.Create(context.Background(), p)
			require.Error(t, err)

			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeValidation, appErr.Code)
		})
	}
}

func TestUpdateRejectsShrinkBelowAllocated(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, fakeTx{})

	p := NewPurchase(id.New(), time.Now(),
		decimal.NewFromInt(100), decimal.NewFromInt(10),
		decimal.NewFromInt(20), PackagingBodh)
	require.NoError(t, svc.Create(context.Background(), p))
	repo.allocated[p.ID] = decimal.NewFromInt(80)

	p.ProcessWeight = decimal.NewFromInt(70)
	err := svc.Update(context.Background(), p)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeConflict, appErr.Code)
	assert.Equal(t, "80", appErr.Details["allocated_weight"])
}

func TestUpdateAllowsShrinkToAllocated(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, fakeTx{})

	p := NewPurchase(id.New(), time.Now(),
		decimal.NewFromInt(100), decimal.NewFromInt(10),
		decimal.NewFromInt(20), PackagingBodh)
	require.NoError(t, svc.Create(context.Background(), p))
	repo.allocated[p.ID] = decimal.NewFromInt(80)

	p.ProcessWeight = decimal.NewFromInt(80)
	require.NoError(t, svc.Update(context.Background(), p))
	assert.True(t, p.TotalAmount.Equal(decimal.NewFromInt(1600)))
}

func TestDeleteRejectedWhileAllocated(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, fakeTx{})

	p := NewPurchase(id.New(), time.Now(),
		decimal.NewFromInt(100), decimal.NewFromInt(10),
		decimal.NewFromInt(20), PackagingBodh)
	require.NoError(t, svc.Create(context.Background(), p))
	repo.allocated[p.ID] = decimal.NewFromInt(10)

	err := svc.Delete(context.Background(), p.ID)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeConflict, appErr.Code)
	assert.Contains(t, repo.purchases, p.ID)
}

func TestAvailableWeight(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, fakeTx{})

	p := NewPurchase(id.New(), time.Now(),
		decimal.NewFromInt(100), decimal.NewFromInt(10),
		decimal.NewFromInt(20), PackagingBodh)
	require.NoError(t, svc.Create(context.Background(), p))
	repo.allocated[p.ID] = decimal.NewFromInt(65)

	_, summary, err := svc.AvailableWeight(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, summary.Total.Equal(decimal.NewFromInt(100)))
	assert.True(t, summary.Used.Equal(decimal.NewFromInt(65)))
	assert.True(t, summary.Available.Equal(decimal.NewFromInt(35)))
}
