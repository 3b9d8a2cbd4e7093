package lot

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
	"leafbook/internal/domain/documents/purchase"
)

type fakeTx struct{}

func (fakeTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakePurchaseRepo struct {
	purchases map[id.ID]*purchase.Purchase
	lockCalls int
}

func newFakePurchaseRepo() *fakePurchaseRepo {
	return &fakePurchaseRepo{purchases: make(map[id.ID]*purchase.Purchase)}
}

func (r *fakePurchaseRepo) Create(ctx context.Context, p *purchase.Purchase) error {
	r.purchases[p.ID] = p
	return nil
}

func (r *fakePurchaseRepo) Update(ctx context.Context, p *purchase.Purchase) error {
	r.purchases[p.ID] = p
	return nil
}

func (r *fakePurchaseRepo) GetByID(ctx context.Context, purchaseID id.ID) (*purchase.Purchase, error) {
	p, ok := r.purchases[purchaseID]
	if !ok {
		return nil, apperror.NewNotFound("purchase", purchaseID.String())
	}
	return p, nil
}

func (r *fakePurchaseRepo) GetForUpdate(ctx context.Context, purchaseID id.ID) (*purchase.Purchase, error) {
	r.lockCalls++
	return r.GetByID(ctx, purchaseID)
}

func (r *fakePurchaseRepo) Delete(ctx context.Context, purchaseID id.ID) error {
	delete(r.purchases, purchaseID)
	return nil
}

func (r *fakePurchaseRepo) AllocatedWeight(ctx context.Context, purchaseID id.ID) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (r *fakePurchaseRepo) List(ctx context.Context, filter purchase.ListFilter) (domain.ListResult[*purchase.Purchase], error) {
	return domain.ListResult[*purchase.Purchase]{}, nil
}

type fakeLotRepo struct {
	lots        map[id.ID]*Lot
	allocations map[id.ID]*Allocation
}

func newFakeLotRepo() *fakeLotRepo {
	return &fakeLotRepo{
		lots:        make(map[id.ID]*Lot),
		allocations: make(map[id.ID]*Allocation),
	}
}

func (r *fakeLotRepo) Create(ctx context.Context, l *Lot) error {
	r.lots[l.ID] = l
	return nil
}

func (r *fakeLotRepo) Update(ctx context.Context, l *Lot) error {
	r.lots[l.ID] = l
	return nil
}

func (r *fakeLotRepo) GetByID(ctx context.Context, lotID id.ID) (*Lot, error) {
	l, ok := r.lots[lotID]
	if !ok {
		return nil, apperror.NewNotFound("lot", lotID.String())
	}
	return l, nil
}

func (r *fakeLotRepo) GetByCode(ctx context.Context, code string) (*Lot, error) {
	for _, l := range r.lots {
		if l.LotCode == code {
			return l, nil
		}
	}
	return nil, apperror.NewNotFound("lot", code)
}

func (r *fakeLotRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	_, err := r.GetByCode(ctx, code)
	if apperror.IsNotFound(err) {
		return false, nil
	}
	return err == nil, err
}

func (r *fakeLotRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Lot], error) {
	return domain.ListResult[*Lot]{}, nil
}

func (r *fakeLotRepo) Delete(ctx context.Context, lotID id.ID) error {
	delete(r.lots, lotID)
	return nil
}

func (r *fakeLotRepo) CreateAllocation(ctx context.Context, a *Allocation) error {
	for _, existing := range r.allocations {
		if existing.LotID == a.LotID && existing.PurchaseID == a.PurchaseID {
			return apperror.NewDuplicate("lot_purchases", "lot_id, purchase_id", "")
		}
	}
	r.allocations[a.ID] = a
	return nil
}

func (r *fakeLotRepo) UpdateAllocation(ctx context.Context, a *Allocation) error {
	r.allocations[a.ID] = a
	return nil
}

func (r *fakeLotRepo) DeleteAllocation(ctx context.Context, allocationID id.ID) error {
	delete(r.allocations, allocationID)
	return nil
}

func (r *fakeLotRepo) GetAllocation(ctx context.Context, allocationID id.ID) (*Allocation, error) {
	a, ok := r.allocations[allocationID]
	if !ok {
		return nil, apperror.NewNotFound("allocation", allocationID.String())
	}
	return a, nil
}

func (r *fakeLotRepo) GetAllocationByPair(ctx context.Context, lotID, purchaseID id.ID) (*Allocation, error) {
	for _, a := range r.allocations {
		if a.LotID == lotID && a.PurchaseID == purchaseID {
			return a, nil
		}
	}
	return nil, apperror.NewNotFound("allocation", purchaseID.String())
}

func (r *fakeLotRepo) ListAllocationsByLot(ctx context.Context, lotID id.ID) ([]*Allocation, error) {
	var items []*Allocation
	for _, a := range r.allocations {
		if a.LotID == lotID {
			items = append(items, a)
		}
	}
	return items, nil
}

func (r *fakeLotRepo) ListAllocationsByPurchase(ctx context.Context, purchaseID id.ID) ([]*Allocation, error) {
	var items []*Allocation
	for _, a := range r.allocations {
		if a.PurchaseID == purchaseID {
			items = append(items, a)
		}
	}
	return items, nil
}

func (r *fakeLotRepo) SumUsedWeightByPurchase(ctx context.Context, purchaseID id.ID, exclude *id.ID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, a := range r.allocations {
		if a.PurchaseID != purchaseID {
			continue
		}
		if exclude != nil && a.ID == *exclude {
			continue
		}
		total = total.Add(a.UsedWeight)
	}
	return total, nil
}

func (r *fakeLotRepo) SumUsedWeightByLot(ctx context.Context, lotID id.ID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, a := range r.allocations {
		if a.LotID == lotID {
			total = total.Add(a.UsedWeight)
		}
	}
	return total, nil
}

func (r *fakeLotRepo) SetTotalInputWeight(ctx context.Context, lotID id.ID, weight decimal.Decimal) error {
	l, ok := r.lots[lotID]
	if !ok {
		return apperror.NewNotFound("lot", lotID.String())
	}
	l.TotalInputWeight = weight
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeLotRepo, *fakePurchaseRepo) {
	t.Helper()
	lotRepo := newFakeLotRepo()
	purchaseRepo := newFakePurchaseRepo()
	svc := NewService(lotRepo, purchaseRepo, nil, fakeTx{})
	return svc, lotRepo, purchaseRepo
}

func seedPurchase(repo *fakePurchaseRepo, processWeight string) *purchase.Purchase {
	p := purchase.NewPurchase(id.New(), time.Now(),
		decimal.RequireFromString(processWeight), decimal.NewFromInt(5),
		decimal.NewFromInt(20), purchase.PackagingBodh)
	repo.purchases[p.ID] = p
	return p
}

func seedLot(repo *fakeLotRepo) *Lot {
	l := NewLot("LOT-2026-00001", time.Now())
	repo.lots[l.ID] = l
	return l
}

func TestAllocateWithinCapacity(t *testing.T) {
	svc, lotRepo, purchaseRepo := newTestService(t)
	p := seedPurchase(purchaseRepo, "100")
	l := seedLot(lotRepo)

	a, err := svc.Allocate(context.Background(), l.ID, p.ID, decimal.NewFromInt(60))
	require.NoError(t, err)
	assert.True(t, a.UsedWeight.Equal(decimal.NewFromInt(60)))

	// Lot total is recomputed from the allocation rows
	assert.True(t, l.TotalInputWeight.Equal(decimal.NewFromInt(60)))
	assert.Equal(t, 1, purchaseRepo.lockCalls)
}

func TestAllocateExceedsCapacity(t *testing.T) {
	svc, lotRepo, purchaseRepo := newTestService(t)
	p := seedPurchase(purchaseRepo, "100")
	other := seedLot(lotRepo)
	l := seedLot(lotRepo)

	_, err := svc.Allocate(context.Background(), other.ID, p.ID, decimal.NewFromInt(80))
	require.NoError(t, err)

	_, err = svc.Allocate(context.Background(), l.ID, p.ID, decimal.NewFromInt(30))
	require.Error(t, err)
	assert.True(t, apperror.IsCapacityExceeded(err))

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "30", appErr.Details["requested"])
	assert.Equal(t, "20", appErr.Details["available"])
}

func TestAllocateSamePairReplaces(t *testing.T) {
	svc, lotRepo, purchaseRepo := newTestService(t)
	p := seedPurchase(purchaseRepo, "100")
	l := seedLot(lotRepo)

	_, err := svc.Allocate(context.Background(), l.ID, p.ID, decimal.NewFromInt(60))
	require.NoError(t, err)

	// Re-allocating the same purchase replaces the row, it does not stack.
	// 70 fits because the old 60 is excluded from the usage sum.
	a, err := svc.Allocate(context.Background(), l.ID, p.ID, decimal.NewFromInt(70))
	require.NoError(t, err)
	assert.True(t, a.UsedWeight.Equal(decimal.NewFromInt(70)))
	assert.Len(t, lotRepo.allocations, 1)
	assert.True(t, l.TotalInputWeight.Equal(decimal.NewFromInt(70)))
}

func TestUpdateAllocationExcludesItself(t *testing.T) {
	svc, lotRepo, purchaseRepo := newTestService(t)
	p := seedPurchase(purchaseRepo, "100")
	l := seedLot(lotRepo)

	a, err := svc.Allocate(context.Background(), l.ID, p.ID, decimal.NewFromInt(80))
	require.NoError(t, err)

	// Growing to the full purchase weight must pass: the allocation's own
	// 80 kg are not counted against it.
	updated, err := svc.UpdateAllocation(context.Background(), a.ID, decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.True(t, updated.UsedWeight.Equal(decimal.NewFromInt(100)))

	_, err = svc.UpdateAllocation(context.Background(), a.ID, decimal.NewFromInt(101))
	require.Error(t, err)
	assert.True(t, apperror.IsCapacityExceeded(err))
}

func TestAllocateRejectsNonPositiveWeight(t *testing.T) {
	svc, lotRepo, purchaseRepo := newTestService(t)
	p := seedPurchase(purchaseRepo, "100")
	l := seedLot(lotRepo)

	_, err := svc.Allocate(context.Background(), l.ID, p.ID, decimal.Zero)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestDeallocateRecomputesLotTotal(t *testing.T) {
	svc, lotRepo, purchaseRepo := newTestService(t)
	p1 := seedPurchase(purchaseRepo, "100")
	p2 := seedPurchase(purchaseRepo, "50")
	l := seedLot(lotRepo)

	a1, err := svc.Allocate(context.Background(), l.ID, p1.ID, decimal.NewFromInt(40))
	require.NoError(t, err)
	_, err = svc.Allocate(context.Background(), l.ID, p2.ID, decimal.NewFromInt(30))
	require.NoError(t, err)
	assert.True(t, l.TotalInputWeight.Equal(decimal.NewFromInt(70)))

	require.NoError(t, svc.Deallocate(context.Background(), a1.ID))
	assert.True(t, l.TotalInputWeight.Equal(decimal.NewFromInt(30)))
}

func TestCreateGeneratesNothingWhenCodeGiven(t *testing.T) {
	svc, lotRepo, _ := newTestService(t)

	l := NewLot("LOT-MANUAL", time.Now())
	l.TotalInputWeight = decimal.NewFromInt(99)
	require.NoError(t, svc.Create(context.Background(), l))

	// A fresh lot always starts empty, whatever the caller sent
	assert.True(t, l.TotalInputWeight.IsZero())
	assert.Contains(t, lotRepo.lots, l.ID)
}

func TestCreateDuplicateCode(t *testing.T) {
	svc, _, _ := newTestService(t)

	first := NewLot("LOT-2026-00007", time.Now())
	require.NoError(t, svc.Create(context.Background(), first))

	second := NewLot("LOT-2026-00007", time.Now())
	err := svc.Create(context.Background(), second)
	require.Error(t, err)
	assert.True(t, apperror.IsDuplicate(err))
}
