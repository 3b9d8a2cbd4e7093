package payments

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

type stubPurchaseRepo struct {
	purchase.Repository
	purchases map[id.ID]*purchase.Purchase
}

func (r *stubPurchaseRepo) GetByID(ctx context.Context, purchaseID id.ID) (*purchase.Purchase, error) {
	p, ok := r.purchases[purchaseID]
	if !ok {
		return nil, apperror.NewNotFound("purchase", purchaseID.String())
	}
	return p, nil
}

type fakePaymentRepo struct {
	payments map[id.ID]*Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[id.ID]*Payment)}
}

func (r *fakePaymentRepo) Create(ctx context.Context, p *Payment) error {
	r.payments[p.ID] = p
	return nil
}

func (r *fakePaymentRepo) Update(ctx context.Context, p *Payment) error {
	r.payments[p.ID] = p
	return nil
}

func (r *fakePaymentRepo) Delete(ctx context.Context, paymentID id.ID) error {
	delete(r.payments, paymentID)
	return nil
}

func (r *fakePaymentRepo) GetByID(ctx context.Context, paymentID id.ID) (*Payment, error) {
	p, ok := r.payments[paymentID]
	if !ok {
		return nil, apperror.NewNotFound("payments", paymentID.String())
	}
	return p, nil
}

func (r *fakePaymentRepo) ListByPurchase(ctx context.Context, purchaseID id.ID) ([]*Payment, error) {
	var items []*Payment
	for _, p := range r.payments {
		if p.PurchaseID == purchaseID {
			items = append(items, p)
		}
	}
	return items, nil
}

func (r *fakePaymentRepo) SumPaidByPurchase(ctx context.Context, purchaseID id.ID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range r.payments {
		if p.PurchaseID == purchaseID {
			total = total.Add(p.AmountPaid)
		}
	}
	return total, nil
}

func (r *fakePaymentRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Payment], error) {
	return domain.ListResult[*Payment]{}, nil
}

func newLedgerTestService() (*Service, *purchase.Purchase) {
	// 100 kg at 25/kg -> total amount 2500
	pur := purchase.NewPurchase(id.New(), time.Now(),
		decimal.NewFromInt(100), decimal.NewFromInt(10),
		decimal.NewFromInt(25), purchase.PackagingBag)

	purchaseRepo := &stubPurchaseRepo{purchases: map[id.ID]*purchase.Purchase{pur.ID: pur}}
	return NewService(newFakePaymentRepo(), purchaseRepo), pur
}

func TestRecordRequiresExistingPurchase(t *testing.T) {
	svc, _ := newLedgerTestService()

	p := NewPayment(id.New(), time.Now(), decimal.NewFromInt(500), ModeCash)
	err := svc.Record(context.Background(), p)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestRecordRejectsInvalidMode(t *testing.T) {
	svc, pur := newLedgerTestService()

	p := NewPayment(pur.ID, time.Now(), decimal.NewFromInt(500), Mode("BARTER"))
	err := svc.Record(context.Background(), p)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestRecordRejectsNonPositiveAmount(t *testing.T) {
	svc, pur := newLedgerTestService()

	p := NewPayment(pur.ID, time.Now(), decimal.Zero, ModeUPI)
	require.Error(t, svc.Record(context.Background(), p))
}

func TestLedgerComputesPending(t *testing.T) {
	svc, pur := newLedgerTestService()

	require.NoError(t, svc.Record(context.Background(),
		NewPayment(pur.ID, time.Now(), decimal.NewFromInt(1500), ModeBank)))
	require.NoError(t, svc.Record(context.Background(),
		NewPayment(pur.ID, time.Now(), decimal.NewFromInt(600), ModeCash)))

	ledger, err := svc.LedgerForPurchase(context.Background(), pur.ID)
	require.NoError(t, err)

	assert.True(t, ledger.TotalAmount.Equal(decimal.NewFromInt(2500)))
	assert.True(t, ledger.TotalPaid.Equal(decimal.NewFromInt(2100)))
	assert.True(t, ledger.PendingAmount.Equal(decimal.NewFromInt(400)))
	assert.Len(t, ledger.Payments, 2)
}

func TestLedgerPendingGoesNegativeOnOverpayment(t *testing.T) {
	svc, pur := newLedgerTestService()

	require.NoError(t, svc.Record(context.Background(),
		NewPayment(pur.ID, time.Now(), decimal.NewFromInt(2600), ModeBank)))

	ledger, err := svc.LedgerForPurchase(context.Background(), pur.ID)
	require.NoError(t, err)

	// Overpayment is allowed; the balance is simply negative
	assert.True(t, ledger.PendingAmount.Equal(decimal.NewFromInt(-100)))
}

func TestUpdateKeepsPurchaseReference(t *testing.T) {
	svc, pur := newLedgerTestService()

	p := NewPayment(pur.ID, time.Now(), decimal.NewFromInt(500), ModeCash)
	require.NoError(t, svc.Record(context.Background(), p))

	edited := *p
	edited.PurchaseID = id.New()
	edited.AmountPaid = decimal.NewFromInt(450)
	require.NoError(t, svc.Update(context.Background(), &edited))

	assert.Equal(t, pur.ID, edited.PurchaseID)
}
