package ewaybill

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leafbook/internal/core/apperror"
	"leafbook/internal/core/id"
	"leafbook/internal/domain/documents/lot"
)

type fakeBillRepo struct {
	bills map[id.ID]*Bill
}

func newFakeBillRepo() *fakeBillRepo {
	return &fakeBillRepo{bills: make(map[id.ID]*Bill)}
}

func (r *fakeBillRepo) Create(ctx context.Context, b *Bill) error {
	r.bills[b.ID] = b
	return nil
}

func (r *fakeBillRepo) GetByID(ctx context.Context, billID id.ID) (*Bill, error) {
	b, ok := r.bills[billID]
	if !ok {
		return nil, apperror.NewNotFound("eway_bills", billID.String())
	}
	return b, nil
}

func (r *fakeBillRepo) ListByLot(ctx context.Context, lotID id.ID) ([]*Bill, error) {
	var items []*Bill
	for _, b := range r.bills {
		if b.LotID == lotID {
			items = append(items, b)
		}
	}
	return items, nil
}

type stubLotRepo struct {
	lot.Repository
	lots map[id.ID]*lot.Lot
}

func (r *stubLotRepo) GetByID(ctx context.Context, lotID id.ID) (*lot.Lot, error) {
	l, ok := r.lots[lotID]
	if !ok {
		return nil, apperror.NewNotFound("lots", lotID.String())
	}
	return l, nil
}

type stubClient struct {
	resp *Response
	err  error

	gotRequest *Request
}

func (c *stubClient) Generate(ctx context.Context, req *Request) (*Response, error) {
	c.gotRequest = req
	if c.err != nil {
		return nil, c.err
	}
	return c.resp, nil
}

func validRequest() *Request {
	return &Request{
		VehicleNo:  "GJ23AB1234",
		FromPlace:  "Anand",
		ToPlace:    "Ahmedabad",
		DistanceKm: 75,
	}
}

func newEwayTestService(client Client) (*Service, *fakeBillRepo, *lot.Lot) {
	l := lot.NewLot("LOT-2026-00001", time.Now())
	repo := newFakeBillRepo()
	lotRepo := &stubLotRepo{lots: map[id.ID]*lot.Lot{l.ID: l}}
	return NewService(repo, lotRepo, client), repo, l
}

func TestGenerateStoresBill(t *testing.T) {
	now := time.Now()
	client := &stubClient{resp: &Response{
		BillNo:      "EWB123456789",
		GeneratedAt: now,
		ValidUntil:  now.Add(24 * time.Hour),
		Raw:         []byte(`{"ewbNo":"EWB123456789"}`),
	}}
	svc, repo, l := newEwayTestService(client)

	b, err := svc.Generate(context.Background(), l.ID, validRequest())
	require.NoError(t, err)

	assert.Equal(t, StatusGenerated, b.Status)
	require.NotNil(t, b.BillNo)
	assert.Equal(t, "EWB123456789", *b.BillNo)
	assert.Contains(t, repo.bills, b.ID)

	// The lot code travels with the portal request
	require.NotNil(t, client.gotRequest)
	assert.Equal(t, "LOT-2026-00001", client.gotRequest.LotCode)
}

func TestGeneratePersistsFailedAttempt(t *testing.T) {
	client := &stubClient{err: errors.New("portal timeout")}
	svc, repo, l := newEwayTestService(client)

	_, err := svc.Generate(context.Background(), l.ID, validRequest())
	require.Error(t, err)

	// The failure itself is on record
	bills, listErr := repo.ListByLot(context.Background(), l.ID)
	require.NoError(t, listErr)
	require.Len(t, bills, 1)
	assert.Equal(t, StatusFailed, bills[0].Status)
	assert.Nil(t, bills[0].BillNo)
}

func TestGenerateValidatesRequest(t *testing.T) {
	client := &stubClient{}
	svc, repo, l := newEwayTestService(client)

	req := validRequest()
	req.DistanceKm = 0

	_, err := svc.Generate(context.Background(), l.ID, req)
	require.Error(t, err)
	assert.Empty(t, repo.bills)
	assert.Nil(t, client.gotRequest)
}

func TestGenerateUnknownLot(t *testing.T) {
	svc, _, _ := newEwayTestService(&stubClient{})

	_, err := svc.Generate(context.Background(), id.New(), validRequest())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
