package jardi

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leafbook/internal/core/apperror"
	"leafbook/internal/core/entity"
	"leafbook/internal/core/id"
	"leafbook/internal/domain"
	"leafbook/internal/domain/documents/process"
)

type fakeTx struct{}

func (fakeTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeOutputRepo struct {
	outputs map[id.ID]*Output
}

func newFakeOutputRepo() *fakeOutputRepo {
	return &fakeOutputRepo{outputs: make(map[id.ID]*Output)}
}

func (r *fakeOutputRepo) Create(ctx context.Context, o *Output) error {
	for _, existing := range r.outputs {
		if existing.ProcessID == o.ProcessID {
			return apperror.NewDuplicate("jardi_output", "process_id", o.ProcessID.String())
		}
	}
	r.outputs[o.ID] = o
	return nil
}

func (r *fakeOutputRepo) Update(ctx context.Context, o *Output) error {
	r.outputs[o.ID] = o
	return nil
}

func (r *fakeOutputRepo) GetByID(ctx context.Context, outputID id.ID) (*Output, error) {
	o, ok := r.outputs[outputID]
	if !ok {
		return nil, apperror.NewNotFound("jardi_output", outputID.String())
	}
	return o, nil
}

func (r *fakeOutputRepo) GetByProcessID(ctx context.Context, processID id.ID) (*Output, error) {
	for _, o := range r.outputs {
		if o.ProcessID == processID {
			return o, nil
		}
	}
	return nil, apperror.NewNotFound("jardi_output", processID.String())
}

func (r *fakeOutputRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Output], error) {
	return domain.ListResult[*Output]{}, nil
}

// stubProcessRepo serves a fixed set of processes; only the read methods
// the output service touches are real.
type stubProcessRepo struct {
	process.Repository
	processes map[id.ID]*process.Process
}

func (r *stubProcessRepo) GetByID(ctx context.Context, processID id.ID) (*process.Process, error) {
	p, ok := r.processes[processID]
	if !ok {
		return nil, apperror.NewNotFound("process", processID.String())
	}
	return p, nil
}

func (r *stubProcessRepo) GetForUpdate(ctx context.Context, processID id.ID) (*process.Process, error) {
	return r.GetByID(ctx, processID)
}

func seedProcess(status string) *process.Process {
	p := &process.Process{
		BaseRecord:     entity.NewBaseRecord(),
		ProcessCode:    "PRC-2026-00001",
		LotID:          id.New(),
		StartDate:      time.Now(),
		InputWeight:    decimal.NewFromInt(100),
		KadiMatiWeight: decimal.NewFromInt(5),
		DhasWeight:     decimal.NewFromInt(3),
		StatusCode:     status,
	}
	return p
}

func newOutputTestService(p *process.Process) (*Service, *fakeOutputRepo) {
	repo := newFakeOutputRepo()
	processRepo := &stubProcessRepo{processes: map[id.ID]*process.Process{p.ID: p}}
	return NewService(repo, processRepo, fakeTx{}), repo
}

func TestRecordRequiresCompletedProcess(t *testing.T) {
	p := seedProcess(process.StatusInProgress)
	svc, _ := newOutputTestService(p)

	o := NewOutput(p.ID, decimal.NewFromInt(90))
	err := svc.Record(context.Background(), o)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, process.StatusInProgress, appErr.Details["status"])
}

func TestRecordOnCompletedProcess(t *testing.T) {
	p := seedProcess(process.StatusCompleted)
	svc, repo := newOutputTestService(p)

	o := NewOutput(p.ID, decimal.NewFromInt(90))
	numPackages := 9
	avgWeight := decimal.NewFromInt(10)
	o.NumPackages = &numPackages
	o.AvgPackageWeight = &avgWeight

	require.NoError(t, svc.Record(context.Background(), o))
	assert.Contains(t, repo.outputs, o.ID)
	assert.True(t, o.TotalPackedWeight.Equal(decimal.NewFromInt(90)))
}

func TestRecordSecondOutputRejected(t *testing.T) {
	p := seedProcess(process.StatusCompleted)
	svc, _ := newOutputTestService(p)

	require.NoError(t, svc.Record(context.Background(), NewOutput(p.ID, decimal.NewFromInt(90))))

	err := svc.Record(context.Background(), NewOutput(p.ID, decimal.NewFromInt(85)))
	require.Error(t, err)
	assert.True(t, apperror.IsDuplicate(err))
}

func TestUpdateKeepsProcessReference(t *testing.T) {
	p := seedProcess(process.StatusCompleted)
	svc, _ := newOutputTestService(p)

	o := NewOutput(p.ID, decimal.NewFromInt(90))
	require.NoError(t, svc.Record(context.Background(), o))

	edited := *o
	edited.ProcessID = id.New()
	edited.JardiWeight = decimal.NewFromInt(88)
	require.NoError(t, svc.Update(context.Background(), &edited))

	assert.Equal(t, p.ID, edited.ProcessID)
	assert.True(t, edited.JardiWeight.Equal(decimal.NewFromInt(88)))
}

func TestYieldForProcess(t *testing.T) {
	p := seedProcess(process.StatusCompleted)
	svc, _ := newOutputTestService(p)

	require.NoError(t, svc.Record(context.Background(), NewOutput(p.ID, decimal.NewFromInt(90))))

	y, err := svc.YieldForProcess(context.Background(), p.ID)
	require.NoError(t, err)

	// input 100, wastage 5+3 -> net loss 92, loss 8%
	assert.Equal(t, "100", y.InputWeight)
	assert.Equal(t, "90", y.JardiWeight)
	assert.Equal(t, "8", y.TotalWastage)
	assert.Equal(t, "92", y.NetLoss)
	assert.Equal(t, "8", y.LossPercentage)
}
