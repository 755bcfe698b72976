package scheduler_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestinvlab-api/internal/application/dto"
	"github.com/jhoicas/gestinvlab-api/internal/infrastructure/scheduler"
	"github.com/jhoicas/gestinvlab-api/pkg/config"
)

type stubAuditor struct {
	verifyCalls int
	repairCalls int
	res         *dto.StockAuditResponse
	err         error
}

func (s *stubAuditor) Verify(context.Context) (*dto.StockAuditResponse, error) {
	s.verifyCalls++
	return s.res, s.err
}

func (s *stubAuditor) Repair(context.Context) (*dto.StockAuditResponse, error) {
	s.repairCalls++
	return s.res, s.err
}

func TestRunStockAudit_VerificaPorDefecto(t *testing.T) {
	a := &stubAuditor{res: &dto.StockAuditResponse{Consistent: true}}
	s := scheduler.New(config.AuditConfig{Schedule: "@daily"}, a, zerolog.Nop())

	s.RunStockAudit()
	assert.Equal(t, 1, a.verifyCalls)
	assert.Zero(t, a.repairCalls)
}

func TestRunStockAudit_ReparaConAutoRepair(t *testing.T) {
	var buf bytes.Buffer
	a := &stubAuditor{res: &dto.StockAuditResponse{
		Repaired: true,
		Drifts:   []dto.StockDriftDTO{{ItemID: 1, RecordedStock: 2, ComputedStock: 5, Delta: 3}},
	}}
	s := scheduler.New(config.AuditConfig{AutoRepair: true}, a, zerolog.New(&buf))

	s.RunStockAudit()
	assert.Equal(t, 1, a.repairCalls)
	assert.Contains(t, buf.String(), "desvíos encontrados")
}

func TestRunStockAudit_ErrorSeRegistra(t *testing.T) {
	var buf bytes.Buffer
	a := &stubAuditor{err: errors.New("db caída")}
	s := scheduler.New(config.AuditConfig{}, a, zerolog.New(&buf))

	s.RunStockAudit()
	assert.Contains(t, buf.String(), "db caída")
}

func TestStart_ExpresionInvalida(t *testing.T) {
	s := scheduler.New(config.AuditConfig{Schedule: "cada tanto"}, &stubAuditor{}, zerolog.Nop())
	assert.Error(t, s.Start())
}

func TestStart_SinScheduleNoProgramaNada(t *testing.T) {
	a := &stubAuditor{}
	s := scheduler.New(config.AuditConfig{}, a, zerolog.Nop())
	require.NoError(t, s.Start())
	s.Stop()
	assert.Zero(t, a.verifyCalls)
}

func TestStartStop_ExpresionValida(t *testing.T) {
	s := scheduler.New(config.AuditConfig{Schedule: "0 3 * * *"}, &stubAuditor{}, zerolog.Nop())
	require.NoError(t, s.Start())
	s.Stop()
}
