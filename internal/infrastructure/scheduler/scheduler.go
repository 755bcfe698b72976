// Package scheduler ejecuta la auditoría de stock de forma periódica.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/jhoicas/gestinvlab-api/internal/application/dto"
	"github.com/jhoicas/gestinvlab-api/pkg/config"
)

// StockAuditor es el subconjunto de inventory.StockAuditUseCase que usa el job.
type StockAuditor interface {
	Verify(ctx context.Context) (*dto.StockAuditResponse, error)
	Repair(ctx context.Context) (*dto.StockAuditResponse, error)
}

// Scheduler administra los jobs programados.
type Scheduler struct {
	cron    *cron.Cron
	auditor StockAuditor
	cfg     config.AuditConfig
	timeout time.Duration
	log     zerolog.Logger
}

// New crea el scheduler. Con cfg.Schedule vacío Start no programa nada.
func New(cfg config.AuditConfig, auditor StockAuditor, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		// Parser estándar de 5 campos (min, hora, día, mes, día semana).
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		auditor: auditor,
		cfg:     cfg,
		timeout: 2 * time.Minute,
		log:     log,
	}
}

// Start registra la auditoría y arranca el cron. Una expresión inválida es error de arranque.
func (s *Scheduler) Start() error {
	if s.cfg.Schedule == "" {
		s.log.Info().Msg("auditoría de stock programada deshabilitada")
		return nil
	}
	if _, err := s.cron.AddFunc(s.cfg.Schedule, s.RunStockAudit); err != nil {
		return fmt.Errorf("programar auditoría de stock %q: %w", s.cfg.Schedule, err)
	}
	s.log.Info().Str("schedule", s.cfg.Schedule).Bool("auto_repair", s.cfg.AutoRepair).Msg("iniciando scheduler")
	s.cron.Start()
	return nil
}

// Stop detiene el cron y espera a que termine el job en curso.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info().Msg("scheduler detenido")
}

// RunStockAudit ejecuta una auditoría (o reparación si AutoRepair) y registra el resultado.
func (s *Scheduler) RunStockAudit() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	run := s.auditor.Verify
	if s.cfg.AutoRepair {
		run = s.auditor.Repair
	}
	res, err := run(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("auditoría de stock fallida")
		return
	}
	if len(res.Drifts) == 0 {
		s.log.Info().Msg("auditoría de stock: totales consistentes")
		return
	}
	s.log.Warn().
		Int("items", len(res.Drifts)).
		Bool("repaired", res.Repaired).
		Msg("auditoría de stock: desvíos encontrados")
}
