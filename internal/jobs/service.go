package jobs

import (
	"BridgingTomoro/internal/serviceiface"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
)

type CronService struct {
	config map[string]interface{}
	pool   *pgxpool.Pool
	cron   *cron.Cron
}

func NewCronService(cfg map[string]interface{}, pool *pgxpool.Pool) serviceiface.Service {
	return &CronService{config: cfg, pool: pool}
}

func (s *CronService) Name() string { return "cron" }

func (s *CronService) Start() error {
	c, err := RunBarangRefresh(NewDefaultConfig(), s.pool)
	if err != nil {
		return err
	}
	s.cron = c
	return nil
}

func (s *CronService) Stop() error {
	if s.cron != nil {
		s.cron.Stop()
	}
	return nil
}
