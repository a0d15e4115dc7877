package jobs

import (
	"context"
	"fmt"
	"math"
	"time"

	"BridgingTomoro/api/accurate"
	"BridgingTomoro/internal/config"
	"BridgingTomoro/internal/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
)

type Config struct {
	Schedule   string
	TimeZone   string
	PageSize   int
	MaxRetries int
	RetryDelay time.Duration
}

// NewDefaultConfig creates a Config with defaults from the config package.
func NewDefaultConfig() *Config {
	return &Config{
		Schedule:   config.Env("BARANG_REFRESH_SCHEDULE", config.DefaultBarangRefreshSchedule),
		TimeZone:   config.DefaultTimeZone,
		PageSize:   config.BarangRefreshPageSize,
		MaxRetries: 3,
		RetryDelay: 2 * time.Second,
	}
}

// RetryWithBackoff executes a function with exponential backoff retry logic.
func RetryWithBackoff(maxRetries int, initialDelay time.Duration, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(math.Pow(2, float64(attempt-1))) * initialDelay
			logger.Audit(fmt.Sprintf("Retrying after %v (attempt %d/%d)", delay, attempt, maxRetries))
			time.Sleep(delay)
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		logger.Audit(fmt.Sprintf("Attempt %d failed: %v", attempt+1, lastErr))
	}

	return fmt.Errorf("failed after %d attempts: %v", maxRetries+1, lastErr)
}

// RunBarangRefresh schedules the nightly item-master sync from the Accurate
// data host into accurate_barang. Existing alias arrays are preserved; only
// the canonical name is refreshed. The returned scheduler is the caller's to
// stop on shutdown.
func RunBarangRefresh(cfg *Config, db *pgxpool.Pool) (*cron.Cron, error) {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	if cfg.Schedule == "" {
		cfg.Schedule = config.DefaultBarangRefreshSchedule
	}
	if cfg.TimeZone == "" {
		cfg.TimeZone = config.DefaultTimeZone
	}
	if cfg.PageSize == 0 {
		cfg.PageSize = config.BarangRefreshPageSize
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 2 * time.Second
	}

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone for barang refresh: %v", err)
	}

	c := cron.New(cron.WithLocation(loc))
	_, err = c.AddFunc(cfg.Schedule, func() {
		logger.Audit(fmt.Sprintf("Running barang refresh at %s", time.Now().In(loc)))

		syncErr := RetryWithBackoff(cfg.MaxRetries, cfg.RetryDelay, func() error {
			return RunBarangRefreshOnce(cfg, db)
		})
		if syncErr != nil {
			logger.Audit(fmt.Sprintf("Barang refresh failed: %v", syncErr))
			return
		}
		logger.Audit("Barang refresh completed at " + time.Now().In(loc).String())
	})
	if err != nil {
		return nil, fmt.Errorf("failed to schedule barang refresh job: %v", err)
	}

	c.Start()
	logger.Audit("Barang Refresh Job scheduled for " + cfg.Schedule + " (" + cfg.TimeZone + ")")
	return c, nil
}

// RunBarangRefreshOnce pulls every item page and upserts it. Callable
// directly for a manual sync.
func RunBarangRefreshOnce(cfg *Config, db *pgxpool.Pool) error {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	client := accurate.NewClientFromEnv()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	total := 0
	for page := 1; ; page++ {
		items, err := client.ListItems(ctx, page, cfg.PageSize)
		if err != nil {
			return fmt.Errorf("item list page %d: %w", page, err)
		}
		if len(items.Data) == 0 {
			break
		}
		if err := upsertBarangBatch(ctx, db, items); err != nil {
			return fmt.Errorf("upsert page %d: %w", page, err)
		}
		total += len(items.Data)
		if items.Page.PageCount == 0 || page >= items.Page.PageCount {
			break
		}
	}

	logger.Audit(fmt.Sprintf("Barang refresh upserted %d items", total))
	return nil
}

func upsertBarangBatch(ctx context.Context, db *pgxpool.Pool, page accurate.ItemPage) error {
	batch := &pgx.Batch{}
	for _, it := range page.Data {
		batch.Queue(`
            INSERT INTO accurate_barang (id, kode_barang, nama)
            VALUES ($1, NULLIF($2, '')::bigint, jsonb_build_array($3::text))
            ON CONFLICT (id) DO UPDATE
            SET kode_barang = EXCLUDED.kode_barang,
                nama = CASE
                    WHEN jsonb_typeof(accurate_barang.nama) = 'array' THEN
                        CASE
                            WHEN (accurate_barang.nama ? $3) THEN accurate_barang.nama
                            ELSE jsonb_build_array($3::text) || (accurate_barang.nama - 0)
                        END
                    ELSE EXCLUDED.nama
                END`,
			fmt.Sprint(it.ID), it.No, it.Name)
	}
	br := db.SendBatch(ctx, batch)
	defer br.Close()
	for range page.Data {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}
