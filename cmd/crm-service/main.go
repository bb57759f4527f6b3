package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/crm/internal/app"
)

const (
	envOutboxPollInterval          = "CRM_OUTBOX_POLL_INTERVAL"
	envOutboxBatchSize             = "CRM_OUTBOX_BATCH_SIZE"
	envOutboxMaxAttempts           = "CRM_OUTBOX_MAX_ATTEMPTS"
	envOutboxRetryDelay            = "CRM_OUTBOX_RETRY_DELAY"
	envIdempotencyCleanupInterval  = "CRM_IDEMPOTENCY_CLEANUP_INTERVAL"
	envIdempotencyCleanupBatchSize = "CRM_IDEMPOTENCY_CLEANUP_BATCH_SIZE"
)

// envLookup абстрагирует os.LookupEnv для тестируемости.
type envLookup func(key string) (string, bool)

// setupLogger настраивает формат и уровень логирования для сервиса.
func setupLogger() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)
}

// applyTuningOverrides накладывает настройки фоновых воркеров из окружения.
// Некорректные значения не прерывают запуск: остаётся значение по умолчанию,
// а проблема возвращается как warning.
func applyTuningOverrides(cfg app.Config, lookup envLookup) (app.Config, []string) {
	var warnings []string

	if raw, ok := lookup(envOutboxPollInterval); ok {
		if v, err := parseDuration(raw, func(d time.Duration) bool { return d > 0 }, "must be > 0"); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", envOutboxPollInterval, err))
		} else {
			cfg.OutboxPollInterval = v
		}
	}
	if raw, ok := lookup(envOutboxBatchSize); ok {
		if v, err := parseInt(raw, func(n int) bool { return n > 0 }, "must be > 0"); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", envOutboxBatchSize, err))
		} else {
			cfg.OutboxBatchSize = v
		}
	}
	if raw, ok := lookup(envOutboxMaxAttempts); ok {
		if v, err := parseInt(raw, func(n int) bool { return n > 0 }, "must be > 0"); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", envOutboxMaxAttempts, err))
		} else {
			cfg.OutboxMaxAttempts = v
		}
	}
	if raw, ok := lookup(envOutboxRetryDelay); ok {
		if v, err := parseDuration(raw, func(d time.Duration) bool { return d >= 0 }, "must be >= 0"); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", envOutboxRetryDelay, err))
		} else {
			cfg.OutboxRetryDelay = v
		}
	}
	if raw, ok := lookup(envIdempotencyCleanupInterval); ok {
		if v, err := parseDuration(raw, func(d time.Duration) bool { return d > 0 }, "must be > 0"); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", envIdempotencyCleanupInterval, err))
		} else {
			cfg.IdempotencyCleanupInterval = v
		}
	}
	if raw, ok := lookup(envIdempotencyCleanupBatchSize); ok {
		if v, err := parseInt(raw, func(n int) bool { return n > 0 }, "must be > 0"); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", envIdempotencyCleanupBatchSize, err))
		} else {
			cfg.IdempotencyCleanupBatchSize = v
		}
	}

	return cfg, warnings
}

func parseInt(raw string, valid func(int) bool, requirement string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", raw)
	}
	if !valid(value) {
		return 0, fmt.Errorf("value %d %s", value, requirement)
	}
	return value, nil
}

func parseDuration(raw string, valid func(time.Duration) bool, requirement string) (time.Duration, error) {
	value, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", raw)
	}
	if !valid(value) {
		return 0, fmt.Errorf("value %s %s", value, requirement)
	}
	return value, nil
}

func main() {
	setupLogger()

	cfg := app.ConfigFromEnv()
	cfg, warnings := applyTuningOverrides(cfg, os.LookupEnv)
	for _, warning := range warnings {
		log.Warn(warning)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"http_addr":    cfg.HTTPAddr,
		"metrics_addr": cfg.MetricsAddr,
		"storage":      cfg.StorageDriver,
	}).Info("запускаем CRM service")

	if err := app.Run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("приложение завершилось с ошибкой")
	}

	log.Info("CRM service остановлен")
}
