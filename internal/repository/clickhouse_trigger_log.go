package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"FedPulse/internal/domain/models"
	domrepo "FedPulse/internal/domain/repository"
	pkgch "FedPulse/pkg/clickhouse"
	applogger "FedPulse/pkg/logger"
)

// CHTriggerLog implements TriggerLog backed by ClickHouse.
type CHTriggerLog struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

func NewCHTriggerLog(ch *pkgch.Client, table string) *CHTriggerLog {
	return &CHTriggerLog{db: ch.DB(), table: table}
}

var _ domrepo.TriggerLog = (*CHTriggerLog)(nil)

// SetLogger injects a structured logger.
func (s *CHTriggerLog) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHTriggerLog) Insert(ctx context.Context, t *models.AlertTrigger) error {
	q := fmt.Sprintf("INSERT INTO %s (alert_id, signal, previous_value, current_value, threshold, condition, triggered_at, acknowledged) VALUES (?, ?, ?, ?, ?, ?, ?, ?)", s.table)
	_, err := s.db.ExecContext(ctx, q,
		t.AlertID,
		string(t.SignalType),
		t.PreviousValue,
		t.CurrentValue,
		t.Threshold,
		string(t.Condition),
		t.TriggeredAt.UTC(),
		boolToUInt8(t.Acknowledged),
	)
	if err != nil && s.l != nil {
		s.l.Error("clickhouse trigger insert error",
			applogger.String("alert_id", t.AlertID),
			applogger.Error(err),
		)
	}
	return err
}

func (s *CHTriggerLog) InsertBatch(ctx context.Context, triggers []*models.AlertTrigger) error {
	if len(triggers) == 0 {
		return nil
	}
	// Multi-row VALUES insert to keep round-trips down. Trigger volume is
	// tiny compared to tick data, so one chunk size fits all.
	const chunkSize = 500
	for start := 0; start < len(triggers); start += chunkSize {
		end := start + chunkSize
		if end > len(triggers) {
			end = len(triggers)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*8)
		for _, t := range triggers[start:end] {
			if t == nil || t.AlertID == "" {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args,
				t.AlertID,
				string(t.SignalType),
				t.PreviousValue,
				t.CurrentValue,
				t.Threshold,
				string(t.Condition),
				t.TriggeredAt.UTC(),
				boolToUInt8(t.Acknowledged),
			)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (alert_id, signal, previous_value, current_value, threshold, condition, triggered_at, acknowledged) VALUES %s", s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			if s.l != nil {
				s.l.Error("clickhouse trigger batch insert error",
					applogger.Int("batch", end-start),
					applogger.Error(err),
				)
			}
			return err
		}
	}
	return nil
}

// Recent returns the newest triggers first.
func (s *CHTriggerLog) Recent(ctx context.Context, limit int) ([]models.AlertTrigger, error) {
	start := time.Now()
	if limit <= 0 {
		limit = 50
	}
	q := fmt.Sprintf(`
        SELECT alert_id, signal, previous_value, current_value, threshold, condition, triggered_at, acknowledged
        FROM %s
        ORDER BY triggered_at DESC
        LIMIT ?
    `, s.table)
	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse recent_triggers query error",
				applogger.Int("limit", limit),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("recent triggers: %w", err)
	}
	defer rows.Close()

	out := make([]models.AlertTrigger, 0, limit)
	for rows.Next() {
		var t models.AlertTrigger
		var signal, condition string
		var ack uint8
		if err := rows.Scan(&t.AlertID, &signal, &t.PreviousValue, &t.CurrentValue, &t.Threshold, &condition, &t.TriggeredAt, &ack); err != nil {
			if s.l != nil {
				s.l.Error("clickhouse recent_triggers scan error", applogger.Error(err))
			}
			return nil, fmt.Errorf("scan trigger: %w", err)
		}
		t.SignalType = models.SignalType(signal)
		t.Condition = models.AlertCondition(condition)
		t.Acknowledged = ack != 0
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		if s.l != nil {
			s.l.Error("clickhouse recent_triggers rows error", applogger.Error(err))
		}
		return nil, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Debug("clickhouse recent_triggers ok",
			applogger.Int("limit", limit),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

func (s *CHTriggerLog) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *CHTriggerLog) Close() error {
	return nil // Managed by pkg
}

func boolToUInt8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
