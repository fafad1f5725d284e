package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"clingov/internal/domain"
)

// LineageEventRepo persists lineage events. The full event is stored as
// a JSON payload alongside queryable columns, so the wire shape and the
// stored shape never drift. Writes go through the single-connection
// write pool; List rides the read pool so traversal queries run
// concurrently with inserts under WAL.
type LineageEventRepo struct {
	writeDB *sql.DB
	readDB  *sql.DB
}

func NewLineageEventRepo(writeDB, readDB *sql.DB) *LineageEventRepo {
	return &LineageEventRepo{writeDB: writeDB, readDB: readDB}
}

var _ domain.LineageEventRepository = (*LineageEventRepo)(nil)

func (r *LineageEventRepo) Insert(ctx context.Context, ev *domain.LineageEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal lineage event %s: %w", ev.EventID, err)
	}

	_, err = r.writeDB.ExecContext(ctx, `
		INSERT INTO lineage_events (event_id, event_type, timestamp, triggered_by, payload)
		VALUES (?, ?, ?, ?, ?)`,
		ev.EventID, string(ev.EventType), ev.Timestamp.UTC(), ev.TriggeredBy, string(payload),
	)
	return mapDBError(err)
}

// List returns all stored events ordered by event timestamp ascending.
func (r *LineageEventRepo) List(ctx context.Context) ([]domain.LineageEvent, error) {
	rows, err := r.readDB.QueryContext(ctx, `
		SELECT payload FROM lineage_events ORDER BY timestamp ASC, event_id ASC`)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()

	var events []domain.LineageEvent
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, mapDBError(err)
		}
		var ev domain.LineageEvent
		if err := json.Unmarshal([]byte(payload), &ev); err != nil {
			return nil, fmt.Errorf("unmarshal lineage event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// PurgeOlderThan deletes events with a timestamp before the cutoff and
// returns the number of rows removed.
func (r *LineageEventRepo) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.writeDB.ExecContext(ctx, `
		DELETE FROM lineage_events WHERE timestamp < ?`, cutoff.UTC())
	if err != nil {
		return 0, mapDBError(err)
	}
	return res.RowsAffected()
}
