package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/hrygo/careerbot/store"
)

// CreateClassificationLog inserts an audit record.
// intents is TEXT[] - use pq.Array; entities is JSONB.
func (d *DB) CreateClassificationLog(ctx context.Context, create *store.ClassificationLog) (*store.ClassificationLog, error) {
	entities, err := json.Marshal(create.Entities)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal entities")
	}

	stmt := `INSERT INTO classification_log (uid, request_id, platform, intents, entities, outcome, latency_ms, created_ts)
		VALUES (` + placeholders(8) + `)
		RETURNING id`
	log := *create
	if err := d.db.QueryRowContext(ctx, stmt,
		create.UID, create.RequestID, create.Platform, pq.Array(create.Intents), string(entities),
		create.Outcome, create.LatencyMs, create.CreatedTs,
	).Scan(&log.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create classification log")
	}

	return &log, nil
}

// ListClassificationLogs returns audit records, newest first.
func (d *DB) ListClassificationLogs(ctx context.Context, find *store.FindClassificationLog) ([]*store.ClassificationLog, error) {
	query := `SELECT id, uid, request_id, platform, intents, entities, outcome, latency_ms, created_ts
		FROM classification_log WHERE 1=1`
	args := []any{}
	argIdx := 1

	if find.Platform != nil {
		query += fmt.Sprintf(" AND platform = %s", placeholder(argIdx))
		args = append(args, *find.Platform)
		argIdx++
	}
	if find.Outcome != nil {
		query += fmt.Sprintf(" AND outcome = %s", placeholder(argIdx))
		args = append(args, *find.Outcome)
	}

	query += " ORDER BY created_ts DESC, id DESC"
	if find.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list classification logs")
	}
	defer rows.Close()

	var list []*store.ClassificationLog
	for rows.Next() {
		var (
			log      store.ClassificationLog
			entities []byte
		)
		if err := rows.Scan(&log.ID, &log.UID, &log.RequestID, &log.Platform, pq.Array(&log.Intents), &entities,
			&log.Outcome, &log.LatencyMs, &log.CreatedTs); err != nil {
			return nil, errors.Wrap(err, "failed to scan classification log")
		}
		if err := json.Unmarshal(entities, &log.Entities); err != nil {
			return nil, errors.Wrapf(err, "classification log %s: invalid entities", log.UID)
		}
		list = append(list, &log)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate classification logs")
	}

	return list, nil
}
