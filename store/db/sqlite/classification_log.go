package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/hrygo/careerbot/store"
)

// CreateClassificationLog inserts an audit record. Intents and entities are
// stored as JSON text.
func (d *DB) CreateClassificationLog(ctx context.Context, create *store.ClassificationLog) (*store.ClassificationLog, error) {
	intents, err := json.Marshal(create.Intents)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal intents")
	}
	entities, err := json.Marshal(create.Entities)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal entities")
	}

	stmt := `INSERT INTO classification_log (uid, request_id, platform, intents, entities, outcome, latency_ms, created_ts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := d.db.ExecContext(ctx, stmt,
		create.UID, create.RequestID, create.Platform, string(intents), string(entities),
		create.Outcome, create.LatencyMs, create.CreatedTs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create classification log")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read classification log id")
	}

	log := *create
	log.ID = id
	return &log, nil
}

// ListClassificationLogs returns audit records, newest first.
func (d *DB) ListClassificationLogs(ctx context.Context, find *store.FindClassificationLog) ([]*store.ClassificationLog, error) {
	where, args := []string{"1 = 1"}, []any{}
	if find.Platform != nil {
		where, args = append(where, "platform = ?"), append(args, *find.Platform)
	}
	if find.Outcome != nil {
		where, args = append(where, "outcome = ?"), append(args, *find.Outcome)
	}

	query := `SELECT id, uid, request_id, platform, intents, entities, outcome, latency_ms, created_ts
		FROM classification_log
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_ts DESC, id DESC`
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
			intents  string
			entities string
		)
		if err := rows.Scan(&log.ID, &log.UID, &log.RequestID, &log.Platform, &intents, &entities,
			&log.Outcome, &log.LatencyMs, &log.CreatedTs); err != nil {
			return nil, errors.Wrap(err, "failed to scan classification log")
		}
		if err := json.Unmarshal([]byte(intents), &log.Intents); err != nil {
			return nil, errors.Wrapf(err, "classification log %s: invalid intents", log.UID)
		}
		if err := json.Unmarshal([]byte(entities), &log.Entities); err != nil {
			return nil, errors.Wrapf(err, "classification log %s: invalid entities", log.UID)
		}
		list = append(list, &log)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate classification logs")
	}

	return list, nil
}
