package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"stockroom-cli/internal/model"
)

func (s Store) appendEventSQLite(ctx context.Context, userID, typ, entityID string, payload any) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrateSQLiteState(ctx, db); err != nil {
		return err
	}

	id, err := newRandomID("evt")
	if err != nil {
		id = "evt-" + time.Now().UTC().Format("20060102150405.000000000")
	}
	var payloadJSON *string
	if payload != nil {
		b, err := json.Marshal(payload)
		if err == nil {
			s := string(b)
			payloadJSON = &s
		}
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO events(id, ts_unixms, user_id, type, entity_id, payload_json) VALUES(?, ?, ?, ?, ?, ?)`,
		id, time.Now().UTC().UnixMilli(), strings.TrimSpace(userID), strings.TrimSpace(typ), strings.TrimSpace(entityID), payloadJSON)
	return err
}

// ReadEvents returns events in chronological order. limit <= 0 returns all.
func ReadEvents(dir string, limit int) ([]model.Event, error) {
	return readEventsWhere(dir, "", limit)
}

// ReadEventsForEntity returns events matching entityID in chronological
// order. limit <= 0 returns all matches.
func ReadEventsForEntity(dir, entityID string, limit int) ([]model.Event, error) {
	entityID = strings.TrimSpace(entityID)
	if entityID == "" {
		return []model.Event{}, nil
	}
	return readEventsWhere(dir, entityID, limit)
}

func readEventsWhere(dir, entityID string, limit int) ([]model.Event, error) {
	ctx := context.Background()
	s := Store{Dir: dir}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if err := migrateSQLiteState(ctx, db); err != nil {
		return nil, err
	}

	q := `SELECT id, ts_unixms, user_id, type, entity_id, payload_json FROM events`
	args := []any{}
	if entityID != "" {
		q += ` WHERE entity_id = ?`
		args = append(args, entityID)
	}
	q += ` ORDER BY seq`
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Event{}
	for rows.Next() {
		var ev model.Event
		var ms int64
		var payload sql.NullString
		if err := rows.Scan(&ev.ID, &ms, &ev.UserID, &ev.Type, &ev.EntityID, &payload); err != nil {
			return nil, err
		}
		ev.TS = time.UnixMilli(ms).UTC()
		if payload.Valid && payload.String != "" {
			var v any
			if err := json.Unmarshal([]byte(payload.String), &v); err == nil {
				ev.Payload = v
			}
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
