package store

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/aigoflow/model-monitor/internal/models"
)

type DB struct {
	*sql.DB
}

func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	// Create events table for warning-level diagnostics
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS events(
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ts REAL,
		level TEXT,
		code TEXT,
		msg TEXT,
		meta TEXT
	)`); err != nil {
		return nil, err
	}

	// Create rows table spooling every exported row
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS rows(
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ts REAL,
		prediction_id TEXT,
		prediction_ts INTEGER,
		model_id TEXT,
		model_type TEXT,
		model_version TEXT,
		environment TEXT,
		row_json TEXT
	)`); err != nil {
		return nil, err
	}

	return &DB{db}, nil
}

func (db *DB) Event(level, code, msg string, meta map[string]interface{}) {
	m := ""
	if meta != nil {
		b, _ := json.Marshal(meta)
		m = string(b)
	}
	_, _ = db.Exec(`INSERT INTO events(ts,level,code,msg,meta) VALUES(?,?,?,?,?)`,
		float64(time.Now().UnixNano())/1e9, level, code, msg, m)
}

// InsertRow spools one exported row. The full row is kept as JSON next
// to the indexed identity columns.
func (db *DB) InsertRow(row *models.Row) error {
	payload, err := json.Marshal(row)
	if err != nil {
		return err
	}
	_, err = db.Exec(`INSERT INTO rows(
		ts, prediction_id, prediction_ts, model_id, model_type, model_version, environment, row_json)
		VALUES(?,?,?,?,?,?,?,?)`,
		float64(time.Now().UnixNano())/1e9,
		row.PredictionID, row.PredictionTimestamp,
		row.ModelID, row.ModelType.String(), row.ModelVersion,
		row.Environment.String(), string(payload))
	return err
}

// RecentRows returns the most recently spooled rows, newest first.
func (db *DB) RecentRows(limit int) ([]*models.Row, error) {
	rows, err := db.Query(`SELECT row_json FROM rows ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Row
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var r models.Row
		if err := json.Unmarshal([]byte(payload), &r); err != nil {
			return nil, err
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}

// CountRows returns the number of spooled rows for a model id.
func (db *DB) CountRows(modelID string) (int, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM rows WHERE model_id = ?`, modelID).Scan(&n)
	return n, err
}
