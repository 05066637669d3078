package knowledge

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// loadSQLite reads knowledge rows from a SQLite database. The expected schema
// is one row per field:
//
//	CREATE TABLE knowledge_fields (
//	    topic     TEXT NOT NULL,
//	    entry_key TEXT NOT NULL,
//	    field     TEXT NOT NULL,  -- '' marks a bare-text entry
//	    value     TEXT NOT NULL,  -- JSON array when is_list = 1
//	    is_list   INTEGER NOT NULL DEFAULT 0
//	);
//
// Row order (rowid) defines entry and field order. The store is only touched
// when the whole read succeeds.
func (s *Store) loadSQLite(path string) error {
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return fmt.Errorf("open knowledge database: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(
		`SELECT topic, entry_key, field, value, is_list FROM knowledge_fields ORDER BY rowid`)
	if err != nil {
		return fmt.Errorf("query knowledge rows: %w", err)
	}
	defer rows.Close()

	type pending struct {
		topic string
		key   string
		entry *Entry
	}

	var (
		loaded    []pending
		curTopic  string
		curKey    string
		curFields []Field
		open      bool
	)

	flush := func() {
		if open {
			loaded = append(loaded, pending{curTopic, curKey, NewEntry(curFields...)})
			curFields = nil
			open = false
		}
	}

	for rows.Next() {
		var topic, key, field, value string
		var isList bool
		if err := rows.Scan(&topic, &key, &field, &value, &isList); err != nil {
			return fmt.Errorf("scan knowledge row: %w", err)
		}

		if open && (topic != curTopic || key != curKey) {
			flush()
		}

		if field == "" {
			flush()
			loaded = append(loaded, pending{topic, key, TextEntry(value)})
			continue
		}

		curTopic, curKey, open = topic, key, true
		if isList {
			var list []string
			if err := json.Unmarshal([]byte(value), &list); err != nil {
				return fmt.Errorf("entry %s/%s field %s: %w", topic, key, field, err)
			}
			curFields = append(curFields, Strs(field, list...))
		} else {
			curFields = append(curFields, Str(field, value))
		}
	}
	flush()

	if err := rows.Err(); err != nil {
		return fmt.Errorf("read knowledge rows: %w", err)
	}
	if len(loaded) == 0 {
		return fmt.Errorf("knowledge database %s holds no entries", path)
	}

	for _, p := range loaded {
		s.addEntry(p.topic, p.key, p.entry)
	}
	return nil
}
