package knowledge

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrisense-ai/agribot/internal/observability"
)

func writeKnowledgeDB(t *testing.T, rows [][5]any) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "knowledge.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE knowledge_fields (
		topic     TEXT NOT NULL,
		entry_key TEXT NOT NULL,
		field     TEXT NOT NULL,
		value     TEXT NOT NULL,
		is_list   INTEGER NOT NULL DEFAULT 0
	)`)
	require.NoError(t, err)

	for _, r := range rows {
		_, err = db.Exec(
			`INSERT INTO knowledge_fields (topic, entry_key, field, value, is_list) VALUES (?, ?, ?, ?, ?)`,
			r[0], r[1], r[2], r[3], r[4])
		require.NoError(t, err)
	}
	return path
}

func TestLoadSQLite(t *testing.T) {
	path := writeKnowledgeDB(t, [][5]any{
		{"crops", "barley", "name", "Barley", 0},
		{"crops", "barley", "description", "A cereal for cool climates.", 0},
		{"crops", "barley", "pests", `["Aphids","Rust"]`, 1},
		{"soil", "mulching", "", "Mulch keeps soil moisture in.", 0},
	})

	s := Load(observability.Nop(), Options{SQLitePath: path})

	crops := s.Entries("crops")
	require.Len(t, crops, 1)
	assert.Equal(t, "barley", crops[0].Key)

	pests, ok := crops[0].Entry.Field("pests")
	require.True(t, ok)
	assert.Equal(t, []string{"Aphids", "Rust"}, pests.List)

	soil := s.Entries("soil")
	require.Len(t, soil, 1)
	assert.True(t, soil[0].Entry.IsText())

	// Topics the database does not provide fall back to defaults.
	assert.Len(t, s.Entries("pests"), 2)
}

func TestLoadSQLite_MissingFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.db")

	s := Load(observability.Nop(), Options{SQLitePath: path})
	assert.Len(t, s.Entries("crops"), 5)

	// Read-only open must not leave an empty database file behind.
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
