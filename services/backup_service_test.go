package services

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/GabeSucich/elmo-fire-bets-backend/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func makeBackupDir(t *testing.T, root, name string, files map[string]string) {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for file, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(content), 0o644))
	}
}

func TestCleanupOldBackups(t *testing.T) {
	root := t.TempDir()
	makeBackupDir(t, root, "backup_2025-01-01_02-00-00", nil)
	makeBackupDir(t, root, "backup_2025-03-01_02-00-00", nil)
	makeBackupDir(t, root, "backup_garbage", nil)
	makeBackupDir(t, root, "unrelated", nil)

	bs := NewBackupService(nil, BackupConfig{BackupDir: root, RetentionDays: 30})
	bs.now = func() time.Time { return time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local) }

	deleted, err := bs.CleanupOldBackups()
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"backup_2025-03-01_02-00-00", "backup_garbage", "unrelated"}, names)
}

func TestCleanupDisabled(t *testing.T) {
	bs := NewBackupService(nil, BackupConfig{BackupDir: t.TempDir()})
	deleted, err := bs.CleanupOldBackups()
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestListBackups(t *testing.T) {
	root := t.TempDir()
	makeBackupDir(t, root, "backup_2025-03-01_02-00-00", map[string]string{
		"parlays.json":  "{}\n",
		"metadata.json": `{"timestamp":"2025-03-01_02-00-00","created_at":"2025-03-01T02:00:00Z","collections":["parlays"],"format":"extjson-canonical"}`,
	})
	makeBackupDir(t, root, "backup_2025-03-02_02-00-00", map[string]string{"users.json": "{}\n"})

	bs := NewBackupService(nil, BackupConfig{BackupDir: root})
	backups, err := bs.ListBackups()
	require.NoError(t, err)
	require.Len(t, backups, 2)

	byStamp := map[string]BackupInfo{}
	for _, b := range backups {
		byStamp[b.Timestamp] = b
	}
	withMeta := byStamp["2025-03-01_02-00-00"]
	assert.Equal(t, []string{"parlays"}, withMeta.Collections)
	assert.Equal(t, time.Date(2025, 3, 1, 2, 0, 0, 0, time.UTC), withMeta.CreatedAt.UTC())
	assert.Positive(t, withMeta.Size)

	assert.Equal(t, database.LedgerCollections, byStamp["2025-03-02_02-00-00"].Collections)
}

func TestRestoreMissingBackup(t *testing.T) {
	bs := NewBackupService(nil, BackupConfig{BackupDir: t.TempDir()})
	err := bs.RestoreBackup(context.Background(), "2025-01-01_00-00-00", nil)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestReadExtJSONLinesKeepsTypes(t *testing.T) {
	created := time.Date(2025, 9, 14, 17, 25, 0, 0, time.UTC)
	line, err := bson.MarshalExtJSON(bson.D{
		{Key: "_id", Value: int32(42)},
		{Key: "created_at", Value: created},
	}, true, false)
	require.NoError(t, err)

	input := bytes.Join([][]byte{line, {}, line}, []byte("\n"))
	docs, err := readExtJSONLines(bytes.NewReader(input))
	require.NoError(t, err)
	require.Len(t, docs, 2)

	doc := docs[0].(bson.D).Map()
	assert.Equal(t, int32(42), doc["_id"])
	_, isDate := doc["created_at"].(primitive.DateTime)
	assert.True(t, isDate, "dates survive as BSON dates, got %T", doc["created_at"])

	_, err = readExtJSONLines(bytes.NewReader([]byte("{not json")))
	assert.Error(t, err)
}
