package services

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/GabeSucich/elmo-fire-bets-backend/database"
	"github.com/GabeSucich/elmo-fire-bets-backend/logging"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	backupDirPrefix  = "backup_"
	backupTimeLayout = "2006-01-02_15-04-05"
	restoreBatchSize = 1000
	backupOpTimeout  = 30 * time.Minute
)

// CollectionSource resolves collections by name
type CollectionSource interface {
	GetCollection(name string) *mongo.Collection
}

// BackupService dumps ledger collections to one Extended JSON document per
// line so integer ids and dates survive a restore
type BackupService struct {
	db            CollectionSource
	backupDir     string
	retentionDays int
	collections   []string
	now           func() time.Time
	logger        *logging.Logger
}

type BackupConfig struct {
	BackupDir     string
	RetentionDays int
	Collections   []string
}

type BackupInfo struct {
	Timestamp   string    `json:"timestamp"`
	CreatedAt   time.Time `json:"created_at"`
	Size        int64     `json:"size"`
	Collections []string  `json:"collections"`
}

type backupMetadata struct {
	Timestamp   string   `json:"timestamp"`
	CreatedAt   string   `json:"created_at"`
	Collections []string `json:"collections"`
	Format      string   `json:"format"`
}

func NewBackupService(db CollectionSource, config BackupConfig) *BackupService {
	collections := config.Collections
	if len(collections) == 0 {
		collections = database.LedgerCollections
	}

	return &BackupService{
		db:            db,
		backupDir:     config.BackupDir,
		retentionDays: config.RetentionDays,
		collections:   collections,
		now:           time.Now,
		logger:        logging.WithPrefix("BackupService"),
	}
}

// CreateBackup writes every configured collection to a new timestamped
// directory and returns its timestamp
func (bs *BackupService) CreateBackup(ctx context.Context) (string, error) {
	timestamp := bs.now().Format(backupTimeLayout)
	backupPath := filepath.Join(bs.backupDir, backupDirPrefix+timestamp)

	bs.logger.Infof("Starting backup to %s", backupPath)

	if err := os.MkdirAll(backupPath, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, backupOpTimeout)
	defer cancel()

	for _, name := range bs.collections {
		count, err := bs.backupCollection(ctx, name, backupPath)
		if err != nil {
			return "", fmt.Errorf("failed to backup collection %s: %w", name, err)
		}
		bs.logger.Infof("Backed up %d documents from collection %s", count, name)
	}

	if err := bs.writeMetadata(backupPath, timestamp); err != nil {
		bs.logger.Warnf("Failed to create backup metadata: %v", err)
	}

	bs.logger.Infof("Backup completed successfully at %s", backupPath)
	return timestamp, nil
}

func (bs *BackupService) backupCollection(ctx context.Context, name, backupPath string) (int, error) {
	cursor, err := bs.db.GetCollection(name).Find(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to find documents: %w", err)
	}
	defer cursor.Close(ctx)

	file, err := os.Create(filepath.Join(backupPath, name+".json"))
	if err != nil {
		return 0, fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	count := 0
	for cursor.Next(ctx) {
		line, err := bson.MarshalExtJSON(cursor.Current, true, false)
		if err != nil {
			return count, fmt.Errorf("failed to encode document: %w", err)
		}
		if _, err := w.Write(append(line, '\n')); err != nil {
			return count, err
		}
		count++
	}
	if err := cursor.Err(); err != nil {
		return count, fmt.Errorf("cursor error: %w", err)
	}
	return count, w.Flush()
}

func (bs *BackupService) writeMetadata(backupPath, timestamp string) error {
	file, err := os.Create(filepath.Join(backupPath, "metadata.json"))
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(backupMetadata{
		Timestamp:   timestamp,
		CreatedAt:   bs.now().UTC().Format(time.RFC3339),
		Collections: bs.collections,
		Format:      "extjson-canonical",
	})
}

// CleanupOldBackups removes backups older than the retention window
func (bs *BackupService) CleanupOldBackups() (int, error) {
	if bs.retentionDays <= 0 {
		bs.logger.Info("Backup cleanup disabled (retention days <= 0)")
		return 0, nil
	}

	cutoff := bs.now().AddDate(0, 0, -bs.retentionDays)
	entries, err := os.ReadDir(bs.backupDir)
	if err != nil {
		return 0, fmt.Errorf("failed to read backup directory: %w", err)
	}

	deleted := 0
	for _, entry := range entries {
		if !entry.IsDir() || !isBackupDir(entry.Name()) {
			continue
		}
		created, err := time.ParseInLocation(backupTimeLayout, strings.TrimPrefix(entry.Name(), backupDirPrefix), time.Local)
		if err != nil {
			bs.logger.Warnf("Skipping backup with unreadable name %s", entry.Name())
			continue
		}
		if !created.Before(cutoff) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(bs.backupDir, entry.Name())); err != nil {
			bs.logger.Warnf("Failed to remove old backup %s: %v", entry.Name(), err)
			continue
		}
		bs.logger.Infof("Removed old backup: %s", entry.Name())
		deleted++
	}

	bs.logger.Infof("Cleanup completed. Removed %d old backups", deleted)
	return deleted, nil
}

func isBackupDir(name string) bool {
	return strings.HasPrefix(name, backupDirPrefix) && len(name) > len(backupDirPrefix)
}

// RestoreBackup replaces the named collections with the backup's contents.
// With no names every collection in the backup is restored.
func (bs *BackupService) RestoreBackup(ctx context.Context, timestamp string, collections []string) error {
	backupPath := filepath.Join(bs.backupDir, backupDirPrefix+timestamp)
	if _, err := os.Stat(backupPath); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("backup %s: %w", timestamp, database.ErrNotFound)
	}

	if len(collections) == 0 {
		collections = bs.collections
		if meta, err := bs.loadMetadata(backupPath); err == nil && len(meta.Collections) > 0 {
			collections = meta.Collections
		}
	}

	ctx, cancel := context.WithTimeout(ctx, backupOpTimeout)
	defer cancel()

	bs.logger.Infof("Starting restore from %s", backupPath)
	for _, name := range collections {
		count, err := bs.restoreCollection(ctx, name, backupPath)
		if err != nil {
			return fmt.Errorf("failed to restore collection %s: %w", name, err)
		}
		bs.logger.Infof("Restored %d documents to collection %s", count, name)
	}
	bs.logger.Infof("Restore completed successfully from %s", backupPath)
	return nil
}

func (bs *BackupService) restoreCollection(ctx context.Context, name, backupPath string) (int, error) {
	file, err := os.Open(filepath.Join(backupPath, name+".json"))
	if err != nil {
		return 0, fmt.Errorf("failed to open backup file: %w", err)
	}
	defer file.Close()

	documents, err := readExtJSONLines(file)
	if err != nil {
		return 0, err
	}

	collection := bs.db.GetCollection(name)
	bs.logger.Warnf("CLEARING collection %s before restore", name)
	if _, err := collection.DeleteMany(ctx, bson.M{}); err != nil {
		return 0, fmt.Errorf("failed to clear collection: %w", err)
	}

	for start := 0; start < len(documents); start += restoreBatchSize {
		end := min(start+restoreBatchSize, len(documents))
		if _, err := collection.InsertMany(ctx, documents[start:end]); err != nil {
			return start, fmt.Errorf("failed to insert batch: %w", err)
		}
	}
	return len(documents), nil
}

// readExtJSONLines decodes one canonical Extended JSON document per line
func readExtJSONLines(r io.Reader) ([]interface{}, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var documents []interface{}
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Bytes()
		if len(strings.TrimSpace(string(text))) == 0 {
			continue
		}
		var doc bson.D
		if err := bson.UnmarshalExtJSON(text, true, &doc); err != nil {
			return nil, fmt.Errorf("line %d: failed to decode document: %w", line, err)
		}
		documents = append(documents, doc)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return documents, nil
}

func (bs *BackupService) loadMetadata(backupPath string) (*backupMetadata, error) {
	file, err := os.Open(filepath.Join(backupPath, "metadata.json"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var meta backupMetadata
	if err := json.NewDecoder(file).Decode(&meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// ListBackups returns available backups with their metadata
func (bs *BackupService) ListBackups() ([]BackupInfo, error) {
	entries, err := os.ReadDir(bs.backupDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []BackupInfo{}
	for _, entry := range entries {
		if !entry.IsDir() || !isBackupDir(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			bs.logger.Warnf("Failed to get info for %s: %v", entry.Name(), err)
			continue
		}

		backupPath := filepath.Join(bs.backupDir, entry.Name())
		backup := BackupInfo{
			Timestamp:   strings.TrimPrefix(entry.Name(), backupDirPrefix),
			CreatedAt:   info.ModTime(),
			Size:        bs.calculateBackupSize(backupPath),
			Collections: bs.collections,
		}
		if meta, err := bs.loadMetadata(backupPath); err == nil {
			backup.Collections = meta.Collections
			if created, err := time.Parse(time.RFC3339, meta.CreatedAt); err == nil {
				backup.CreatedAt = created
			}
		}
		backups = append(backups, backup)
	}
	return backups, nil
}

func (bs *BackupService) calculateBackupSize(backupPath string) int64 {
	var totalSize int64
	err := filepath.Walk(backupPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			totalSize += info.Size()
		}
		return nil
	})
	if err != nil {
		bs.logger.Warnf("Failed to calculate backup size for %s: %v", backupPath, err)
		return 0
	}
	return totalSize
}
