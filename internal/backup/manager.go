package backup

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"expense-tracker/internal/storage"
)

// Manager periodically snapshots the sqlite database to object storage and
// prunes snapshots beyond the retention count.
type Manager interface {
	Start(ctx context.Context) error
	Shutdown()
	RunOnce(ctx context.Context) error
}

type Config struct {
	Bucket    string
	KeyPrefix string
	Interval  time.Duration
	Retention int
	Logger    *logrus.Logger
}

type manager struct {
	cfg     Config
	db      *sql.DB
	storage storage.Service

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

func NewManager(cfg Config, db *sql.DB, store storage.Service) Manager {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 7
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	return &manager{
		cfg:     cfg,
		db:      db,
		storage: store,
	}
}

func (m *manager) Start(ctx context.Context) error {
	if m.cfg.Bucket == "" {
		return fmt.Errorf("backup bucket is required")
	}

	m.ctx, m.cancel = context.WithCancel(ctx)
	m.wg.Add(1)
	go m.loop()

	m.cfg.Logger.Infof("backup manager started, bucket %s, every %s", m.cfg.Bucket, m.cfg.Interval)
	return nil
}

func (m *manager) Shutdown() {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
	m.cfg.Logger.Info("backup manager stopped")
}

func (m *manager) loop() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			if err := m.RunOnce(m.ctx); err != nil {
				m.cfg.Logger.Warnf("backup run: %v", err)
			}
		}
	}
}

// RunOnce takes one consistent snapshot, uploads it, and prunes old ones.
func (m *manager) RunOnce(ctx context.Context) error {
	snapshot := filepath.Join(os.TempDir(), fmt.Sprintf("expense-snapshot-%d.db", time.Now().UnixNano()))
	defer os.Remove(snapshot)

	// VACUUM INTO writes a consistent copy without blocking writers for long
	if _, err := m.db.ExecContext(ctx, fmt.Sprintf("VACUUM INTO '%s'", snapshot)); err != nil {
		return fmt.Errorf("snapshot database: %w", err)
	}

	prefix := strings.Trim(m.cfg.KeyPrefix, "/")
	key := fmt.Sprintf("%s/expense-%s.db", prefix, time.Now().UTC().Format("20060102T150405Z"))

	location, err := m.storage.UploadFile(ctx, snapshot, storage.UploadOptions{
		Bucket: m.cfg.Bucket,
		Key:    key,
	})
	if err != nil {
		return err
	}
	m.cfg.Logger.Infof("uploaded snapshot to %s", location)

	return m.prune(ctx, prefix)
}

func (m *manager) prune(ctx context.Context, prefix string) error {
	objects, err := m.storage.ListObjects(ctx, m.cfg.Bucket, prefix+"/")
	if err != nil {
		return err
	}
	if len(objects) <= m.cfg.Retention {
		return nil
	}

	keys := make([]string, len(objects))
	for i := range objects {
		keys[i] = objects[i].Key
	}
	// keys embed a UTC timestamp, so lexicographic order is chronological
	sort.Strings(keys)

	stale := keys[:len(keys)-m.cfg.Retention]
	if err := m.storage.DeleteObjects(ctx, m.cfg.Bucket, stale); err != nil {
		return err
	}
	m.cfg.Logger.Infof("pruned %d old snapshots", len(stale))
	return nil
}
