package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Slot is one row of the storage_slots table.
type Slot struct {
	Name      string         `gorm:"primaryKey;size:64"`
	Value     datatypes.JSON `gorm:"not null"`
	UpdatedAt time.Time
}

func (Slot) TableName() string { return "storage_slots" }

// Gorm stores slots in a SQL table through gorm.
type Gorm struct {
	db *gorm.DB
}

// OpenSQLite opens (creating if needed) a SQLite database file.
func OpenSQLite(path string) (*Gorm, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating sqlite directory: %w", err)
		}
	}
	return openGorm(sqlite.Open(path + "?_busy_timeout=5000"))
}

func OpenPostgres(dsn string) (*Gorm, error) {
	return openGorm(postgres.Open(dsn))
}

// NewGorm wraps an already opened database and migrates the slot table.
func NewGorm(db *gorm.DB) (*Gorm, error) {
	if err := db.AutoMigrate(&Slot{}); err != nil {
		return nil, fmt.Errorf("migrating storage_slots: %w", err)
	}
	return &Gorm{db: db}, nil
}

func openGorm(dialector gorm.Dialector) (*Gorm, error) {
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return NewGorm(db)
}

func (g *Gorm) Get(ctx context.Context, name string) ([]byte, error) {
	var s Slot
	err := g.db.WithContext(ctx).Where("name = ?", name).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading slot %s: %w", name, err)
	}
	return []byte(s.Value), nil
}

func (g *Gorm) Put(ctx context.Context, name string, blob []byte) error {
	s := Slot{Name: name, Value: datatypes.JSON(blob), UpdatedAt: time.Now()}
	err := g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&s).Error
	if err != nil {
		return fmt.Errorf("writing slot %s: %w", name, err)
	}
	return nil
}

func (g *Gorm) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
