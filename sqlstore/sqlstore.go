// Package sqlstore keeps a book in a SQLite database.
//
// The whole book is one ordered table: saving replaces every row, in a
// transaction, so the database always holds a consistent snapshot.
package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/etnz/tradebook"
	"github.com/etnz/tradebook/date"
)

// trade is the row of a trade in the database.
type trade struct {
	ID         uint    `gorm:"primaryKey"`
	Position   int     `gorm:"index;not null"` // order in the book
	Date       string  `gorm:"size:10;not null"`
	Instrument string  `gorm:"index;not null"`
	Side       string  `gorm:"size:4;not null"`
	Quantity   float64 `gorm:"not null"`
	Price      float64 `gorm:"not null"`
	Total      float64 // for the convenience of SQL readers, never read back
	Note       string
}

func (trade) TableName() string { return "trades" }

// Store is a tradebook.Store backed by SQLite.
type Store struct {
	db *gorm.DB
	// OnSkip, if set, is called for every row skipped while loading.
	OnSkip func(error)
}

var _ tradebook.Store = (*Store)(nil)

// Open opens (or creates) the database at dsn and migrates its schema.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&trade{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Load reads the book. Rows that are not valid trades are skipped and
// reported to OnSkip, the rest of the book loads.
func (s *Store) Load(ctx context.Context) (*tradebook.Book, error) {
	var rows []trade
	if err := s.db.WithContext(ctx).Order("position").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load trades: %w", err)
	}
	book := tradebook.NewBook()
	for _, row := range rows {
		t, err := row.trade()
		if err == nil {
			err = book.Add(t)
		}
		if err != nil {
			s.skip(fmt.Errorf("invalid trade %d in database: %w", row.ID, err))
		}
	}
	return book, nil
}

func (s *Store) skip(err error) {
	if s.OnSkip != nil {
		s.OnSkip(err)
	}
}

// Save replaces the content of the database with book.
func (s *Store) Save(ctx context.Context, book *tradebook.Book) error {
	trades := book.Snapshot()
	rows := make([]trade, 0, len(trades))
	for i, t := range trades {
		rows = append(rows, trade{
			Position:   i,
			Date:       t.Date.String(),
			Instrument: t.Instrument,
			Side:       t.Side.String(),
			Quantity:   t.Quantity,
			Price:      t.Price,
			Total:      t.Total(),
			Note:       t.Note,
		})
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&trade{}).Error; err != nil {
			return fmt.Errorf("failed to clear trades: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, 500).Error; err != nil {
			return fmt.Errorf("failed to save trades: %w", err)
		}
		return nil
	})
}

func (row trade) trade() (tradebook.Trade, error) {
	on, err := date.Parse(row.Date)
	if err != nil {
		return tradebook.Trade{}, err
	}
	side, err := tradebook.ParseSide(row.Side)
	if err != nil {
		return tradebook.Trade{}, err
	}
	return tradebook.NewTrade(on, strings.TrimSpace(row.Instrument), side, row.Quantity, row.Price, row.Note), nil
}
