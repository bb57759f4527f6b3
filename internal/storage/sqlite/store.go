package sqlite

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store оборачивает gorm-подключение к SQLite.
// Используется как встраиваемое хранилище для локальной разработки,
// когда PostgreSQL недоступен.
type Store struct {
	db *gorm.DB
}

// Open открывает файл базы и накатывает схему.
func Open(path string) (*Store, error) {
	if path == "" {
		path = "crm.db"
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite database %s: %w", path, err)
	}

	if err := db.AutoMigrate(&customerModel{}, &productModel{}, &orderModel{}); err != nil {
		return nil, fmt.Errorf("migrate sqlite schema: %w", err)
	}

	return &Store{db: db}, nil
}

// DB возвращает gorm-подключение.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Close закрывает нижележащее SQL-подключение.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("unwrap sqlite connection: %w", err)
	}
	return sqlDB.Close()
}
