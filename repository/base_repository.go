package repository

import (
	"errors"
	"fmt"

	"agentedigitalapi/config"

	"gorm.io/gorm"
)

// BaseRepository provides transaction management and schema probing.
type BaseRepository interface {
	Begin() *gorm.DB
	HasTable(tx *gorm.DB, table string) bool
	HasColumn(tx *gorm.DB, table, column string) bool
	DeleteWhere(tx *gorm.DB, table, where string, args ...interface{}) (int64, error)
	PluckStrings(tx *gorm.DB, table, column, where string, args ...interface{}) ([]string, error)
	Ping() error
}

type baseRepository struct {
	db *gorm.DB
}

// NewBaseRepository creates a new base repository instance with database connection.
func NewBaseRepository() BaseRepository {
	return &baseRepository{
		db: config.DB,
	}
}

func (r *baseRepository) Begin() *gorm.DB {
	return r.db.Begin()
}

func (r *baseRepository) HasTable(tx *gorm.DB, table string) bool {
	return pick(tx, r.db).Migrator().HasTable(table)
}

func (r *baseRepository) HasColumn(tx *gorm.DB, table, column string) bool {
	return pick(tx, r.db).Migrator().HasColumn(table, column)
}

// DeleteWhere runs DELETE FROM table WHERE where. The table name is never
// user input; the condition is parameterized.
func (r *baseRepository) DeleteWhere(tx *gorm.DB, table, where string, args ...interface{}) (int64, error) {
	res := pick(tx, r.db).Exec(fmt.Sprintf("DELETE FROM %s WHERE %s", table, where), args...)
	if res.Error != nil {
		return 0, fmt.Errorf("delete from %s: %w", table, res.Error)
	}
	return res.RowsAffected, nil
}

func (r *baseRepository) PluckStrings(tx *gorm.DB, table, column, where string, args ...interface{}) ([]string, error) {
	var values []string
	if err := pick(tx, r.db).Table(table).Where(where, args...).
		Where(column+" IS NOT NULL").Pluck(column, &values).Error; err != nil {
		return nil, fmt.Errorf("pluck %s.%s: %w", table, column, err)
	}
	return values, nil
}

func (r *baseRepository) Ping() error {
	if r.db == nil {
		return errors.New("database not initialized")
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// pick returns tx when the caller runs inside a transaction, db otherwise.
func pick(tx, db *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}
