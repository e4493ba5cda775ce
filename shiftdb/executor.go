package shiftdb

import (
	"context"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// PostgresDataAccess runs the statements built in this package against an
// injected connection pool. Writes run inside a transaction; reads run on
// the pool directly.
type PostgresDataAccess struct {
	db  *gorm.DB
	log *logrus.Logger
}

func NewPostgresDataAccess(db *gorm.DB, log *logrus.Logger) *PostgresDataAccess {
	return &PostgresDataAccess{db: db, log: log}
}

// Insert executes an insert returning the generated row id.
func (d *PostgresDataAccess) Insert(ctx context.Context, query string, params []any) (int, error) {
	var id int
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Raw(query, params...).Scan(&id).Error
	})
	if err != nil {
		d.logFailure(query, params, err)
		return 0, &StorageError{Query: query, Params: params, Err: err}
	}
	return id, nil
}

// Update executes a write and reports how many rows it touched. Touching
// zero rows is not an error at this layer.
func (d *PostgresDataAccess) Update(ctx context.Context, query string, params []any) (int64, error) {
	var affected int64
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(query, params...)
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		d.logFailure(query, params, err)
		return 0, &StorageError{Query: query, Params: params, Err: err}
	}
	return affected, nil
}

// Get executes a read and returns every row as a column-to-value map.
func (d *PostgresDataAccess) Get(ctx context.Context, query string, params []any) ([]map[string]any, error) {
	var rows []map[string]any
	if err := d.db.WithContext(ctx).Raw(query, params...).Scan(&rows).Error; err != nil {
		d.logFailure(query, params, err)
		return nil, &StorageError{Query: query, Params: params, Err: err}
	}
	return rows, nil
}

// GetOne executes a read expected to match at most one row. No match
// returns nil without error; callers decide whether that is a failure.
func (d *PostgresDataAccess) GetOne(ctx context.Context, query string, params []any) (map[string]any, error) {
	rows, err := d.Get(ctx, query, params)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (d *PostgresDataAccess) logFailure(query string, params []any, err error) {
	if d.log == nil {
		return
	}
	d.log.WithFields(logrus.Fields{
		"query":  query,
		"params": params,
	}).WithError(err).Error("statement failed")
}
