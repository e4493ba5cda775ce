package shiftdb

import (
	"context"
	"errors"

	"gitlab.com/skao/slt_backend/models"
)

// EntityQuery is the closed set of filter shapes the facade accepts. Each
// variant maps to exactly one builder; callers pick the variant instead of
// passing loose filter maps.
type EntityQuery interface {
	isEntityQuery()
}

// ByDateRange filters on a provenance timestamp window.
type ByDateRange struct {
	models.DateQuery
}

// ByStatus filters shifts on the status derived from their stored logs.
type ByStatus struct {
	models.SbiEntityStatus
}

// ByODAEntity filters shifts referencing an external record or scheduling
// block.
type ByODAEntity struct {
	models.EntityFilter
}

// ByUserMatch filters on operator-supplied text fields.
type ByUserMatch struct {
	models.UserQuery
}

// ByFields is the default lookup: conjunctive equality on plain columns.
// The zero value selects everything, newest first.
type ByFields struct {
	Id      *int
	ShiftId string
	EbId    string
}

func (ByDateRange) isEntityQuery() {}
func (ByStatus) isEntityQuery()    {}
func (ByODAEntity) isEntityQuery() {}
func (ByUserMatch) isEntityQuery() {}
func (ByFields) isEntityQuery()    {}

// DataAccess is the executor surface the facade dispatches to.
// *PostgresDataAccess is the production implementation.
type DataAccess interface {
	Insert(ctx context.Context, query string, params []any) (int, error)
	Update(ctx context.Context, query string, params []any) (int64, error)
	Get(ctx context.Context, query string, params []any) ([]map[string]any, error)
	GetOne(ctx context.Context, query string, params []any) (map[string]any, error)
}

// DBCrud dispatches entity values to the right table and builder, and
// decodes nothing: rows come back as column maps for the caller to shape.
type DBCrud struct {
	store DataAccess
}

func NewDBCrud(store DataAccess) *DBCrud {
	return &DBCrud{store: store}
}

// InsertEntity persists a new entity and returns its generated row id.
func (c *DBCrud) InsertEntity(ctx context.Context, entity any) (int, error) {
	td, err := DetailsFor(entity)
	if err != nil {
		return 0, err
	}
	query, params := InsertQuery(td, entity)
	return c.store.Insert(ctx, query, params)
}

// UpdateEntity rewrites the full row addressed by the descriptor's
// identifier column and returns the affected row count. Zero rows means the
// identifier matched nothing; callers decide whether that is fatal.
func (c *DBCrud) UpdateEntity(ctx context.Context, identifier any, entity any) (int64, error) {
	td, err := DetailsFor(entity)
	if err != nil {
		return 0, err
	}
	query, params := UpdateQuery(identifier, td, entity)
	return c.store.Update(ctx, query, params)
}

// PatchShiftLogs writes only the log payload and metadata of a shift,
// leaving operator-owned columns untouched.
func (c *DBCrud) PatchShiftLogs(ctx context.Context, shift models.Shift) (int64, error) {
	td, err := DetailsForKind(KindShift)
	if err != nil {
		return 0, err
	}
	query, params := ShiftLogsPatchQuery(td, shift)
	return c.store.Update(ctx, query, params)
}

// GetEntity returns the newest row for an identifier, or NotFoundError.
func (c *DBCrud) GetEntity(ctx context.Context, entity any, identifier any) (map[string]any, error) {
	td, err := DetailsFor(entity)
	if err != nil {
		return nil, err
	}
	query, params := SelectLatestQuery(td, identifier)
	row, err := c.store.GetOne(ctx, query, params)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, NewNotFound("no %v found for %s=%v", td.Kind, td.IdentifierField, identifier)
	}
	return row, nil
}

// GetEntityMetadata returns only the provenance columns for an identifier.
func (c *DBCrud) GetEntityMetadata(ctx context.Context, entity any, identifier any) (map[string]any, error) {
	td, err := DetailsFor(entity)
	if err != nil {
		return nil, err
	}
	query, params := SelectMetadataQuery(td, identifier)
	row, err := c.store.GetOne(ctx, query, params)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, NewNotFound("no %v found for %s=%v", td.Kind, td.IdentifierField, identifier)
	}
	return row, nil
}

// GetEntities runs the query variant against the entity's table. A nil
// query selects everything. Underspecified filters surface as NotFoundError
// carrying a hint; store failures pass through untouched.
func (c *DBCrud) GetEntities(ctx context.Context, entity any, q EntityQuery) ([]map[string]any, error) {
	td, err := DetailsFor(entity)
	if err != nil {
		return nil, err
	}

	var query string
	var params []any
	switch v := q.(type) {
	case nil:
		query, params = SelectByFieldsQuery(td, nil)
	case ByDateRange:
		query, params, err = SelectByDateQuery(td, v.DateQuery)
		if err != nil {
			return nil, NewNotFound("unusable date filter: %v", err)
		}
	case ByStatus:
		query, params = SelectByStatusQuery(td, v.SbiEntityStatus)
	case ByODAEntity:
		if v.EbId == "" && v.SbiId == "" {
			return nil, NewNotFound("entity filter needs an eb or sbi id; set one and retry")
		}
		query, params = SelectByEntityQuery(td, v.EntityFilter)
	case ByUserMatch:
		if v.MatchType == "" && (v.ShiftId != "" || v.ShiftOperator != "" || v.Comments != "") {
			return nil, NewNotFound("text filter needs a match type (equals, starts_with or contains)")
		}
		query, params = SelectByUserQuery(td, v.UserQuery)
	case ByFields:
		filters := map[string]any{}
		if v.Id != nil {
			filters["id"] = *v.Id
		}
		if v.ShiftId != "" {
			filters["shift_id"] = v.ShiftId
		}
		if v.EbId != "" {
			filters["eb_id"] = v.EbId
		}
		query, params = SelectByFieldsQuery(td, filters)
	default:
		return nil, NewNotFound("unsupported query %T", q)
	}

	rows, err := c.store.Get(ctx, query, params)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, NewNotFound("no %v rows matched the filter", td.Kind)
	}
	return rows, nil
}

// GetLastShift returns the most recently created shift row, or
// NotFoundError when the table is empty.
func (c *DBCrud) GetLastShift(ctx context.Context) (map[string]any, error) {
	td, err := DetailsForKind(KindShift)
	if err != nil {
		return nil, err
	}
	query, params := SelectLastShiftQuery(td)
	row, err := c.store.GetOne(ctx, query, params)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, NewNotFound("no shifts recorded yet")
	}
	return row, nil
}

// IsNotFound reports whether err is a no-rows outcome from this facade.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
