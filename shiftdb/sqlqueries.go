package shiftdb

import (
	"fmt"
	"strings"

	"gitlab.com/skao/slt_backend/models"
)

// The builders in this file are pure: they take a descriptor plus filter
// values and return a parameterized statement with its bind values. No
// builder touches the database. Placeholders use "?" and are rewritten for
// the active dialect by the executor's driver.

// quoteIdent double-quotes an identifier, stripping any embedded quote so a
// descriptor value can never break out of the identifier position.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, ``) + `"`
}

// quoteLiteral single-quotes a string literal, doubling embedded quotes so
// a path segment can never break out of the literal position.
func quoteLiteral(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

func quotedList(names []string) string {
	quoted := make([]string, 0, len(names))
	for _, n := range names {
		quoted = append(quoted, quoteIdent(n))
	}
	return strings.Join(quoted, ", ")
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// InsertQuery builds the insert for one entity. All data columns plus all
// metadata columns are written in one statement; the generated row id is
// returned to the caller.
func InsertQuery(td TableDetails, entity any) (string, []any) {
	cols := td.ColumnNamesWithMetadata()
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		quoteIdent(td.TableName), quotedList(cols), placeholders(len(cols)),
	)
	return query, td.ParamsWithMetadata(entity)
}

// UpdateQuery builds a full-row update addressed by the descriptor's
// identifier column. A missing row updates zero rows; the executor reports
// the affected count and does not error.
func UpdateQuery(identifier any, td TableDetails, entity any) (string, []any) {
	cols := td.ColumnNamesWithMetadata()
	query := fmt.Sprintf(
		"UPDATE %s SET (%s) = (%s) WHERE id = (SELECT id FROM %s WHERE %s = ?)",
		quoteIdent(td.TableName), quotedList(cols), placeholders(len(cols)),
		quoteIdent(td.TableName), quoteIdent(td.IdentifierField),
	)
	params := append(td.ParamsWithMetadata(entity), identifier)
	return query, params
}

// PatchQuery builds a partial update writing only the given columns plus the
// metadata columns. Used by reconciliation so a background merge never
// clobbers operator-owned fields.
func PatchQuery(td TableDetails, columns []string, values []any, identifier any, entity any) (string, []any) {
	cols := append(append([]string{}, columns...), td.MetadataColumnNames()...)
	query := fmt.Sprintf(
		"UPDATE %s SET (%s) = (%s) WHERE id = (SELECT id FROM %s WHERE %s = ?)",
		quoteIdent(td.TableName), quotedList(cols), placeholders(len(cols)),
		quoteIdent(td.TableName), quoteIdent(td.IdentifierField),
	)
	params := append(append(append([]any{}, values...), td.MetadataParams(entity)...), identifier)
	return query, params
}

// ShiftLogsPatchQuery builds the reconciliation write: shift_logs plus
// metadata, nothing else.
func ShiftLogsPatchQuery(td TableDetails, shift models.Shift) (string, []any) {
	return PatchQuery(td, []string{"shift_logs"}, []any{jsonParam(shift.ShiftLogs)}, shift.ShiftId, shift)
}

// SelectLatestQuery builds the newest-first lookup by identifier, returning
// all columns.
func SelectLatestQuery(td TableDetails, identifier any) (string, []any) {
	query := fmt.Sprintf(
		"SELECT id, %s FROM %s WHERE %s = ? ORDER BY id DESC",
		quotedList(td.ColumnNamesWithMetadata()), quoteIdent(td.TableName), quoteIdent(td.IdentifierField),
	)
	return query, []any{identifier}
}

// SelectMetadataQuery builds the provenance-only lookup by identifier.
func SelectMetadataQuery(td TableDetails, identifier any) (string, []any) {
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = ?",
		quotedList(td.MetadataColumnNames()), quoteIdent(td.TableName), quoteIdent(td.IdentifierField),
	)
	return query, []any{identifier}
}

// SelectByDateQuery builds a range filter over one of the provenance
// timestamps. At least one bound must be present.
func SelectByDateQuery(td TableDetails, dq models.DateQuery) (string, []any, error) {
	var column string
	switch dq.QueryType {
	case models.QueryCreatedBetween:
		column = "created_on"
	case models.QueryModifiedBetween:
		column = "last_modified_on"
	default:
		return "", nil, fmt.Errorf("%w: %q", ErrUnsupportedQueryType, dq.QueryType)
	}

	var clauses []string
	var params []any
	if dq.Start != nil {
		clauses = append(clauses, quoteIdent(column)+" >= ?")
		params = append(params, *dq.Start)
	}
	if dq.End != nil {
		clauses = append(clauses, quoteIdent(column)+" <= ?")
		params = append(params, *dq.End)
	}
	if len(clauses) == 0 {
		return "", nil, ErrEmptyDateRange
	}

	query := fmt.Sprintf(
		"SELECT id, %s FROM %s WHERE %s ORDER BY id DESC",
		quotedList(td.ColumnNamesWithMetadata()), quoteIdent(td.TableName),
		strings.Join(clauses, " AND "),
	)
	return query, params, nil
}

// likePattern applies the wildcard template for a match type. An unknown
// match type degrades to exact matching.
func likePattern(value string, match models.MatchType) string {
	switch match {
	case models.MatchStartsWith:
		return value + "%"
	case models.MatchContains:
		return "%" + value + "%"
	default:
		return value
	}
}

// SelectByUserQuery builds a conjunctive text filter over the populated
// fields of a user query. With no populated field it selects everything.
func SelectByUserQuery(td TableDetails, uq models.UserQuery) (string, []any) {
	fields := []struct {
		column string
		value  string
	}{
		{"shift_id", uq.ShiftId},
		{"shift_operator", uq.ShiftOperator},
		{"comments", uq.Comments},
	}

	var clauses []string
	var params []any
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		clauses = append(clauses, quoteIdent(f.column)+" LIKE ?")
		params = append(params, likePattern(f.value, uq.MatchType))
	}

	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}
	query := fmt.Sprintf(
		"SELECT id, %s FROM %s%s ORDER BY id DESC",
		quotedList(td.ColumnNamesWithMetadata()), quoteIdent(td.TableName), where,
	)
	return query, params
}

// SelectByJSONPathQuery builds an equality filter on a value nested inside a
// jsonb column. Path segments are object keys; a "*" segment unwraps an
// array level. Matching is existential: a row qualifies when any element
// along the wildcard path carries the value.
func SelectByJSONPathQuery(td TableDetails, column string, path []string, value any) (string, []any) {
	expr := "t." + quoteIdent(column)
	var unwraps []string
	depth := 0
	for i, seg := range path {
		if seg == "*" {
			alias := fmt.Sprintf("elem%d", depth)
			unwraps = append(unwraps, fmt.Sprintf("jsonb_array_elements(%s) AS %s", expr, alias))
			expr = alias
			depth++
			continue
		}
		if i == len(path)-1 {
			expr = expr + " ->> " + quoteLiteral(seg)
		} else {
			expr = expr + " -> " + quoteLiteral(seg)
		}
	}

	from := "SELECT 1"
	if len(unwraps) > 0 {
		from = "SELECT 1 FROM " + strings.Join(unwraps, ", ")
	}
	query := fmt.Sprintf(
		"SELECT t.id, %s FROM %s t WHERE EXISTS (%s WHERE %s = ?) ORDER BY t.id DESC",
		prefixedList(td.ColumnNamesWithMetadata(), "t"), quoteIdent(td.TableName), from, expr,
	)
	return query, []any{value}
}

// SelectByStatusQuery filters shifts whose stored logs carry the derived
// status.
func SelectByStatusQuery(td TableDetails, status models.SbiEntityStatus) (string, []any) {
	return SelectByJSONPathQuery(td, "shift_logs", []string{"*", "info", "sbi_status"}, string(status.SbiStatus))
}

// SelectByEntityQuery filters shifts referencing an external entity id. The
// eb filter wins when both are set.
func SelectByEntityQuery(td TableDetails, filter models.EntityFilter) (string, []any) {
	if filter.EbId != "" {
		return SelectByJSONPathQuery(td, "shift_logs", []string{"*", "info", "eb_id"}, filter.EbId)
	}
	return SelectByJSONPathQuery(td, "shift_logs", []string{"*", "info", "sbi_ref"}, filter.SbiId)
}

// SelectByFieldsQuery builds a conjunctive equality filter over plain
// columns, newest first. Used for the default lookup shapes such as "all
// comments of one shift".
func SelectByFieldsQuery(td TableDetails, filters map[string]any) (string, []any) {
	var clauses []string
	var params []any
	// Stable clause order keeps statements reproducible for tests and logs.
	for _, col := range td.ColumnNamesWithMetadata() {
		if v, ok := filters[col]; ok {
			clauses = append(clauses, quoteIdent(col)+" = ?")
			params = append(params, v)
		}
	}
	if v, ok := filters["id"]; ok {
		clauses = append([]string{quoteIdent("id") + " = ?"}, clauses...)
		params = append([]any{v}, params...)
	}

	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}
	query := fmt.Sprintf(
		"SELECT id, %s FROM %s%s ORDER BY id DESC",
		quotedList(td.ColumnNamesWithMetadata()), quoteIdent(td.TableName), where,
	)
	return query, params
}

// SelectLastShiftQuery returns the most recently created shift row.
func SelectLastShiftQuery(td TableDetails) (string, []any) {
	query := fmt.Sprintf(
		"SELECT id, %s FROM %s ORDER BY id DESC LIMIT 1",
		quotedList(td.ColumnNamesWithMetadata()), quoteIdent(td.TableName),
	)
	return query, nil
}

func prefixedList(names []string, alias string) string {
	quoted := make([]string, 0, len(names))
	for _, n := range names {
		quoted = append(quoted, alias+"."+quoteIdent(n))
	}
	return strings.Join(quoted, ", ")
}
