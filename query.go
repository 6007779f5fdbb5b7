package main

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
)

// ResultSet is a fully fetched tabular result.
type ResultSet struct {
	Columns []string
	Rows    [][]Value
}

// LastColumn returns the last field of every row. Listing statements put
// the interesting value last: SHOW DATABASES and SHOW TABLES have a single
// column, SHOW CREATE TABLE returns the table name followed by its DDL.
func (r *ResultSet) LastColumn() []Value {
	values := make([]Value, 0, len(r.Rows))
	for _, row := range r.Rows {
		if len(row) == 0 {
			continue
		}
		values = append(values, row[len(row)-1])
	}
	return values
}

// Mutation is the outcome of a statement without a result set.
type Mutation struct {
	RowsAffected int64
	Elapsed      time.Duration
}

// fetchAll runs query and reads every row.
func fetchAll(ctx context.Context, conn Conn, query string) (*ResultSet, error) {
	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get columns")
	}
	if len(columns) == 0 {
		return nil, errors.New("statement returned no result set")
	}
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get column types")
	}
	dbTypes := make([]string, len(types))
	for i, ct := range types {
		dbTypes[i] = ct.DatabaseTypeName()
	}

	result := &ResultSet{Columns: columns, Rows: [][]Value{}}
	values := make([]any, len(columns))
	valuePtrs := make([]any, len(columns))
	for i := range values {
		valuePtrs[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, errors.Wrapf(err, "failed to scan row %d", len(result.Rows)+1)
		}
		row := make([]Value, len(columns))
		for i, v := range values {
			row[i] = valueFromDriver(v, dbTypes[i])
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// execute runs a statement that returns no rows and times it with now.
func execute(ctx context.Context, conn Conn, query string, now func() time.Time) (*Mutation, error) {
	start := now()
	res, err := conn.ExecContext(ctx, query)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read affected rows")
	}
	return &Mutation{RowsAffected: affected, Elapsed: now().Sub(start)}, nil
}
