package main

import (
	"context"
	"log/slog"
	"time"
)

// ToolOutcome is the result of a tool call. Tools always produce text: a
// failure is reported as an "Error: ..." line with Failed set, never as a
// protocol error.
type ToolOutcome struct {
	Text   string
	Failed bool
}

// QueryKind tells the dispatcher whether a statement returns rows.
type QueryKind int

const (
	QueryRead QueryKind = iota
	QueryWrite
)

// ToolDispatcher serves tools/call for read_query and write_query.
type ToolDispatcher struct {
	conns   *ConnectionManager
	catalog *Catalog
	logger  *slog.Logger
	now     func() time.Time
}

func NewToolDispatcher(conns *ConnectionManager, catalog *Catalog, logger *slog.Logger) *ToolDispatcher {
	if logger == nil {
		logger = discardLogger()
	}
	return &ToolDispatcher{
		conns:   conns,
		catalog: catalog,
		logger:  logger.With("component", "tools"),
		now:     time.Now,
	}
}

func toolKind(name string) (QueryKind, bool) {
	switch name {
	case ToolReadQuery:
		return QueryRead, true
	case ToolWriteQuery:
		return QueryWrite, true
	}
	return 0, false
}

// Call runs the named tool. The returned error is reserved for requests that
// never reach the backend: an unknown tool or arguments that fail the tool's
// input schema. Everything after that ends up in the outcome text.
func (d *ToolDispatcher) Call(ctx context.Context, name string, args map[string]any) (ToolOutcome, error) {
	kind, ok := toolKind(name)
	if !ok {
		return ToolOutcome{}, newUnknownToolError(name)
	}
	if err := d.catalog.ValidateArguments(name, args); err != nil {
		return ToolOutcome{}, err
	}
	query := args["query"].(string)

	logger := d.logger.With("tool", name, "statement", statementKeyword(query))
	logger.Debug("executing query")

	var text string
	err := d.conns.Do(ctx, func(conn Conn) error {
		switch kind {
		case QueryWrite:
			m, err := execute(ctx, conn, query, d.now)
			if err != nil {
				return err
			}
			text = FormatMutation(m.RowsAffected, m.Elapsed)
		default:
			rs, err := fetchAll(ctx, conn, query)
			if err != nil {
				return err
			}
			text = FormatTabular(rs.Columns, rs.Rows)
		}
		return nil
	})
	if err != nil {
		logger.Warn("query failed", "error", err)
		return ToolOutcome{Text: "Error: " + err.Error(), Failed: true}, nil
	}
	return ToolOutcome{Text: text}, nil
}
