package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
)

// URI schemes served by the resolver.
const (
	SchemeStarRocks = "starrocks" // databases, tables and table schemas
	SchemeProc      = "proc"      // SHOW PROC diagnostics
)

// ResourceOutput selects how a resource query is rendered.
type ResourceOutput int

const (
	OutputTabular ResourceOutput = iota
	OutputListing
)

// ResourceQuery is the backend statement a resource URI resolves to.
type ResourceQuery struct {
	Query  string
	Output ResourceOutput
}

// ParseResourceURI maps a resource URI onto its introspection query without
// touching the backend.
func ParseResourceURI(raw string) (ResourceQuery, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return ResourceQuery{}, newUnrecognizedResourceError(raw)
	}

	switch u.Scheme {
	case SchemeProc:
		return ResourceQuery{Query: fmt.Sprintf("show proc '%s'", u.Path), Output: OutputTabular}, nil
	case SchemeStarRocks:
	default:
		return ResourceQuery{}, newUnsupportedSchemeError(u.Scheme)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	switch {
	case len(parts) == 3 && parts[2] == "schema":
		return ResourceQuery{Query: fmt.Sprintf("SHOW CREATE TABLE %s.%s", parts[0], parts[1]), Output: OutputListing}, nil
	case len(parts) == 1 && parts[0] == "databases":
		return ResourceQuery{Query: "SHOW DATABASES", Output: OutputListing}, nil
	case len(parts) == 2 && parts[1] == "tables":
		return ResourceQuery{Query: fmt.Sprintf("SHOW TABLES FROM %s", parts[0]), Output: OutputListing}, nil
	}
	return ResourceQuery{}, newUnrecognizedResourceError(raw)
}

// ResourceResolver serves resources/read.
type ResourceResolver struct {
	conns  *ConnectionManager
	logger *slog.Logger
}

func NewResourceResolver(conns *ConnectionManager, logger *slog.Logger) *ResourceResolver {
	if logger == nil {
		logger = discardLogger()
	}
	return &ResourceResolver{conns: conns, logger: logger.With("component", "resources")}
}

// Read resolves uri and returns its formatted contents. Addressing errors
// leave the connection alone; any failure while talking to the backend
// invalidates it and is returned as a resource retrieval error.
func (r *ResourceResolver) Read(ctx context.Context, uri string) (string, error) {
	rq, err := ParseResourceURI(uri)
	if err != nil {
		return "", err
	}
	r.logger.Debug("reading resource", "uri", uri, "query", rq.Query)

	var text string
	err = r.conns.Do(ctx, func(conn Conn) error {
		rs, err := fetchAll(ctx, conn, rq.Query)
		if err != nil {
			return err
		}
		if rq.Output == OutputListing {
			text = FormatSingleColumn(rs.LastColumn())
		} else {
			text = FormatTabular(rs.Columns, rs.Rows)
		}
		return nil
	})
	if err != nil {
		r.logger.Error("resource read failed", "uri", uri, "error", err)
		return "", wrapResourceError(err)
	}
	return text, nil
}
