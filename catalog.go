package main

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Tool names.
const (
	ToolReadQuery  = "read_query"
	ToolWriteQuery = "write_query"
)

const textMimeType = "text/plain"

const procDescription = `
Internal information exposed by StarRocks similar to linux /proc, following are some common paths:

'/frontends'	Shows the information of FE nodes.
'/backends'	Shows the information of BE nodes if this SR is non cloud native deployment.
'/compute_nodes'	Shows the information of CN nodes if this SR is cloud native deployment.
'/dbs'	Shows the information of databases.
'/dbs/<DB_ID>'	Shows the information of a database by database ID.
'/dbs/<DB_ID>/<TABLE_ID>'	Shows the information of tables by database ID.
'/dbs/<DB_ID>/<TABLE_ID>/partitions'	Shows the information of partitions by database ID and table ID.
'/transactions'	Shows the information of transactions by database.
'/transactions/<DB_ID>' Show the information of transactions by database ID.
'/transactions/<DB_ID>/running' Show the information of running transactions by database ID.
'/transactions/<DB_ID>/finished' Show the information of finished transactions by database ID.
'/jobs'	Shows the information of jobs.
'/statistic'	Shows the statistics of each database.
'/tasks'	Shows the total number of all generic tasks and the failed tasks.
'/cluster_balance'	Shows the load balance information.
'/routine_loads'	Shows the information of Routine Load.
'/colocation_group'	Shows the information of Colocate Join groups.
'/catalog'	Shows the information of catalogs.
`

// Catalog is the static list of capabilities advertised to clients, plus
// the compiled input schema of every tool.
type Catalog struct {
	Resources         []Resource
	ResourceTemplates []ResourceTemplate
	Tools             []Tool

	schemas map[string]*jsonschema.Schema
}

func queryToolSchema(description string) InputSchema {
	return InputSchema{
		Type: "object",
		Properties: map[string]Property{
			"query": {Type: "string", Description: description},
		},
		Required: []string{"query"},
	}
}

// NewCatalog builds the catalog and compiles the tool schemas.
func NewCatalog() (*Catalog, error) {
	c := &Catalog{
		Resources: []Resource{
			{
				URI:         SchemeStarRocks + ":///databases",
				Name:        "All Databases",
				Description: "List all databases in StarRocks",
				MimeType:    textMimeType,
			},
		},
		ResourceTemplates: []ResourceTemplate{
			{
				URITemplate: SchemeStarRocks + ":///{db}/{table}/schema",
				Name:        "Table Schema",
				Description: "Get the schema of a table using SHOW CREATE TABLE",
				MimeType:    textMimeType,
			},
			{
				URITemplate: SchemeStarRocks + ":///{db}/tables",
				Name:        "Database Tables",
				Description: "List all tables in a specific database",
				MimeType:    textMimeType,
			},
			{
				URITemplate: SchemeProc + ":///{+path}",
				Name:        "System internal information",
				Description: procDescription,
				MimeType:    textMimeType,
			},
		},
		Tools: []Tool{
			{
				Name:        ToolReadQuery,
				Description: "Execute a SELECT query or commands that return a ResultSet",
				InputSchema: queryToolSchema("SQL query to execute"),
			},
			{
				Name:        ToolWriteQuery,
				Description: "Execute an DDL/DML or other StarRocks command that do not have a ResultSet",
				InputSchema: queryToolSchema("SQL to execute"),
			},
		},
		schemas: make(map[string]*jsonschema.Schema),
	}

	compiler := jsonschema.NewCompiler()
	for _, tool := range c.Tools {
		raw, err := json.Marshal(tool.InputSchema)
		if err != nil {
			return nil, errors.Wrapf(err, "marshaling schema for %s", tool.Name)
		}
		url := tool.Name + ".json"
		if err := compiler.AddResource(url, bytes.NewReader(raw)); err != nil {
			return nil, errors.Wrapf(err, "adding schema for %s", tool.Name)
		}
		schema, err := compiler.Compile(url)
		if err != nil {
			return nil, errors.Wrapf(err, "compiling schema for %s", tool.Name)
		}
		c.schemas[tool.Name] = schema
	}
	return c, nil
}

// ValidateArguments checks tool arguments against the tool's input schema.
func (c *Catalog) ValidateArguments(tool string, args map[string]any) error {
	schema, ok := c.schemas[tool]
	if !ok {
		return newUnknownToolError(tool)
	}
	var instance any
	if args != nil {
		instance = args
	}
	if err := schema.Validate(instance); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return newInvalidArgumentsError(tool, leafMessage(ve))
		}
		return newInvalidArgumentsError(tool, err.Error())
	}
	return nil
}

// leafMessage returns the most specific cause of a validation failure.
func leafMessage(ve *jsonschema.ValidationError) string {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	if loc := strings.TrimPrefix(ve.InstanceLocation, "/"); loc != "" {
		return loc + ": " + ve.Message
	}
	return ve.Message
}
