package source

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mholzen/treegrid/pkg/hierarchy"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// DefaultNeo4jQuery returns one row per asset: id, path (list of ids) and name.
const DefaultNeo4jQuery = "MATCH (a:Asset) " +
	"RETURN a.id AS id, a.path AS path, a.name AS name " +
	"ORDER BY a.order, a.id"

type Neo4jConfig struct {
	URI      string
	Username string
	Password string
	Database string
	// Query must return id, path and name columns in that order.
	Query string
}

// Neo4jSource reads records from a Neo4j database.
type Neo4jSource struct {
	driver   neo4j.DriverWithContext
	database string
	query    string
}

func NewNeo4jSource(cfg Neo4jConfig) (*Neo4jSource, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("cannot create neo4j driver: %w", err)
	}
	query := cfg.Query
	if query == "" {
		query = DefaultNeo4jQuery
	}
	return &Neo4jSource{driver: driver, database: cfg.Database, query: query}, nil
}

func (s *Neo4jSource) Records(ctx context.Context) ([]hierarchy.Record, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead, DatabaseName: s.database})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, s.query, nil)
		if err != nil {
			return nil, err
		}

		var records []hierarchy.Record
		for res.Next(ctx) {
			record, err := recordFromValues(res.Record().Values)
			if err != nil {
				return nil, err
			}
			records = append(records, record)
		}
		if err := res.Err(); err != nil {
			return nil, err
		}
		return records, nil
	})
	if err != nil {
		return nil, fmt.Errorf("cannot query neo4j: %w", err)
	}

	records, _ := result.([]hierarchy.Record)
	slog.Debug("neo4j records loaded", "records", len(records))
	return records, nil
}

func (s *Neo4jSource) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

func recordFromValues(values []any) (hierarchy.Record, error) {
	if len(values) < 3 {
		return hierarchy.Record{}, fmt.Errorf("expected 3 columns (id, path, name), got %d", len(values))
	}

	id, ok := values[0].(string)
	if !ok {
		return hierarchy.Record{}, fmt.Errorf("id column is %T, not a string", values[0])
	}

	var path []string
	switch v := values[1].(type) {
	case nil:
	case []string:
		path = v
	case []any:
		path = make([]string, 0, len(v))
		for _, element := range v {
			s, ok := element.(string)
			if !ok {
				return hierarchy.Record{}, fmt.Errorf("path of '%s' holds %T, not a string", id, element)
			}
			path = append(path, s)
		}
	default:
		return hierarchy.Record{}, fmt.Errorf("path column of '%s' is %T, not a list", id, values[1])
	}

	name, _ := values[2].(string)
	return hierarchy.Record{ID: id, Path: path, Name: name}, nil
}
