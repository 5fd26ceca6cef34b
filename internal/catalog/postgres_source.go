package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ravkun27/nftix/pkg/database"
)

// PostgresSource reads raw records from a JSONB column. The table is expected
// to look like:
//
//	CREATE TABLE catalog_events (position INT PRIMARY KEY, record JSONB);
type PostgresSource struct {
	db    database.Querier
	table string
}

// NewPostgresSource creates a PostgresSource over the given table
func NewPostgresSource(db database.Querier, table string) *PostgresSource {
	return &PostgresSource{db: db, table: table}
}

// Name identifies the source in logs
func (s *PostgresSource) Name() string {
	return "postgres:" + s.table
}

// Load returns every record ordered by position. A NULL or non-object record
// becomes an empty record.
func (s *PostgresSource) Load(ctx context.Context) ([]RawRecord, error) {
	query := fmt.Sprintf("SELECT record FROM %s ORDER BY position", pgx.Identifier{s.table}.Sanitize())

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}
	defer rows.Close()

	var records []RawRecord
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan catalog record: %w", err)
		}
		records = append(records, decodeJSONRecord(raw))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog: %w", err)
	}
	return records, nil
}

func decodeJSONRecord(raw []byte) RawRecord {
	if len(raw) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil
	}
	m, _ := v.(map[string]any)
	return m
}
