package cassandra

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/saltyorg/cassframe/internal/table"
)

// Session is a connection bound to one keyspace. Its lifetime ends with the
// Cluster it came from.
type Session struct {
	cluster  *Cluster
	keyspace string
	conn     Conn
	log      zerolog.Logger
	closed   bool
}

// Export describes a file written by QueryToFile.
type Export struct {
	Path    string
	Format  table.Format
	Rows    int
	Columns int
}

// Keyspace returns the keyspace the session is bound to.
func (s *Session) Keyspace() string {
	return s.keyspace
}

// QueryTable runs query and materializes the whole result set. There is no
// row limit and no client side timeout; memory use grows with the result.
func (s *Session) QueryTable(ctx context.Context, query string) (*table.Table, error) {
	if s.closed || s.cluster.shutdown {
		return nil, ErrClusterClosed
	}

	start := time.Now()
	columns, rows, err := s.conn.Select(ctx, query)
	if err != nil {
		return nil, &QueryError{Query: query, Err: err}
	}

	t := table.New(columns...)
	for _, row := range rows {
		if err := t.Append(row...); err != nil {
			return nil, &QueryError{Query: query, Err: err}
		}
	}

	s.log.Debug().
		Int("rows", t.Len()).
		Int("columns", len(columns)).
		Dur("elapsed", time.Since(start)).
		Msg("Query materialized")
	return t, nil
}

// QueryToFile runs query and writes the result to path plus the format's
// extension. For an unsupported format the result is discarded: the request
// is logged and a zero Export is returned without error. Query failures are
// reported whatever the format.
func (s *Session) QueryToFile(ctx context.Context, query, path string, format table.Format) (Export, error) {
	t, err := s.QueryTable(ctx, query)
	if err != nil {
		return Export{}, err
	}

	if !format.Supported() {
		s.log.Info().Str("format", string(format)).Msg("File type is not allowed, nothing written")
		return Export{}, nil
	}

	name, err := table.WriteFile(path, format, t)
	if err != nil {
		return Export{}, err
	}
	s.log.Debug().Str("file", name).Int("rows", t.Len()).Msg("File saved")

	return Export{
		Path:    name,
		Format:  format,
		Rows:    t.Len(),
		Columns: len(t.Columns()),
	}, nil
}

// Close releases the session early. The owning Cluster's Close also
// closes it.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.conn.Close()
}
