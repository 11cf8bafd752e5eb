package cassandra

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/gocql/gocql"

	"github.com/saltyorg/cassframe/internal/config"
)

// Conn is the part of a driver session the cluster handle relies on.
type Conn interface {
	// KeyspaceExists reports whether the keyspace is in the schema metadata.
	KeyspaceExists(keyspace string) (bool, error)
	// Select runs a statement and returns its column names and every row.
	Select(ctx context.Context, stmt string) (columns []string, rows [][]any, err error)
	Close()
}

// Connector opens a driver connection for a cluster configuration.
type Connector func(cfg *gocql.ClusterConfig) (Conn, error)

// Dial is the default Connector, backed by gocql sessions.
func Dial(cfg *gocql.ClusterConfig) (Conn, error) {
	session, err := cfg.CreateSession()
	if err != nil {
		return nil, err
	}
	return &gocqlConn{session: session}, nil
}

type gocqlConn struct {
	session *gocql.Session
}

func (c *gocqlConn) KeyspaceExists(keyspace string) (bool, error) {
	if _, err := c.session.KeyspaceMetadata(keyspace); err != nil {
		if errors.Is(err, gocql.ErrKeyspaceDoesNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Select disables paging, so the whole result set is fetched in one
// response and held in memory.
func (c *gocqlConn) Select(ctx context.Context, stmt string) ([]string, [][]any, error) {
	iter := c.session.Query(stmt).WithContext(ctx).PageSize(0).Iter()

	rd, err := iter.RowData()
	if err != nil {
		_ = iter.Close()
		return nil, nil, err
	}

	rows := collectRows(rd, iter.Scan)
	if err := iter.Close(); err != nil {
		return nil, nil, err
	}
	return rd.Columns, rows, nil
}

// collectRows calls scan until it reports false. Every row is scanned into
// its own destinations so buffers the driver reuses are never shared
// between rows.
func collectRows(rd gocql.RowData, scan func(dest ...any) bool) [][]any {
	var rows [][]any
	for {
		dest := newScanTargets(rd)
		if !scan(dest...) {
			return rows
		}
		rows = append(rows, rowValues(dest))
	}
}

// newScanTargets returns a **T for every *T in rd.Values. The driver sets
// the inner pointer to nil for NULL cells.
func newScanTargets(rd gocql.RowData) []any {
	dest := make([]any, len(rd.Values))
	for i, v := range rd.Values {
		dest[i] = reflect.New(reflect.TypeOf(v)).Interface()
	}
	return dest
}

// rowValues dereferences scan destinations, keeping NULL cells as nil.
func rowValues(dest []any) []any {
	row := make([]any, len(dest))
	for i, d := range dest {
		p := reflect.ValueOf(d).Elem()
		if p.IsNil() {
			continue
		}
		row[i] = p.Elem().Interface()
	}
	return row
}

func (c *gocqlConn) Close() {
	if !c.session.Closed() {
		c.session.Close()
	}
}

// NewClusterConfig builds the driver configuration for one contact point:
// password authentication, DC-aware round-robin host selection and the
// fixed timeouts and protocol version from tuning.
func NewClusterConfig(address string, port int, username, password string, tuning config.ClusterTuning) *gocql.ClusterConfig {
	cfg := gocql.NewCluster(address)
	cfg.Port = port
	cfg.Authenticator = gocql.PasswordAuthenticator{
		Username: username,
		Password: password,
	}
	cfg.PoolConfig.HostSelectionPolicy = gocql.DCAwareRoundRobinPolicy(tuning.LocalDC)
	cfg.ConnectTimeout = tuning.ControlConnectionTimeout
	cfg.Timeout = tuning.QueryTimeout
	cfg.ProtoVersion = tuning.ProtocolVersion
	return cfg
}

func (c *Cluster) dial(keyspace string) (Conn, error) {
	cfg := NewClusterConfig(c.address, c.port, c.username, c.password, c.tuning)
	cfg.Keyspace = keyspace
	conn, err := c.connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return conn, nil
}
