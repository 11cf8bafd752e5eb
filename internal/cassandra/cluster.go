// Package cassandra opens cluster handles and keyspace sessions and turns
// query results into in-memory tables or files.
//
// A Cluster and its Sessions are meant for use from a single goroutine;
// they carry no locks. Driver errors are wrapped in ConnectionError,
// KeyspaceError or QueryError and stay reachable through errors.Is and
// errors.As. Nothing is retried.
package cassandra

import (
	"github.com/gocql/gocql"
	"github.com/rs/zerolog"

	"github.com/saltyorg/cassframe/internal/config"
	"github.com/saltyorg/cassframe/internal/secret"
)

// Cluster is a handle on a cluster's node topology. Sessions bound to a
// keyspace are derived from it with Session and released by Close.
type Cluster struct {
	address  string
	port     int
	username string
	password string
	tuning   config.ClusterTuning

	connect Connector
	log     zerolog.Logger

	control  Conn
	sessions []*Session
	shutdown bool
}

// Option configures a Cluster.
type Option func(*Cluster)

// WithLogger sets the logger used by the cluster and its sessions.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Cluster) {
		c.log = log
	}
}

// WithConnector replaces the gocql backed Dial.
func WithConnector(connect Connector) Option {
	return func(c *Cluster) {
		c.connect = connect
	}
}

// Open decodes encodedPassword and connects to the cluster at
// address:port. The returned handle must be released with Close.
func Open(address string, port int, username, encodedPassword string, opts ...Option) (*Cluster, error) {
	c := &Cluster{
		address:  address,
		port:     port,
		username: username,
		tuning:   config.DefaultClusterTuning(),
		connect:  Dial,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With().Str("component", "cassandra").Str("address", address).Int("port", port).Logger()

	password, err := secret.Decode(encodedPassword)
	if err != nil {
		return nil, &ConnectionError{Address: address, Port: port, Err: err}
	}
	c.password = password

	control, err := c.dial("")
	if err != nil {
		return nil, &ConnectionError{Address: address, Port: port, Err: err}
	}
	c.control = control

	c.log.Debug().
		Str("user", username).
		Str("local_dc", c.tuning.LocalDC).
		Int("protocol_version", c.tuning.ProtocolVersion).
		Msg("Cassandra cluster handle opened")
	return c, nil
}

// WithCluster opens a cluster handle, runs fn with it and closes the
// handle whether or not fn fails.
func WithCluster(address string, port int, username, encodedPassword string, fn func(*Cluster) error, opts ...Option) error {
	c, err := Open(address, port, username, encodedPassword, opts...)
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(c)
}

// Session binds a new session to keyspace. It fails with a KeyspaceError
// when the keyspace does not exist.
func (c *Cluster) Session(keyspace string) (*Session, error) {
	if c.shutdown {
		return nil, ErrClusterClosed
	}

	exists, err := c.control.KeyspaceExists(keyspace)
	if err != nil {
		return nil, &KeyspaceError{Keyspace: keyspace, Err: err}
	}
	if !exists {
		return nil, &KeyspaceError{Keyspace: keyspace, Err: gocql.ErrKeyspaceDoesNotExist}
	}

	conn, err := c.dial(keyspace)
	if err != nil {
		return nil, &ConnectionError{Address: c.address, Port: c.port, Err: err}
	}

	s := &Session{
		cluster:  c,
		keyspace: keyspace,
		conn:     conn,
		log:      c.log.With().Str("keyspace", keyspace).Logger(),
	}
	c.sessions = append(c.sessions, s)
	c.log.Info().Str("keyspace", keyspace).Msg("Cassandra connection is established")
	return s, nil
}

// IsShutdown reports whether Close has been called.
func (c *Cluster) IsShutdown() bool {
	return c.shutdown
}

// Close shuts down every session derived from the handle and the handle
// itself. Calling Close more than once is safe.
func (c *Cluster) Close() {
	if c.shutdown {
		return
	}
	c.shutdown = true

	for _, s := range c.sessions {
		s.Close()
	}
	c.sessions = nil
	if c.control != nil {
		c.control.Close()
	}
	c.log.Info().Msg("Cassandra cluster is shutdown")
}

// String omits the password.
func (c *Cluster) String() string {
	return "Cluster(" + c.address + ", " + c.username + ")"
}
