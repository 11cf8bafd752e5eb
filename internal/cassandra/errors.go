package cassandra

import (
	"errors"
	"fmt"
)

// ErrClusterClosed is returned by operations on a cluster handle, or on a
// session derived from it, after Close.
var ErrClusterClosed = errors.New("cassandra cluster is shut down")

// ConnectionError reports that the cluster could not be reached or
// rejected the credentials. Err is the driver error.
type ConnectionError struct {
	Address string
	Port    int
	Err     error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to cassandra at %s:%d: %v", e.Address, e.Port, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// KeyspaceError reports that a session could not be bound to a keyspace.
type KeyspaceError struct {
	Keyspace string
	Err      error
}

func (e *KeyspaceError) Error() string {
	return fmt.Sprintf("failed to use keyspace %q: %v", e.Keyspace, e.Err)
}

func (e *KeyspaceError) Unwrap() error {
	return e.Err
}

// QueryError reports a malformed query or a failure while executing it.
type QueryError struct {
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query failed: %v", e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
