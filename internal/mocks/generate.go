// Package mocks provides gomock doubles for the driver seams of cassframe.
//
// To regenerate after an interface change, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	conn := mocks.NewMockConn(ctrl)
//	conn.EXPECT().KeyspaceExists("profiles").Return(true, nil)
package mocks

// Generate MockConn from the cassandra package's Conn interface:
// KeyspaceExists, Select, Close
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=conn_mock.go github.com/saltyorg/cassframe/internal/cassandra Conn
