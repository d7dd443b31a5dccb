// Package blob defines the byte-blob transport that collections are synced
// through. A path is a flat key; drivers impose whatever layout they need.
package blob

import (
	"context"
	"errors"
)

// Driver identifies a concrete transport implementation.
type Driver string

const (
	DriverFilesystem Driver = "fs"
	DriverMemory     Driver = "memory"
	DriverS3         Driver = "s3"
	DriverPostgres   Driver = "postgres"
	DriverSQLite     Driver = "sqlite"
	DriverBolt       Driver = "bolt"
)

// ErrNotFound is returned by Download when nothing is stored at path.
var ErrNotFound = errors.New("blob not found")

//go:generate mockgen -source=transport.go -destination=transport_mock.go -package=blob
type Transport interface {
	// Download returns the stored bytes, or ErrNotFound if the path is absent.
	Download(ctx context.Context, path string) ([]byte, error)
	// Upload replaces whatever is stored at path.
	Upload(ctx context.Context, path string, data []byte) error
}

// Valid reports whether d names a known driver.
func (d Driver) Valid() bool {
	switch d {
	case DriverFilesystem, DriverMemory, DriverS3, DriverPostgres, DriverSQLite, DriverBolt:
		return true
	}

	return false
}
