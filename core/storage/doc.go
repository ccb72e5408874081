// Package storage provides the object storage client used to archive raw
// POS menu snapshots before each sync. The archive is an audit trail:
// writes are best effort and never gate or fail a sync.
//
// The Client interface wraps the Minio SDK so features depend on a narrow
// surface that can be mocked in tests (see the mocks subpackage).
package storage
