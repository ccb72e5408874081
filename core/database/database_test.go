package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_SQLite(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NotNil(t, db)

	var one int
	err = db.Raw("SELECT 1").Scan(&one).Error
	assert.NoError(t, err)
	assert.Equal(t, 1, one)
}

func TestConnect_MySQLUnreachable(t *testing.T) {
	// No server on this port; Connect must fail fast instead of hanging.
	_, err := Connect(Config{
		Driver:         "mysql",
		Host:           "127.0.0.1",
		Port:           1,
		User:           "root",
		Name:           "menu",
		TimeoutSeconds: 1,
	})
	assert.Error(t, err)
}
