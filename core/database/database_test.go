package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect(t *testing.T) {
	t.Run("Invalid MySQL Connection", func(t *testing.T) {
		cfg := Config{
			Driver:         DriverMySQL,
			Host:           "localhost",
			Port:           9999, // Unused port
			User:           "root",
			Password:       "wrong@password",
			Name:           "journal",
			TimeoutSeconds: 2,
		}

		db, err := Connect(cfg)
		assert.Error(t, err)
		assert.Nil(t, db)
	})

	t.Run("SQLite Memory", func(t *testing.T) {
		db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
		require.NoError(t, err)
		assert.Equal(t, "sqlite", db.Dialector.Name())
	})

	t.Run("SQLite Empty Path", func(t *testing.T) {
		_, err := Connect(Config{Driver: DriverSQLite})
		assert.Error(t, err)
	})

	t.Run("Unknown Driver", func(t *testing.T) {
		_, err := Connect(Config{Driver: "oracle"})
		assert.ErrorContains(t, err, "unsupported")
	})
}
