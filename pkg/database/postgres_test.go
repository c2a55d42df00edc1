package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sample struct {
	ID   int64
	Name string
}

func TestInitDB_SQLite(t *testing.T) {
	db, err := InitDB(Options{Driver: DriverSQLite, DSN: ":memory:"}, zap.NewNop(), &sample{})
	require.NoError(t, err)

	require.NoError(t, db.Create(&sample{Name: "a"}).Error)

	var count int64
	db.Model(&sample{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestInitDB_UnknownDriver(t *testing.T) {
	_, err := InitDB(Options{Driver: "mongo"}, zap.NewNop())
	assert.Error(t, err)
}
