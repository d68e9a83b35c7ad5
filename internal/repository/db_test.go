package repository

import (
	"context"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMySQLDSN(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
	}{
		{name: "no options", dsn: "root:password@tcp(127.0.0.1:3306)/jobtracker"},
		{name: "parseTime off", dsn: "app:pw@tcp(db:3306)/jobtracker?parseTime=false&loc=Local"},
		{name: "already set", dsn: "root:password@tcp(127.0.0.1:3306)/jobtracker?parseTime=true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := mysqlDSN(tt.dsn)
			require.NoError(t, err)

			cfg, err := mysql.ParseDSN(out)
			require.NoError(t, err)
			assert.True(t, cfg.ParseTime)
			assert.Equal(t, time.UTC, cfg.Loc)
			assert.Equal(t, "jobtracker", cfg.DBName)
		})
	}
}

func TestMySQLDSN_Malformed(t *testing.T) {
	_, err := mysqlDSN("not a dsn")
	assert.Error(t, err)

	_, err = NewDB(context.Background(), "mysql", "not a dsn")
	assert.ErrorContains(t, err, "parse mysql dsn")
}
