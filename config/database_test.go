package config

import (
	"net/url"
	"testing"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dsnConfig(pass string) AppConfig {
	return AppConfig{
		DBUser: "anci_app",
		DBPass: pass,
		DBHost: "db.interno",
		DBPort: 1433,
		DBName: "AgenteDigitalDB",
	}
}

func TestSQLServerDSN_EscapesCredentials(t *testing.T) {
	for _, pass := range []string{"simple", "p@ss:w/rd?#", "100%ñ"} {
		t.Run(pass, func(t *testing.T) {
			u, err := url.Parse(sqlserverDSN(dsnConfig(pass)))
			require.NoError(t, err)

			got, ok := u.User.Password()
			require.True(t, ok)
			assert.Equal(t, pass, got)
			assert.Equal(t, "anci_app", u.User.Username())
			assert.Equal(t, "db.interno:1433", u.Host)
			assert.Equal(t, "AgenteDigitalDB", u.Query().Get("database"))
		})
	}
}

func TestMySQLDSN_EscapesCredentials(t *testing.T) {
	cfg := dsnConfig("p@ss:w/rd")
	cfg.DBPort = 3306

	parsed, err := mysqldriver.ParseDSN(mysqlDSN(cfg))
	require.NoError(t, err)
	assert.Equal(t, "p@ss:w/rd", parsed.Passwd)
	assert.Equal(t, "db.interno:3306", parsed.Addr)
	assert.Equal(t, "AgenteDigitalDB", parsed.DBName)
	assert.True(t, parsed.ParseTime)
}
