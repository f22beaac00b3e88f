package postgres

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_USER", "fit")
	t.Setenv("DB_PASSWORD", "p@ss:word")
	t.Setenv("DB_NAME", "fitness")
	t.Setenv("DB_SSLMODE", "")

	u, err := url.Parse(DSN())
	require.NoError(t, err)

	pass, _ := u.User.Password()
	assert.Equal(t, "postgres", u.Scheme)
	assert.Equal(t, "db.internal:6543", u.Host)
	assert.Equal(t, "fit", u.User.Username())
	assert.Equal(t, "p@ss:word", pass)
	assert.Equal(t, "/fitness", u.Path)
	assert.Equal(t, "disable", u.Query().Get("sslmode"))
}
