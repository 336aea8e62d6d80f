package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationVersions(t *testing.T) {
	versions, err := migrationVersions()
	require.NoError(t, err)
	require.NotEmpty(t, versions)
	assert.Equal(t, "001_init.sql", versions[0])
	assert.IsIncreasing(t, versions)
}

func TestInitMigration_TablasDelMotor(t *testing.T) {
	body, err := migrationFiles.ReadFile("migrations/001_init.sql")
	require.NoError(t, err)
	for _, table := range []string{"medicines", "suppliers", "sales", "stock_ins", "audit_logs"} {
		assert.Contains(t, string(body), "CREATE TABLE IF NOT EXISTS "+table+" (")
	}
	assert.Contains(t, string(body), "CHECK (quantity >= 0)")
}
