package migration

import (
	"fmt"
	"io/fs"
	"testing"

	"github.com/storefront/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(migrations.FS, ".")
	require.NoError(t, err)

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, e := range entries {
		version, name, direction, ok := parseFileName(e.Name())
		if !ok {
			continue
		}
		key := fmt.Sprintf("%06d_%s", version, name)
		if direction == "up" {
			ups[key] = true
		} else {
			downs[key] = true
		}
	}

	require.NotEmpty(t, ups)
	assert.Equal(t, ups, downs)
}

func TestInitMigrationHasUniqueCustomerEmail(t *testing.T) {
	body, err := fs.ReadFile(migrations.FS, "000001_init.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(body), "CREATE UNIQUE INDEX IF NOT EXISTS idx_customers_email ON customers (email)")
}
