package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/users-conformance/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/users-conformance/internal/conformance"
)

func TestAllCommand_Postgres(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	testhelper.ResetUsers(t, pool)
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("DATABASE_URL", testhelper.DSN(t))

	out, err := execute(t, "all", "--format", "json", "--no-color")
	require.NoError(t, err)

	var res conformance.Results
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.True(t, res.OK())
	assert.Equal(t, res.Total(), res.Passed)
}

func TestSchemaCommand_DriftedTableFails(t *testing.T) {
	testhelper.SetupTestDB(t)
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("DATABASE_URL", testhelper.DSN(t))

	out, err := execute(t, "schema", "--table", "drifted_users", "--no-color")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "FAILED: schema/presence/city")
}

func TestSchemaCommand_UnknownTableAborts(t *testing.T) {
	testhelper.SetupTestDB(t)
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("DATABASE_URL", testhelper.DSN(t))

	out, err := execute(t, "schema", "--table", "no_such_table", "--no-color")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "RUN ABORTED")
}

func TestResetCommand_Postgres(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	testhelper.ResetUsers(t, pool)
	testhelper.SeedUser(t, pool)
	testhelper.SeedUser(t, pool)
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("DATABASE_URL", testhelper.DSN(t))

	out, err := execute(t, "reset", "--restart-identity")
	require.NoError(t, err)
	assert.Equal(t, "removed 2 rows\n", out)
	assert.Equal(t, 0, testhelper.CountUsers(t, pool))

	id := testhelper.SeedUser(t, pool)
	assert.Equal(t, int64(1), id)
}
