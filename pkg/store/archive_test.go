package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhad/srdx/internal/models"
)

func getTestConfig(t *testing.T) ArchiveConfig {
	connString := os.Getenv("DATABASE_URL")
	if connString == "" {
		t.Skip("DATABASE_URL not set")
	}
	return ArchiveConfig{
		ConnString: connString,
		TableName:  fmt.Sprintf("test_runs_%d", time.Now().UnixNano()),
	}
}

func newTestArchive(t *testing.T) *Archive {
	t.Helper()
	ctx := context.Background()

	a, err := NewWithConfig(ctx, getTestConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() {
		_, err := a.pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", a.table))
		assert.NoError(t, err)
		a.Close()
	})
	return a
}

type storedRun struct {
	pipeline string
	output   string
	failed   bool
}

func storedRuns(t *testing.T, a *Archive) []storedRun {
	t.Helper()

	rows, err := a.pool.Query(context.Background(),
		fmt.Sprintf("SELECT pipeline, output::text, failed FROM %s ORDER BY created_at, pipeline", a.table))
	require.NoError(t, err)
	defer rows.Close()

	var runs []storedRun
	for rows.Next() {
		var r storedRun
		require.NoError(t, rows.Scan(&r.pipeline, &r.output, &r.failed))
		runs = append(runs, r)
	}
	require.NoError(t, rows.Err())
	return runs
}

func TestArchive(t *testing.T) {
	ctx := context.Background()
	a := newTestArchive(t)

	err := a.Record(ctx, models.Run{
		Pipeline: "extract",
		Source:   "srd.docx",
		Model:    "llama3-8b-8192",
		Output:   []byte(`{"UI_Components": ["Dashboard"]}`),
	})
	require.NoError(t, err)

	// Plain text output from the vision pipeline is stored as a JSON string.
	err = a.Record(ctx, models.Run{
		Pipeline: "vision",
		Source:   "dbschema.png",
		Model:    "llama-3.2-11b-vision-preview",
		Output:   []byte("CREATE TABLE users (id SERIAL PRIMARY KEY);"),
	})
	require.NoError(t, err)

	runs := storedRuns(t, a)
	require.Len(t, runs, 2)
	assert.Equal(t, "extract", runs[0].pipeline)
	assert.JSONEq(t, `{"UI_Components": ["Dashboard"]}`, runs[0].output)
	assert.Equal(t, "vision", runs[1].pipeline)
	assert.JSONEq(t, `"CREATE TABLE users (id SERIAL PRIMARY KEY);"`, runs[1].output)
}

func TestArchiveRejectsDuplicateID(t *testing.T) {
	ctx := context.Background()
	a := newTestArchive(t)

	run := models.Run{ID: "6f1c1c1e-6a3b-4a53-9d4e-0d4f2b8b5a10", Pipeline: "extract", Source: "srd.docx", Model: "m", Output: []byte(`{}`)}
	require.NoError(t, a.Record(ctx, run))
	assert.Error(t, a.Record(ctx, run))
}
