package archive

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/asmreport/internal/table"
	"github.com/leapstack-labs/asmreport/internal/testutil"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "archive.db"), testutil.NewTestLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleTables() []*table.Table {
	return []*table.Table{
		{
			Name:    "qc",
			Columns: []string{"file", "num_seqs"},
			Rows:    [][]string{{"sample1", "120"}, {"sample2", "80"}},
		},
		{
			Name:    "amr_count",
			Columns: []string{"file", "blaZ", "mecA"},
			Rows:    [][]string{{"sample1", "1", "1"}, {"sample2", "2", "0"}},
		},
		table.New("amr", "#FILE"),
	}
}

func TestStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	generated := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	id, err := s.Save(ctx, Run{
		Title:       "Run 1",
		QCPath:      "qc.tsv",
		MLSTPath:    "mlst.tsv",
		AMRPath:     "amr.csv",
		GeneratedAt: generated,
	}, sampleTables()...)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	run, err := s.GetRun(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Run 1", run.Title)
	assert.Equal(t, "amr.csv", run.AMRPath)
	assert.True(t, generated.Equal(run.GeneratedAt))

	tables, err := s.Tables(ctx, id)
	require.NoError(t, err)
	require.Len(t, tables, 3)
	assert.Equal(t, sampleTables()[0], tables[0])
	assert.Equal(t, sampleTables()[1], tables[1])
	assert.Equal(t, "amr", tables[2].Name)
	assert.Equal(t, []string{"#FILE"}, tables[2].Columns)
	assert.Empty(t, tables[2].Rows)
}

func TestStore_Runs(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	assert.Empty(t, runs)

	older := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err = s.Save(ctx, Run{ID: "old", Title: "a", GeneratedAt: older})
	require.NoError(t, err)
	_, err = s.Save(ctx, Run{ID: "new", Title: "b", GeneratedAt: older.Add(time.Hour)})
	require.NoError(t, err)

	runs, err = s.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "new", runs[0].ID)
	assert.Equal(t, "old", runs[1].ID)
}

func TestStore_DuplicateIDRollsBack(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.Save(ctx, Run{ID: "r1"}, sampleTables()[0])
	require.NoError(t, err)
	_, err = s.Save(ctx, Run{ID: "r1"}, sampleTables()[1])
	require.Error(t, err)

	tables, err := s.Tables(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "qc", tables[0].Name)
}

func TestStore_GetRunNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetRun(context.Background(), "missing")
	require.ErrorIs(t, err, ErrRunNotFound)

	_, err = s.Tables(context.Background(), "missing")
	require.ErrorIs(t, err, ErrRunNotFound)
}

func TestOpen_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "archive.db")

	s, err := Open(ctx, path, nil)
	require.NoError(t, err)
	_, err = s.Save(ctx, Run{ID: "keep"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(ctx, path, nil)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	run, err := s.GetRun(ctx, "keep")
	require.NoError(t, err)
	assert.Equal(t, "keep", run.ID)
}

func TestOpen_BadPath(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "missing", "archive.db"), nil)
	require.Error(t, err)
}

func TestStore_SaveFailures(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		errMsg    string
	}{
		{
			name: "begin fails",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(assert.AnError)
			},
			errMsg: "failed to begin archive transaction",
		},
		{
			name: "run insert fails",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("INSERT INTO runs").WillReturnError(assert.AnError)
				mock.ExpectRollback()
			},
			errMsg: "failed to insert run",
		},
		{
			name: "cell insert fails",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("INSERT INTO runs").WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectPrepare("INSERT INTO run_columns")
				mock.ExpectPrepare("INSERT INTO cells")
				mock.ExpectExec("INSERT INTO run_columns").WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectExec("INSERT INTO cells").WillReturnError(assert.AnError)
				mock.ExpectRollback()
			},
			errMsg: "failed to insert t row 0",
		},
		{
			name: "commit fails",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("INSERT INTO runs").WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectPrepare("INSERT INTO run_columns")
				mock.ExpectPrepare("INSERT INTO cells")
				mock.ExpectExec("INSERT INTO run_columns").WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectExec("INSERT INTO cells").WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectCommit().WillReturnError(assert.AnError)
			},
			errMsg: "failed to commit archive transaction",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer func() { _ = db.Close() }()
			tt.setupMock(mock)

			s := New(db, nil)
			tbl := &table.Table{Name: "t", Columns: []string{"c"}, Rows: [][]string{{"v"}}}
			_, err = s.Save(context.Background(), Run{ID: "r"}, tbl)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
			assert.ErrorIs(t, err, assert.AnError)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
