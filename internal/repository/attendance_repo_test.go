package repository_test

import (
	"context"
	"testing"

	"go-diamond-ledger/internal/model"
	"go-diamond-ledger/internal/repository"
	"go-diamond-ledger/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttendanceRepo_UpsertEntryReplacesStatus(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewAttendanceRepo(db)
	ctx := context.Background()
	employee := uuid.New()

	sheet := &model.Attendance{EmployeeID: employee}
	require.NoError(t, repo.Create(ctx, sheet))

	require.NoError(t, repo.UpsertEntry(ctx, &model.AttendanceEntry{AttendanceID: sheet.ID, Day: "2024-07-02", Status: model.AttendancePresent}))
	require.NoError(t, repo.UpsertEntry(ctx, &model.AttendanceEntry{AttendanceID: sheet.ID, Day: "2024-07-01", Status: model.AttendanceAbsent}))
	require.NoError(t, repo.UpsertEntry(ctx, &model.AttendanceEntry{AttendanceID: sheet.ID, Day: "2024-07-02", Status: model.AttendanceHalfday}))

	got, err := repo.FindByEmployee(ctx, employee)
	require.NoError(t, err)
	require.Len(t, got.Entries, 2)
	assert.Equal(t, "2024-07-01", got.Entries[0].Day)
	assert.Equal(t, model.AttendanceHalfday, got.Entries[1].Status)

	require.NoError(t, repo.DeleteEntry(ctx, sheet.ID, "2024-07-01"))
	assert.True(t, repository.IsNotFound(repo.DeleteEntry(ctx, sheet.ID, "2024-07-01")))

	require.NoError(t, repo.DeleteByEmployee(ctx, employee))
	_, err = repo.FindByEmployee(ctx, employee)
	assert.True(t, repository.IsNotFound(err))
}
