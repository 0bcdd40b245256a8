package repository

import (
	"context"

	"go-diamond-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AttendanceRepository interface {
	// WithTx binds the repository to an open transaction.
	WithTx(tx *gorm.DB) AttendanceRepository
	FindAll(ctx context.Context) ([]model.Attendance, error)
	FindByEmployee(ctx context.Context, employeeID uuid.UUID) (*model.Attendance, error)
	Create(ctx context.Context, attendance *model.Attendance) error
	UpdateRemarks(ctx context.Context, id uuid.UUID, remarks string) error
	UpsertEntry(ctx context.Context, entry *model.AttendanceEntry) error
	DeleteEntry(ctx context.Context, attendanceID uuid.UUID, day string) error
	DeleteByEmployee(ctx context.Context, employeeID uuid.UUID) error
}

type attendanceRepo struct {
	db *gorm.DB
}

func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db}
}

func (r *attendanceRepo) WithTx(tx *gorm.DB) AttendanceRepository {
	return &attendanceRepo{tx}
}

func entriesByDay(db *gorm.DB) *gorm.DB {
	return db.Order("day ASC")
}

func (r *attendanceRepo) FindAll(ctx context.Context) ([]model.Attendance, error) {
	var sheets []model.Attendance
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("Entries", entriesByDay).
		Order("created_at ASC").
		Find(&sheets).Error
	return sheets, err
}

func (r *attendanceRepo) FindByEmployee(ctx context.Context, employeeID uuid.UUID) (*model.Attendance, error) {
	var sheet model.Attendance
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("Entries", entriesByDay).
		Where("employee_id = ?", employeeID).
		First(&sheet).Error
	if err != nil {
		return nil, err
	}
	return &sheet, nil
}

func (r *attendanceRepo) Create(ctx context.Context, attendance *model.Attendance) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(attendance).Error
}

func (r *attendanceRepo) UpdateRemarks(ctx context.Context, id uuid.UUID, remarks string) error {
	return r.db.WithContext(ctx).Model(&model.Attendance{}).Where("id = ?", id).Update("remarks", remarks).Error
}

// UpsertEntry records the status of one day, replacing any earlier status.
func (r *attendanceRepo) UpsertEntry(ctx context.Context, entry *model.AttendanceEntry) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "attendance_id"}, {Name: "day"}},
		DoUpdates: clause.AssignmentColumns([]string{"status"}),
	}).Create(entry).Error
}

func (r *attendanceRepo) DeleteEntry(ctx context.Context, attendanceID uuid.UUID, day string) error {
	res := r.db.WithContext(ctx).Where("attendance_id = ? AND day = ?", attendanceID, day).Delete(&model.AttendanceEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *attendanceRepo) DeleteByEmployee(ctx context.Context, employeeID uuid.UUID) error {
	db := r.db.WithContext(ctx)
	sub := db.Model(&model.Attendance{}).Select("id").Where("employee_id = ?", employeeID)
	if err := db.Where("attendance_id IN (?)", sub).Delete(&model.AttendanceEntry{}).Error; err != nil {
		return err
	}
	return db.Where("employee_id = ?", employeeID).Delete(&model.Attendance{}).Error
}
