package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

// CreateIfAbsent 依赖 (user_id, course_id) 唯一索引做并发兜底：
// 冲突时不写入，返回已存在的记录，created=false
func (r *EnrollmentRepository) CreateIfAbsent(enrollment *model.Enrollment) (created bool, err error) {
	result := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoNothing: true,
	}).Create(enrollment)
	if result.Error != nil {
		return false, result.Error
	}

	if result.RowsAffected == 0 {
		existing, err := r.FindByUserCourse(enrollment.UserID, enrollment.CourseID)
		if err != nil {
			return false, err
		}
		*enrollment = *existing
		return false, nil
	}
	return true, nil
}

func (r *EnrollmentRepository) FindByUserCourse(userID uint, courseID string) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *EnrollmentRepository) FindByID(id uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.DB.First(&enrollment, id).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// HasActive 是否存在Active状态的报名记录
func (r *EnrollmentRepository) HasActive(userID uint, courseID string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Enrollment{}).
		Where("user_id = ? AND course_id = ? AND status = ?", userID, courseID, model.EnrollmentActive).
		Count(&count).Error
	return count > 0, err
}

// Reenroll 取消后的记录重新报名，状态与价格快照按当前课程重置
func (r *EnrollmentRepository) Reenroll(id uint, status model.EnrollmentStatus, amount int) error {
	return r.DB.Model(&model.Enrollment{}).Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "amount": amount}).Error
}

func (r *EnrollmentRepository) UpdateStatus(id uint, status model.EnrollmentStatus) error {
	return r.DB.Model(&model.Enrollment{}).Where("id = ?", id).
		Update("status", status).Error
}

// ListByUser 用户的全部报名（带课程），按报名时间倒序
func (r *EnrollmentRepository) ListByUser(userID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.Preload("Course").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&enrollments).Error
	return enrollments, err
}

func (r *EnrollmentRepository) CountByCourse(courseID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Enrollment{}).
		Where("course_id = ? AND status = ?", courseID, model.EnrollmentActive).
		Count(&count).Error
	return count, err
}
