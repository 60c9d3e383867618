package repository

import (
	"time"

	"lms_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// MarkCompleted 幂等写入完成标记，唯一索引冲突时仅刷新completed字段
func (r *ProgressRepository) MarkCompleted(userID uint, lessonID string) error {
	now := time.Now()
	progress := &model.LessonProgress{
		UserID:      userID,
		LessonID:    lessonID,
		Completed:   true,
		CompletedAt: &now,
	}
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"completed": true, "completed_at": now}),
	}).Create(progress).Error
}

func (r *ProgressRepository) Find(userID uint, lessonID string) (*model.LessonProgress, error) {
	var progress model.LessonProgress
	err := r.DB.Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// TotalLessons 课程下全部章节的课时总数
func (r *ProgressRepository) TotalLessons(courseID string) (int64, error) {
	var total int64
	err := r.DB.Model(&model.Lesson{}).
		Joins("JOIN chapters ON chapters.id = lessons.chapter_id").
		Where("chapters.course_id = ?", courseID).
		Count(&total).Error
	return total, err
}

// CountCompleted 用户在课程内completed=true的课时数
func (r *ProgressRepository) CountCompleted(userID uint, courseID string) (int64, error) {
	var completed int64
	err := r.DB.Model(&model.LessonProgress{}).
		Joins("JOIN lessons ON lessons.id = lesson_progress.lesson_id").
		Joins("JOIN chapters ON chapters.id = lessons.chapter_id").
		Where("chapters.course_id = ? AND lesson_progress.user_id = ? AND lesson_progress.completed = ?",
			courseID, userID, true).
		Count(&completed).Error
	return completed, err
}

// MapByUserCourse 用户在课程内的完成状态表 lessonID -> completed
func (r *ProgressRepository) MapByUserCourse(userID uint, courseID string) (map[string]bool, error) {
	var progresses []model.LessonProgress
	err := r.DB.Model(&model.LessonProgress{}).
		Joins("JOIN lessons ON lessons.id = lesson_progress.lesson_id").
		Joins("JOIN chapters ON chapters.id = lessons.chapter_id").
		Where("chapters.course_id = ? AND lesson_progress.user_id = ?", courseID, userID).
		Find(&progresses).Error
	if err != nil {
		return nil, err
	}

	statusMap := make(map[string]bool, len(progresses))
	for _, p := range progresses {
		statusMap[p.LessonID] = p.Completed
	}
	return statusMap, nil
}
