package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) FindByID(id string) (*model.Course, error) {
	var course model.Course
	err := r.DB.First(&course, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// FindBySlug 返回课程及按position排序的章节课时大纲
func (r *CourseRepository) FindBySlug(slug string) (*model.Course, error) {
	var course model.Course
	err := r.DB.
		Preload("Chapters", func(db *gorm.DB) *gorm.DB {
			return db.Order("chapters.position ASC")
		}).
		Preload("Chapters.Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("lessons.position ASC")
		}).
		Where("slug = ?", slug).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) SlugExists(slug string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Course{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

func (r *CourseRepository) ListPublished() ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.
		Where("status = ?", model.CoursePublished).
		Order("created_at DESC").
		Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) ListRecent(limit int) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Order("created_at DESC").Limit(limit).Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) ListAll(page, limit int) ([]model.Course, int64, error) {
	var courses []model.Course
	var total int64

	if err := r.DB.Model(&model.Course{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.DB.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&courses).Error
	return courses, total, err
}

func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Save(course).Error
}

// DeleteCascade 删除课程及其全部章节/课时/附件，单事务保证不留孤儿行
func (r *CourseRepository) DeleteCascade(courseID string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var chapterIDs []string
		if err := tx.Model(&model.Chapter{}).
			Where("course_id = ?", courseID).
			Pluck("id", &chapterIDs).Error; err != nil {
			return err
		}

		if len(chapterIDs) > 0 {
			var lessonIDs []string
			if err := tx.Model(&model.Lesson{}).
				Where("chapter_id IN ?", chapterIDs).
				Pluck("id", &lessonIDs).Error; err != nil {
				return err
			}

			if len(lessonIDs) > 0 {
				if err := tx.Where("lesson_id IN ?", lessonIDs).
					Delete(&model.LessonDocument{}).Error; err != nil {
					return err
				}
				if err := tx.Where("lesson_id IN ?", lessonIDs).
					Delete(&model.LessonProgress{}).Error; err != nil {
					return err
				}
				if err := tx.Where("chapter_id IN ?", chapterIDs).
					Delete(&model.Lesson{}).Error; err != nil {
					return err
				}
			}

			if err := tx.Where("course_id = ?", courseID).
				Delete(&model.Chapter{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("course_id = ?", courseID).
			Delete(&model.Enrollment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&model.Course{}, "id = ?", courseID).Error
	})
}
