package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type ChapterRepository struct {
	DB *gorm.DB
}

func NewChapterRepository(db *gorm.DB) *ChapterRepository {
	return &ChapterRepository{DB: db}
}

func (r *ChapterRepository) Create(chapter *model.Chapter) error {
	return r.DB.Create(chapter).Error
}

func (r *ChapterRepository) FindByID(id string) (*model.Chapter, error) {
	var chapter model.Chapter
	err := r.DB.First(&chapter, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &chapter, nil
}

func (r *ChapterRepository) Update(chapter *model.Chapter) error {
	return r.DB.Save(chapter).Error
}

func (r *ChapterRepository) NextPosition(courseID string) (int, error) {
	var max int
	err := r.DB.Model(&model.Chapter{}).
		Where("course_id = ?", courseID).
		Select("COALESCE(MAX(position), 0)").
		Scan(&max).Error
	return max + 1, err
}

// Reorder 批量更新章节顺序，单事务执行
func (r *ChapterRepository) Reorder(courseID string, orderedIDs []string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		for i, id := range orderedIDs {
			if err := tx.Model(&model.Chapter{}).
				Where("id = ? AND course_id = ?", id, courseID).
				Update("position", i+1).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteCascade 删除章节及其课时/附件/进度记录
func (r *ChapterRepository) DeleteCascade(chapterID string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var lessonIDs []string
		if err := tx.Model(&model.Lesson{}).
			Where("chapter_id = ?", chapterID).
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
			if err := tx.Where("chapter_id = ?", chapterID).
				Delete(&model.Lesson{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&model.Chapter{}, "id = ?", chapterID).Error
	})
}
