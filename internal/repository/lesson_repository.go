package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

func (r *LessonRepository) Create(lesson *model.Lesson) error {
	return r.DB.Create(lesson).Error
}

func (r *LessonRepository) FindByID(id string) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.First(&lesson, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

// FindWithDocuments 返回课时及按position排序的附件
func (r *LessonRepository) FindWithDocuments(id string) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.
		Preload("Documents", func(db *gorm.DB) *gorm.DB {
			return db.Order("lesson_documents.position ASC")
		}).
		First(&lesson, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

// CourseIDOf 课时所属课程（经由章节）
func (r *LessonRepository) CourseIDOf(lessonID string) (string, error) {
	var courseID string
	err := r.DB.Model(&model.Lesson{}).
		Select("chapters.course_id").
		Joins("JOIN chapters ON chapters.id = lessons.chapter_id").
		Where("lessons.id = ?", lessonID).
		Scan(&courseID).Error
	if err != nil {
		return "", err
	}
	if courseID == "" {
		return "", gorm.ErrRecordNotFound
	}
	return courseID, nil
}

func (r *LessonRepository) NextPosition(chapterID string) (int, error) {
	var max int
	err := r.DB.Model(&model.Lesson{}).
		Where("chapter_id = ?", chapterID).
		Select("COALESCE(MAX(position), 0)").
		Scan(&max).Error
	return max + 1, err
}

// UpdateWithDocuments 更新课时并整体替换附件集合，单事务保证全有或全无：
// 新附件写入失败时课时更新与旧附件删除一并回滚
func (r *LessonRepository) UpdateWithDocuments(lessonID string, updates map[string]interface{}, documents []model.LessonDocument) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Lesson{}).
			Where("id = ?", lessonID).
			Updates(updates).Error; err != nil {
			return err
		}

		if err := tx.Where("lesson_id = ?", lessonID).
			Delete(&model.LessonDocument{}).Error; err != nil {
			return err
		}

		for i := range documents {
			documents[i].LessonID = lessonID
			documents[i].Position = i
			if err := tx.Create(&documents[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *LessonRepository) Reorder(chapterID string, orderedIDs []string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		for i, id := range orderedIDs {
			if err := tx.Model(&model.Lesson{}).
				Where("id = ? AND chapter_id = ?", id, chapterID).
				Update("position", i+1).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *LessonRepository) DeleteCascade(lessonID string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lesson_id = ?", lessonID).
			Delete(&model.LessonDocument{}).Error; err != nil {
			return err
		}
		if err := tx.Where("lesson_id = ?", lessonID).
			Delete(&model.LessonProgress{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Lesson{}, "id = ?", lessonID).Error
	})
}
