package model

import "time"

// LessonProgress 课时完成标记，(user_id, lesson_id) 联合唯一，
// 重复标记完成为幂等操作
// swagger:model LessonProgress
type LessonProgress struct {
	BaseModel
	UserID      uint       `gorm:"uniqueIndex:idx_user_lesson;not null" json:"userId"`
	LessonID    string     `gorm:"type:varchar(36);uniqueIndex:idx_user_lesson;not null" json:"lessonId"`
	Completed   bool       `gorm:"default:false" json:"completed"`
	CompletedAt *time.Time `json:"completedAt"`
}

func (LessonProgress) TableName() string {
	return "lesson_progress"
}

// CourseProgress 按需聚合出的课程进度，不做反范式化计数
type CourseProgress struct {
	CourseID           string `json:"courseId"`
	TotalLessons       int64  `json:"totalLessons"`
	CompletedLessons   int64  `json:"completedLessons"`
	ProgressPercentage int    `json:"progressPercentage"`
}
