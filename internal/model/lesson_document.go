package model

// LessonDocument 课时附件（PDF等），Position 为课时内的显式排序
// swagger:model LessonDocument
type LessonDocument struct {
	UUIDBase
	LessonID string `gorm:"type:varchar(36);index;not null" json:"lessonId"`
	Name     string `gorm:"size:255;not null" json:"name"`
	FileKey  string `gorm:"size:255;not null" json:"fileKey"`
	Position int    `gorm:"default:0" json:"position"`
}

func (LessonDocument) TableName() string {
	return "lesson_documents"
}
