package model

// Lesson 课时，视频与缩略图只保存对象存储key，真实地址按需生成
// swagger:model Lesson
type Lesson struct {
	UUIDBase
	ChapterID    string           `gorm:"type:varchar(36);index;not null" json:"chapterId"`
	Title        string           `gorm:"size:255;not null" json:"title"`
	Description  string           `gorm:"type:text" json:"description"` // 富文本JSON文档
	VideoKey     string           `gorm:"size:255" json:"videoKey"`
	ThumbnailKey string           `gorm:"size:255" json:"thumbnailKey"`
	Duration     float64          `gorm:"default:0" json:"duration"` // 视频时长（秒）
	Position     int              `gorm:"default:0" json:"position"`
	Documents    []LessonDocument `gorm:"foreignKey:LessonID" json:"documents,omitempty"`
}

func (Lesson) TableName() string {
	return "lessons"
}
