package model

// Chapter 章节，Position 决定课程内的展示顺序
// swagger:model Chapter
type Chapter struct {
	UUIDBase
	CourseID string   `gorm:"type:varchar(36);index;not null" json:"courseId"`
	Title    string   `gorm:"size:255;not null" json:"title"`
	Position int      `gorm:"default:0" json:"position"`
	Lessons  []Lesson `gorm:"foreignKey:ChapterID" json:"lessons,omitempty"`
}

func (Chapter) TableName() string {
	return "chapters"
}
