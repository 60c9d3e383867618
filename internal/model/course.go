package model

type CourseStatus string

const (
	CourseDraft     CourseStatus = "Draft"
	CoursePublished CourseStatus = "Published"
	CourseArchived  CourseStatus = "Archived"
)

type CourseLevel string

const (
	LevelBeginner     CourseLevel = "Beginner"
	LevelIntermediate CourseLevel = "Intermediate"
	LevelAdvanced     CourseLevel = "Advanced"
)

// Course 课程，价格为整数（分），0 表示免费课程
// swagger:model Course
type Course struct {
	UUIDBase
	Title            string       `gorm:"size:255;not null" json:"title"`
	Slug             string       `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	SmallDescription string       `gorm:"size:500" json:"smallDescription"`
	Description      string       `gorm:"type:text" json:"description"` // 富文本JSON文档
	FileKey          string       `gorm:"size:255" json:"fileKey"`      // 封面图的对象存储key
	Price            int          `gorm:"default:0" json:"price"`
	Duration         int          `gorm:"default:0" json:"duration"` // 预计课时（小时）
	Level            CourseLevel  `gorm:"size:20;default:'Beginner'" json:"level"`
	Category         string       `gorm:"size:100" json:"category"`
	Status           CourseStatus `gorm:"size:20;default:'Draft';index" json:"status"`
	Chapters         []Chapter    `gorm:"foreignKey:CourseID" json:"chapters,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// IsFree 免费课程无需报名即可访问
func (c *Course) IsFree() bool {
	return c.Price == 0
}
