package model

type EnrollmentStatus string

const (
	EnrollmentPending   EnrollmentStatus = "Pending"
	EnrollmentActive    EnrollmentStatus = "Active"
	EnrollmentCancelled EnrollmentStatus = "Cancelled"
)

// Enrollment 报名记录，(user_id, course_id) 联合唯一，
// 并发重复报名由数据库唯一索引兜底
// swagger:model Enrollment
type Enrollment struct {
	BaseModel
	UserID   uint             `gorm:"uniqueIndex:idx_user_course;not null" json:"userId"`
	CourseID string           `gorm:"type:varchar(36);uniqueIndex:idx_user_course;not null" json:"courseId"`
	Status   EnrollmentStatus `gorm:"size:20;default:'Pending'" json:"status"`
	Amount   int              `gorm:"default:0" json:"amount"` // 下单时的课程价格快照（分）
	Course   *Course          `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
