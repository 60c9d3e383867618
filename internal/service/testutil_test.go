package service

import (
	"fmt"
	"strings"
	"testing"

	"lms_backend/internal/model"
	"lms_backend/pkg/database"
	"lms_backend/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	logger.Log = zap.NewNop()
}

// newTestDB 每个测试用例独立的sqlite内存库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()

	user := &model.User{
		Name:     "Test User",
		Email:    email,
		Password: "hashed",
		Role:     model.Student,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestCourse(t *testing.T, db *gorm.DB, slug string, price int) *model.Course {
	t.Helper()

	course := &model.Course{
		Title:  "Test Course " + slug,
		Slug:   slug,
		Price:  price,
		Status: model.CoursePublished,
	}
	require.NoError(t, db.Create(course).Error)
	return course
}

func createTestChapter(t *testing.T, db *gorm.DB, courseID string, position int) *model.Chapter {
	t.Helper()

	chapter := &model.Chapter{
		CourseID: courseID,
		Title:    fmt.Sprintf("Chapter %d", position),
		Position: position,
	}
	require.NoError(t, db.Create(chapter).Error)
	return chapter
}

func createTestLesson(t *testing.T, db *gorm.DB, chapterID string, position int) *model.Lesson {
	t.Helper()

	lesson := &model.Lesson{
		ChapterID: chapterID,
		Title:     fmt.Sprintf("Lesson %d", position),
		Position:  position,
	}
	require.NoError(t, db.Create(lesson).Error)
	return lesson
}

func enroll(t *testing.T, db *gorm.DB, userID uint, courseID string, status model.EnrollmentStatus) *model.Enrollment {
	t.Helper()

	enrollment := &model.Enrollment{
		UserID:   userID,
		CourseID: courseID,
		Status:   status,
	}
	require.NoError(t, db.Create(enrollment).Error)
	return enrollment
}
