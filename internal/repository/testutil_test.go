package repository

import (
	"fmt"
	"strings"
	"testing"

	"lms_backend/internal/model"
	"lms_backend/pkg/database"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

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

func seedCourseTree(t *testing.T, db *gorm.DB) (*model.Course, *model.Chapter, *model.Lesson) {
	t.Helper()

	course := &model.Course{Title: "Course", Slug: "course", Status: model.CoursePublished}
	require.NoError(t, db.Create(course).Error)

	chapter := &model.Chapter{CourseID: course.ID, Title: "Chapter 1", Position: 1}
	require.NoError(t, db.Create(chapter).Error)

	lesson := &model.Lesson{ChapterID: chapter.ID, Title: "Lesson 1", Position: 1}
	require.NoError(t, db.Create(lesson).Error)

	return course, chapter, lesson
}
