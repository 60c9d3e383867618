package repository

import (
	"testing"

	"lms_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateWithDocumentsReplacesAll(t *testing.T) {
	db := newTestDB(t)
	repo := NewLessonRepository(db)
	_, _, lesson := seedCourseTree(t, db)

	old := &model.LessonDocument{LessonID: lesson.ID, Name: "old.pdf", FileKey: "files/old.pdf"}
	require.NoError(t, db.Create(old).Error)

	updates := map[string]interface{}{
		"title":     "Updated Lesson",
		"video_key": "videos/new.mp4",
	}
	documents := []model.LessonDocument{
		{Name: "slides.pdf", FileKey: "files/slides.pdf"},
		{Name: "exercises.pdf", FileKey: "files/exercises.pdf"},
	}

	require.NoError(t, repo.UpdateWithDocuments(lesson.ID, updates, documents))

	reloaded, err := repo.FindWithDocuments(lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, "Updated Lesson", reloaded.Title)
	assert.Equal(t, "videos/new.mp4", reloaded.VideoKey)

	require.Len(t, reloaded.Documents, 2)
	assert.Equal(t, "slides.pdf", reloaded.Documents[0].Name)
	assert.Equal(t, "exercises.pdf", reloaded.Documents[1].Name)

	// 旧附件已被整体替换
	var count int64
	require.NoError(t, db.Model(&model.LessonDocument{}).
		Where("file_key = ?", "files/old.pdf").Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestUpdateWithDocumentsRollsBackOnFailure(t *testing.T) {
	db := newTestDB(t)
	repo := NewLessonRepository(db)
	_, _, lesson := seedCourseTree(t, db)

	require.NoError(t, db.Create(&model.LessonDocument{
		LessonID: lesson.ID, Name: "old.pdf", FileKey: "files/old.pdf",
	}).Error)

	// 两个附件指定同一主键，第二条写入必然失败
	dup := model.GenerateUUID()
	documents := []model.LessonDocument{
		{UUIDBase: model.UUIDBase{ID: dup}, Name: "a.pdf", FileKey: "files/a.pdf"},
		{UUIDBase: model.UUIDBase{ID: dup}, Name: "b.pdf", FileKey: "files/b.pdf"},
	}

	err := repo.UpdateWithDocuments(lesson.ID, map[string]interface{}{
		"title": "Should Not Stick",
	}, documents)
	require.Error(t, err)

	// 整个事务回滚：标题未变，旧附件仍在，新附件一条都没落库
	reloaded, err := repo.FindWithDocuments(lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, lesson.Title, reloaded.Title)
	require.Len(t, reloaded.Documents, 1)
	assert.Equal(t, "old.pdf", reloaded.Documents[0].Name)
}

func TestUpdateWithDocumentsEmptyList(t *testing.T) {
	db := newTestDB(t)
	repo := NewLessonRepository(db)
	_, _, lesson := seedCourseTree(t, db)

	require.NoError(t, db.Create(&model.LessonDocument{
		LessonID: lesson.ID, Name: "old.pdf", FileKey: "files/old.pdf",
	}).Error)

	require.NoError(t, repo.UpdateWithDocuments(lesson.ID, map[string]interface{}{
		"title": "No Attachments",
	}, nil))

	reloaded, err := repo.FindWithDocuments(lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, "No Attachments", reloaded.Title)
	assert.Empty(t, reloaded.Documents)
}

func TestCourseIDOf(t *testing.T) {
	db := newTestDB(t)
	repo := NewLessonRepository(db)
	course, _, lesson := seedCourseTree(t, db)

	courseID, err := repo.CourseIDOf(lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, course.ID, courseID)
}

func TestLessonReorder(t *testing.T) {
	db := newTestDB(t)
	repo := NewLessonRepository(db)
	_, chapter, first := seedCourseTree(t, db)

	second := &model.Lesson{ChapterID: chapter.ID, Title: "Lesson 2", Position: 2}
	require.NoError(t, db.Create(second).Error)

	require.NoError(t, repo.Reorder(chapter.ID, []string{second.ID, first.ID}))

	var lessons []model.Lesson
	require.NoError(t, db.Where("chapter_id = ?", chapter.ID).
		Order("position ASC").Find(&lessons).Error)
	require.Len(t, lessons, 2)
	assert.Equal(t, second.ID, lessons[0].ID)
	assert.Equal(t, first.ID, lessons[1].ID)
}

func TestNextPosition(t *testing.T) {
	db := newTestDB(t)
	repo := NewLessonRepository(db)
	_, chapter, _ := seedCourseTree(t, db)

	pos, err := repo.NextPosition(chapter.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, pos)

	pos, err = repo.NextPosition("empty-chapter")
	require.NoError(t, err)
	assert.Equal(t, 1, pos)
}
