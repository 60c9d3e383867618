package database

import (
	"fmt"
	"log"

	"lms_backend/internal/config"
	"lms_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	seedDemoCourse(db)

	return db, nil
}

// Migrate 测试用例会对sqlite内存库复用同一份迁移
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.Chapter{},
		&model.Lesson{},
		&model.LessonDocument{},
		&model.Enrollment{},
		&model.LessonProgress{},
	)
}

// seedDemoCourse 空库时插入一门免费示例课程，方便本地联调
func seedDemoCourse(db *gorm.DB) {
	var count int64
	db.Model(&model.Course{}).Count(&count)
	if count > 0 {
		return
	}

	course := &model.Course{
		Title:            "Go 入门实战",
		Slug:             "go-getting-started",
		SmallDescription: "从零开始的 Go 语言实战课",
		Description:      `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"示例课程"}]}]}`,
		Price:            0,
		Duration:         6,
		Level:            model.LevelBeginner,
		Category:         "Programming",
		Status:           model.CoursePublished,
	}
	if err := db.Create(course).Error; err != nil {
		return
	}

	chapter := &model.Chapter{CourseID: course.ID, Title: "准备工作", Position: 1}
	if err := db.Create(chapter).Error; err != nil {
		return
	}

	lessons := []model.Lesson{
		{ChapterID: chapter.ID, Title: "环境搭建", Position: 1},
		{ChapterID: chapter.ID, Title: "第一个程序", Position: 2},
	}
	for i := range lessons {
		db.Create(&lessons[i])
	}
}
