package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const uploadProgressKeyPrefix = "upload_progress:"

// UploadService 分片上传：分片落盘到临时目录，进度存Redis共享，
// 全部分片到齐后合并、探测视频信息、生成缩略图并上传到存储后端
type UploadService struct {
	StorageService *StorageService
	Cfg            *config.Config
	Redis          *redis.Client
}

func NewUploadService(storageService *StorageService, cfg *config.Config, rdb *redis.Client) *UploadService {
	return &UploadService{
		StorageService: storageService,
		Cfg:            cfg,
		Redis:          rdb,
	}
}

// UploadVideoChunk 保存一个分片并更新进度。最后一个分片触发合并
func (s *UploadService) UploadVideoChunk(ctx context.Context, chunkFile *multipart.FileHeader, chunkNumber, totalChunks int, identifier, filename string) (*model.UploadProgress, *model.UploadedVideo, error) {
	// 首个分片校验扩展名和真实MIME类型
	if chunkNumber == 1 {
		ext := strings.ToLower(filepath.Ext(filename))
		allowed := false
		for _, e := range util.AllowedVideoExtensions {
			if ext == e {
				allowed = true
				break
			}
		}
		if !allowed {
			return nil, nil, fmt.Errorf("unsupported video extension: %s", ext)
		}

		probe, err := chunkFile.Open()
		if err != nil {
			return nil, nil, err
		}
		_, err = util.ValidateMimeType(probe, []string{util.MimeVideo, util.MimeOctetStream})
		probe.Close()
		if err != nil {
			return nil, nil, err
		}
	}

	tempDir := filepath.Join(s.Cfg.Storage.LocalPath, "temp", identifier)
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return nil, nil, err
	}

	chunkPath := filepath.Join(tempDir, fmt.Sprintf("chunk_%d", chunkNumber))
	src, err := chunkFile.Open()
	if err != nil {
		return nil, nil, err
	}
	defer src.Close()

	dst, err := os.Create(chunkPath)
	if err != nil {
		return nil, nil, err
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return nil, nil, err
	}
	dst.Close() // 写入完成后立即关闭，防止win文件锁问题

	redisKey := uploadProgressKeyPrefix + identifier
	var progress *model.UploadProgress

	val, err := s.Redis.Get(ctx, redisKey).Result()
	if err == redis.Nil {
		progress = &model.UploadProgress{
			TotalChunks:    totalChunks,
			UploadedChunks: 0,
			FileSize:       0,
			Identifier:     identifier,
			Filename:       filename,
			CreatedAt:      time.Now(),
			Chunks:         make(map[int]bool),
		}
	} else if err != nil {
		return nil, nil, err
	} else {
		if err := json.Unmarshal([]byte(val), &progress); err != nil {
			return nil, nil, err
		}
	}

	if !progress.Chunks[chunkNumber] {
		progress.UploadedChunks++
		progress.FileSize += chunkFile.Size
		progress.Chunks[chunkNumber] = true
	}

	isComplete := progress.UploadedChunks == progress.TotalChunks

	// 进度回写Redis，24小时过期
	updatedVal, _ := json.Marshal(progress)
	if err := s.Redis.Set(ctx, redisKey, updatedVal, 24*time.Hour).Err(); err != nil {
		return nil, nil, err
	}

	var video *model.UploadedVideo
	if isComplete {
		video, err = s.assemble(ctx, tempDir, identifier, filename, progress)
		if err != nil {
			return nil, nil, err
		}
		s.Redis.Del(context.Background(), redisKey)
	}

	return progress, video, nil
}

func (s *UploadService) assemble(ctx context.Context, tempDir, identifier, filename string, progress *model.UploadProgress) (*model.UploadedVideo, error) {
	ext := filepath.Ext(filename)
	videoKey := "videos/" + time.Now().Format("20060102150405") + "-" +
		strings.ReplaceAll(strings.TrimSuffix(filename, ext), " ", "-") + ext
	finalPath := filepath.Join(s.Cfg.Storage.LocalPath, "temp", identifier+"_final"+ext)

	finalFile, err := os.Create(finalPath)
	if err != nil {
		return nil, err
	}

	for i := 1; i <= progress.TotalChunks; i++ {
		chunkPath := filepath.Join(tempDir, fmt.Sprintf("chunk_%d", i))
		data, err := os.ReadFile(chunkPath)
		if err != nil {
			finalFile.Close()
			return nil, err
		}
		if _, err := finalFile.Write(data); err != nil {
			finalFile.Close()
			return nil, err
		}
	}
	finalFile.Close()

	defer func() {
		os.RemoveAll(tempDir)
		os.Remove(finalPath)
	}()

	if _, err := s.StorageService.UploadFile(ctx, videoKey, finalPath, "video/"+strings.TrimPrefix(ext, ".")); err != nil {
		return nil, err
	}

	// 缩略图：取第3秒一帧，失败不阻断上传
	thumbnailKey := "thumbnails/" + time.Now().Format("20060102150405") + "-" +
		util.GenerateRandomString(6) + ".jpg"
	thumbnailPath := filepath.Join(s.Cfg.Storage.LocalPath, "temp", identifier+"_thumb.jpg")

	if err := util.GenerateThumbnail(finalPath, thumbnailPath, "3"); err != nil {
		logger.Log.Error("生成缩略图失败", zap.Error(err))
		thumbnailKey = ""
	} else {
		if _, err := s.StorageService.UploadFile(ctx, thumbnailKey, thumbnailPath, "image/jpeg"); err != nil {
			logger.Log.Error("上传缩略图失败", zap.Error(err))
			thumbnailKey = ""
		}
		os.Remove(thumbnailPath)
	}

	var duration float64
	var format string
	if info, err := util.GetVideoInfo(finalPath); err == nil {
		duration = info.Duration
		format = info.Format
	}

	return &model.UploadedVideo{
		VideoKey:     videoKey,
		ThumbnailKey: thumbnailKey,
		Duration:     duration,
		Size:         progress.FileSize,
		Format:       format,
	}, nil
}

func (s *UploadService) GetUploadProgress(identifier string) (*model.UploadProgress, error) {
	redisKey := uploadProgressKeyPrefix + identifier
	val, err := s.Redis.Get(context.Background(), redisKey).Result()
	if err == redis.Nil {
		return nil, util.ErrUploadSessionNotFound
	} else if err != nil {
		return nil, err
	}

	var progress model.UploadProgress
	if err := json.Unmarshal([]byte(val), &progress); err != nil {
		return nil, err
	}
	return &progress, nil
}
