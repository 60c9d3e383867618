package model

import "time"

// UploadProgress 分片上传进度，存放于Redis以便多实例共享
type UploadProgress struct {
	Identifier     string       `json:"identifier"`
	Filename       string       `json:"filename"`
	TotalChunks    int          `json:"totalChunks"`
	UploadedChunks int          `json:"uploadedChunks"`
	FileSize       int64        `json:"fileSize"`
	CreatedAt      time.Time    `json:"createdAt"`
	Chunks         map[int]bool `json:"chunks"`
}

// UploadedVideo 分片合并完成后的产物
type UploadedVideo struct {
	VideoKey     string  `json:"videoKey"`
	ThumbnailKey string  `json:"thumbnailKey"`
	Duration     float64 `json:"duration"`
	Size         int64   `json:"size"`
	Format       string  `json:"format"`
}
