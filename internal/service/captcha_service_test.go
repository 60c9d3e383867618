package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func makeTrajectory(points int, jitter int) []TrajectoryPoint {
	trajectory := make([]TrajectoryPoint, points)
	for i := range trajectory {
		y := 100
		if jitter != 0 && i%2 == 0 {
			y += jitter
		}
		trajectory[i] = TrajectoryPoint{X: i * 10, Y: y, T: i * 50}
	}
	return trajectory
}

func TestAnalyzeTrajectory(t *testing.T) {
	svc := &CaptchaService{}

	tests := []struct {
		name       string
		trajectory []TrajectoryPoint
		duration   int
		want       bool
	}{
		{
			name:       "human-like with jitter",
			trajectory: makeTrajectory(20, 3),
			duration:   800,
			want:       true,
		},
		{
			name:       "perfectly straight line",
			trajectory: makeTrajectory(20, 0),
			duration:   800,
			want:       false,
		},
		{
			name:       "too fast",
			trajectory: makeTrajectory(20, 3),
			duration:   100,
			want:       false,
		},
		{
			name:       "too slow",
			trajectory: makeTrajectory(20, 3),
			duration:   20000,
			want:       false,
		},
		{
			name:       "barely moved",
			trajectory: makeTrajectory(3, 3),
			duration:   800,
			want:       false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.analyzeTrajectory(tt.trajectory, tt.duration))
		})
	}
}

func TestVerifyTrajectoryTooShort(t *testing.T) {
	svc := &CaptchaService{}

	_, err := svc.VerifyTrajectory(makeTrajectory(5, 3), 800)
	assert.Error(t, err)
}
