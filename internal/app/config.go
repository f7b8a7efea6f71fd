package app

import (
	"errors"
	"fmt"
	"time"
)

// maxFrameRate keeps the frame interval at one nanosecond or more.
const maxFrameRate = int(time.Second)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	FlowPath string // hcl file or directory
	Entry    string // name of the top-level task to run; first one if empty

	FrameRate int // frames per second, 0 runs frames back to back
	MaxFrames int // 0 is unlimited

	LogFormat       string
	LogLevel        string
	LogFile         string // rotated file instead of the output writer when set
	HealthcheckPort int

	InputURL string // socket.io server for remote input; scripted input if empty
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.FlowPath == "" {
		return nil, errors.New("FlowPath is a required configuration field and cannot be empty")
	}
	if cfg.FrameRate < 0 {
		return nil, fmt.Errorf("FrameRate must not be negative, got %d", cfg.FrameRate)
	}
	if cfg.FrameRate > maxFrameRate {
		return nil, fmt.Errorf("FrameRate must be at most %d, got %d", maxFrameRate, cfg.FrameRate)
	}
	if cfg.MaxFrames < 0 {
		return nil, fmt.Errorf("MaxFrames must not be negative, got %d", cfg.MaxFrames)
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("HealthcheckPort must be between 0 and 65535, got %d", cfg.HealthcheckPort)
	}
	return &cfg, nil
}
