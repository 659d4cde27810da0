package handler

import (
	"assassin/internal/app/reload"
	"assassin/internal/configs"
	"assassin/internal/pkg/limiter"
)

type AppDeps struct {
	Config  *configs.AppConfig
	Hub     *reload.Hub
	Limiter *limiter.IPRateLimiter
}
