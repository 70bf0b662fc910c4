package handler

import (
	"github.com/user/moviesearch/internal/config"
	"github.com/user/moviesearch/internal/service"
	"github.com/user/moviesearch/internal/utils"
)

// Handler HTTP 处理器
type Handler struct {
	Registry  service.MovieRegistry
	Config    *config.Config
	Validator *utils.Validator
}

// NewHandler 创建处理器
func NewHandler(registry service.MovieRegistry, cfg *config.Config) *Handler {
	return &Handler{
		Registry:  registry,
		Config:    cfg,
		Validator: utils.NewValidator(),
	}
}
