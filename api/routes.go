/*
 * @module api/routes
 * @description API路由配置模块，负责初始化和配置所有HTTP路由
 * @architecture RESTful API架构
 * @documentReference docs/api_design.md
 * @stateFlow 无状态HTTP请求处理
 * @rules 遵循RESTful API设计规范，统一错误处理和响应格式；模式写操作需要admin角色
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/cors, github.com/go-chi/render
 * @refs api/controllers, api/middleware
 */

package api

import (
	"dynaman-engine/api/controllers"
	authmw "dynaman-engine/api/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
)

// InitRoute 初始化所有API路由
func InitRoute(r *chi.Mux) {
	// 基础中间件
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	// CORS配置
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// 认证中间件，AUTH_SERVICE_URL未配置时关闭
	auth := authmw.NewAuthMiddleware()
	r.Use(auth.Middleware)
	requireAdmin := auth.RequireRole(authmw.AdminRole)

	// 健康检查
	healthController := controllers.NewHealthController()
	r.Get("/health", healthController.Health)
	r.Get("/ready", healthController.Ready)

	// 实体模式管理
	r.Route("/schemas", func(r chi.Router) {
		schemaController := controllers.NewSchemaController()
		r.Get("/", schemaController.ListSchemas)
		r.With(requireAdmin).Post("/", schemaController.CreateSchema)
		r.Route("/{entity_name}", func(r chi.Router) {
			r.Get("/", schemaController.GetSchema)
			r.Get("/versions/{version}", schemaController.GetSchemaVersion)
			r.With(requireAdmin).Put("/", schemaController.UpdateSchema)
			r.With(requireAdmin).Patch("/", schemaController.PatchSchema)
			r.With(requireAdmin).Delete("/", schemaController.DeleteSchema)
			r.With(requireAdmin).Post("/fields", schemaController.AddField)
			r.With(requireAdmin).Put("/fields/{field_name}", schemaController.UpdateField)
			r.With(requireAdmin).Delete("/fields/{field_name}", schemaController.RemoveField)
		})
	})

	// 动态实体数据
	r.Route("/data/{entity_name}", func(r chi.Router) {
		recordController := controllers.NewRecordController()
		r.Get("/", recordController.ListRecords)
		r.Post("/", recordController.CreateRecord)
		r.Get("/search", recordController.SearchRecords)
		r.Route("/{record_id}", func(r chi.Router) {
			r.Get("/", recordController.GetRecord)
			r.Put("/", recordController.UpdateRecord)
			r.Delete("/", recordController.DeleteRecord)
		})
	})
}
