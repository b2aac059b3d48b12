/*
 * @module api/controllers/record_controller
 * @description 动态实体数据API控制器，处理记录的增删改查和过滤查询请求
 * @architecture MVC架构 - 控制器层
 * @documentReference docs/api_design.md
 * @stateFlow HTTP请求处理流程
 * @rules 统一的错误处理和响应格式；查询参数中除分页参数外全部交由过滤解释器处理
 * @dependencies dynaman-engine/service, github.com/go-chi/render
 * @refs api/routes.go
 */

package controllers

import (
	"fmt"
	"net/http"

	"dynaman-engine/service"
	"dynaman-engine/service/engine"
	"dynaman-engine/service/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/spf13/cast"
)

// 分页参数保留字，不参与字段过滤解析
var reservedQueryParams = map[string]bool{
	"skip":  true,
	"limit": true,
	"q":     true,
}

// RecordController 动态实体数据控制器
type RecordController struct {
	service *engine.RecordService
}

// NewRecordController 创建动态实体数据控制器实例
func NewRecordController() *RecordController {
	return &RecordController{
		service: service.GlobalRecordService,
	}
}

// CreateRecord 创建记录
// @Summary 创建记录
// @Description 按实体最新模式校验负载并创建记录
// @Tags 动态数据
// @Accept json
// @Produce json
// @Param entity_name path string true "实体名称"
// @Param record body map[string]interface{} true "记录内容"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Failure 422 {object} APIResponse
// @Router /data/{entity_name} [post]
func (c *RecordController) CreateRecord(w http.ResponseWriter, r *http.Request) {
	entityName := chi.URLParam(r, "entity_name")
	if entityName == "" {
		render.JSON(w, r, BadRequestResponse("实体名称不能为空", nil))
		return
	}

	var payload models.JSONB
	if err := render.DecodeJSON(r.Body, &payload); err != nil {
		render.JSON(w, r, BadRequestResponse(fmt.Sprintf("请求参数格式错误:%s", err.Error()), nil))
		return
	}

	id, err := c.service.CreateRecord(r.Context(), entityName, payload)
	if err != nil {
		render.JSON(w, r, DomainErrorResponse(err))
		return
	}

	render.JSON(w, r, SuccessResponse("创建成功", map[string]string{"id": id}))
}

// ListRecords 查询记录列表
// @Summary 查询记录列表
// @Description 按过滤条件分页查询记录，支持 field_gt/field_lt/field_contains/field_eq 后缀语法
// @Tags 动态数据
// @Produce json
// @Param entity_name path string true "实体名称"
// @Param skip query int false "偏移量" default(0)
// @Param limit query int false "每页数量" default(50)
// @Success 200 {object} PaginatedResponse{data=[]models.RecordView}
// @Failure 404 {object} APIResponse
// @Router /data/{entity_name} [get]
func (c *RecordController) ListRecords(w http.ResponseWriter, r *http.Request) {
	entityName := chi.URLParam(r, "entity_name")
	if entityName == "" {
		render.JSON(w, r, BadRequestResponse("实体名称不能为空", nil))
		return
	}

	skip := cast.ToInt(r.URL.Query().Get("skip"))
	limit := cast.ToInt(r.URL.Query().Get("limit"))

	queryParams := make(map[string]string)
	for key, values := range r.URL.Query() {
		if reservedQueryParams[key] || len(values) == 0 {
			continue
		}
		queryParams[key] = values[0]
	}

	views, total, err := c.service.ListRecords(r.Context(), entityName, queryParams, skip, limit)
	if err != nil {
		render.JSON(w, r, DomainErrorResponse(err))
		return
	}

	render.JSON(w, r, PaginatedSuccessResponse("查询成功", views, total, skip, limit))
}

// SearchRecords 全文搜索记录
// @Summary 全文搜索记录
// @Description 在实体的所有字符串字段上做大小写不敏感的包含搜索
// @Tags 动态数据
// @Produce json
// @Param entity_name path string true "实体名称"
// @Param q query string true "搜索关键词"
// @Param skip query int false "偏移量" default(0)
// @Param limit query int false "每页数量" default(50)
// @Success 200 {object} PaginatedResponse{data=[]models.RecordView}
// @Failure 404 {object} APIResponse
// @Router /data/{entity_name}/search [get]
func (c *RecordController) SearchRecords(w http.ResponseWriter, r *http.Request) {
	entityName := chi.URLParam(r, "entity_name")
	searchText := r.URL.Query().Get("q")
	if entityName == "" || searchText == "" {
		render.JSON(w, r, BadRequestResponse("实体名称和搜索关键词不能为空", nil))
		return
	}

	skip := cast.ToInt(r.URL.Query().Get("skip"))
	limit := cast.ToInt(r.URL.Query().Get("limit"))

	views, total, err := c.service.SearchRecords(r.Context(), entityName, searchText, skip, limit)
	if err != nil {
		render.JSON(w, r, DomainErrorResponse(err))
		return
	}

	render.JSON(w, r, PaginatedSuccessResponse("查询成功", views, total, skip, limit))
}

// GetRecord 获取记录详情
// @Summary 获取记录详情
// @Description 根据ID获取单条记录，已软删除的记录视为不存在
// @Tags 动态数据
// @Produce json
// @Param entity_name path string true "实体名称"
// @Param record_id path string true "记录ID"
// @Success 200 {object} APIResponse{data=models.RecordView}
// @Failure 404 {object} APIResponse
// @Router /data/{entity_name}/{record_id} [get]
func (c *RecordController) GetRecord(w http.ResponseWriter, r *http.Request) {
	entityName := chi.URLParam(r, "entity_name")
	recordID := chi.URLParam(r, "record_id")
	if entityName == "" || recordID == "" {
		render.JSON(w, r, BadRequestResponse("实体名称和记录ID不能为空", nil))
		return
	}

	view, err := c.service.GetRecord(r.Context(), entityName, recordID)
	if err != nil {
		render.JSON(w, r, DomainErrorResponse(err))
		return
	}
	if view == nil {
		render.JSON(w, r, NotFoundResponse("记录不存在", nil))
		return
	}

	render.JSON(w, r, SuccessResponse("查询成功", view))
}

// UpdateRecord 更新记录
// @Summary 更新记录
// @Description 按实体最新模式校验负载并整体替换记录内容
// @Tags 动态数据
// @Accept json
// @Produce json
// @Param entity_name path string true "实体名称"
// @Param record_id path string true "记录ID"
// @Param record body map[string]interface{} true "新的记录内容"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Failure 422 {object} APIResponse
// @Router /data/{entity_name}/{record_id} [put]
func (c *RecordController) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	entityName := chi.URLParam(r, "entity_name")
	recordID := chi.URLParam(r, "record_id")
	if entityName == "" || recordID == "" {
		render.JSON(w, r, BadRequestResponse("实体名称和记录ID不能为空", nil))
		return
	}

	var payload models.JSONB
	if err := render.DecodeJSON(r.Body, &payload); err != nil {
		render.JSON(w, r, BadRequestResponse(fmt.Sprintf("请求参数格式错误:%s", err.Error()), nil))
		return
	}

	if err := c.service.UpdateRecord(r.Context(), entityName, recordID, payload); err != nil {
		render.JSON(w, r, DomainErrorResponse(err))
		return
	}

	render.JSON(w, r, SuccessResponse("更新成功", nil))
}

// DeleteRecord 删除记录
// @Summary 删除记录
// @Description 软删除记录，删除后的记录不会出现在任何查询结果中
// @Tags 动态数据
// @Produce json
// @Param entity_name path string true "实体名称"
// @Param record_id path string true "记录ID"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /data/{entity_name}/{record_id} [delete]
func (c *RecordController) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	entityName := chi.URLParam(r, "entity_name")
	recordID := chi.URLParam(r, "record_id")
	if entityName == "" || recordID == "" {
		render.JSON(w, r, BadRequestResponse("实体名称和记录ID不能为空", nil))
		return
	}

	if err := c.service.DeleteRecord(r.Context(), entityName, recordID); err != nil {
		render.JSON(w, r, DomainErrorResponse(err))
		return
	}

	render.JSON(w, r, SuccessResponse("删除成功", nil))
}
