/*
 * @module api/controllers/schema_controller
 * @description 实体模式管理API控制器，处理模式定义、版本查询和字段级变更请求
 * @architecture MVC架构 - 控制器层
 * @documentReference docs/api_design.md
 * @stateFlow HTTP请求处理流程
 * @rules 统一的错误处理和响应格式，参数验证；模式写操作需要管理员权限（由路由层中间件控制）
 * @dependencies dynaman-engine/service, github.com/go-chi/render
 * @refs api/routes.go
 */

package controllers

import (
	"fmt"
	"net/http"

	"dynaman-engine/service"
	"dynaman-engine/service/metadata"
	"dynaman-engine/service/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/spf13/cast"
)

// SchemaController 实体模式控制器
type SchemaController struct {
	service *metadata.SchemaService
}

// NewSchemaController 创建实体模式控制器实例
func NewSchemaController() *SchemaController {
	return &SchemaController{
		service: service.GlobalSchemaService,
	}
}

// CreateSchema 定义实体模式
// @Summary 定义实体模式
// @Description 注册一个新的实体模式，版本号从1开始
// @Tags 实体模式
// @Accept json
// @Produce json
// @Param schema body models.SchemaEntity true "实体模式定义"
// @Success 200 {object} APIResponse{data=models.SchemaEntity}
// @Failure 400 {object} APIResponse
// @Failure 409 {object} APIResponse
// @Router /schemas [post]
func (c *SchemaController) CreateSchema(w http.ResponseWriter, r *http.Request) {
	var req models.SchemaEntity
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.JSON(w, r, BadRequestResponse(fmt.Sprintf("请求参数格式错误:%s", err.Error()), nil))
		return
	}

	id, err := c.service.DefineEntity(r.Context(), &req)
	if err != nil {
		render.JSON(w, r, DomainErrorResponse(err))
		return
	}

	req.ID = id
	render.JSON(w, r, SuccessResponse("创建成功", &req))
}

// ListSchemas 获取实体模式列表
// @Summary 获取实体模式列表
// @Description 返回所有已定义的实体名称
// @Tags 实体模式
// @Produce json
// @Success 200 {object} APIResponse{data=[]string}
// @Failure 500 {object} APIResponse
// @Router /schemas [get]
func (c *SchemaController) ListSchemas(w http.ResponseWriter, r *http.Request) {
	names, err := c.service.ListEntities(r.Context())
	if err != nil {
		render.JSON(w, r, InternalErrorResponse(err.Error(), nil))
		return
	}

	render.JSON(w, r, SuccessResponse("查询成功", names))
}

// GetSchema 获取实体模式详情
// @Summary 获取实体模式详情
// @Description 返回指定实体的最新版本模式
// @Tags 实体模式
// @Produce json
// @Param entity_name path string true "实体名称"
// @Success 200 {object} APIResponse{data=models.SchemaEntity}
// @Failure 404 {object} APIResponse
// @Router /schemas/{entity_name} [get]
func (c *SchemaController) GetSchema(w http.ResponseWriter, r *http.Request) {
	entityName := chi.URLParam(r, "entity_name")
	if entityName == "" {
		render.JSON(w, r, BadRequestResponse("实体名称不能为空", nil))
		return
	}

	schema, err := c.service.GetEntity(r.Context(), entityName)
	if err != nil {
		render.JSON(w, r, DomainErrorResponse(err))
		return
	}

	render.JSON(w, r, SuccessResponse("查询成功", schema))
}

// GetSchemaVersion 获取实体模式历史版本
// @Summary 获取实体模式历史版本
// @Description 按版本号返回实体的某个历史版本模式
// @Tags 实体模式
// @Produce json
// @Param entity_name path string true "实体名称"
// @Param version path int true "版本号"
// @Success 200 {object} APIResponse{data=models.SchemaEntity}
// @Failure 404 {object} APIResponse
// @Router /schemas/{entity_name}/versions/{version} [get]
func (c *SchemaController) GetSchemaVersion(w http.ResponseWriter, r *http.Request) {
	entityName := chi.URLParam(r, "entity_name")
	version := cast.ToInt(chi.URLParam(r, "version"))
	if entityName == "" || version <= 0 {
		render.JSON(w, r, BadRequestResponse("实体名称和版本号不能为空", nil))
		return
	}

	schema, err := c.service.GetEntityVersion(r.Context(), entityName, version)
	if err != nil {
		render.JSON(w, r, DomainErrorResponse(err))
		return
	}

	render.JSON(w, r, SuccessResponse("查询成功", schema))
}

// UpdateSchema 整体替换实体模式
// @Summary 整体替换实体模式
// @Description 用新的字段列表替换实体模式，版本号递增
// @Tags 实体模式
// @Accept json
// @Produce json
// @Param entity_name path string true "实体名称"
// @Param schema body models.SchemaEntity true "新的实体模式"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /schemas/{entity_name} [put]
func (c *SchemaController) UpdateSchema(w http.ResponseWriter, r *http.Request) {
	entityName := chi.URLParam(r, "entity_name")
	if entityName == "" {
		render.JSON(w, r, BadRequestResponse("实体名称不能为空", nil))
		return
	}

	var req models.SchemaEntity
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.JSON(w, r, BadRequestResponse(fmt.Sprintf("请求参数格式错误:%s", err.Error()), nil))
		return
	}

	if err := c.service.ReplaceSchema(r.Context(), entityName, &req); err != nil {
		render.JSON(w, r, DomainErrorResponse(err))
		return
	}

	render.JSON(w, r, SuccessResponse("更新成功", nil))
}

// PatchSchema 部分更新实体模式
// @Summary 部分更新实体模式
// @Description 只允许更新描述信息，实体名称和字段列表不可通过本接口修改
// @Tags 实体模式
// @Accept json
// @Produce json
// @Param entity_name path string true "实体名称"
// @Param patch body map[string]interface{} true "待更新字段"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /schemas/{entity_name} [patch]
func (c *SchemaController) PatchSchema(w http.ResponseWriter, r *http.Request) {
	entityName := chi.URLParam(r, "entity_name")
	if entityName == "" {
		render.JSON(w, r, BadRequestResponse("实体名称不能为空", nil))
		return
	}

	var patch map[string]interface{}
	if err := render.DecodeJSON(r.Body, &patch); err != nil {
		render.JSON(w, r, BadRequestResponse(fmt.Sprintf("请求参数格式错误:%s", err.Error()), nil))
		return
	}

	if err := c.service.PatchSchema(r.Context(), entityName, patch); err != nil {
		render.JSON(w, r, DomainErrorResponse(err))
		return
	}

	render.JSON(w, r, SuccessResponse("更新成功", nil))
}

// DeleteSchema 删除实体模式
// @Summary 删除实体模式
// @Description 删除实体的所有模式版本
// @Tags 实体模式
// @Produce json
// @Param entity_name path string true "实体名称"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /schemas/{entity_name} [delete]
func (c *SchemaController) DeleteSchema(w http.ResponseWriter, r *http.Request) {
	entityName := chi.URLParam(r, "entity_name")
	if entityName == "" {
		render.JSON(w, r, BadRequestResponse("实体名称不能为空", nil))
		return
	}

	if err := c.service.DeleteEntity(r.Context(), entityName); err != nil {
		render.JSON(w, r, DomainErrorResponse(err))
		return
	}

	render.JSON(w, r, SuccessResponse("删除成功", nil))
}

// AddField 新增模式字段
// @Summary 新增模式字段
// @Description 向实体模式追加一个字段定义，版本号递增
// @Tags 实体模式
// @Accept json
// @Produce json
// @Param entity_name path string true "实体名称"
// @Param field body models.FieldDefinition true "字段定义"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 409 {object} APIResponse
// @Router /schemas/{entity_name}/fields [post]
func (c *SchemaController) AddField(w http.ResponseWriter, r *http.Request) {
	entityName := chi.URLParam(r, "entity_name")
	if entityName == "" {
		render.JSON(w, r, BadRequestResponse("实体名称不能为空", nil))
		return
	}

	var field models.FieldDefinition
	if err := render.DecodeJSON(r.Body, &field); err != nil {
		render.JSON(w, r, BadRequestResponse(fmt.Sprintf("请求参数格式错误:%s", err.Error()), nil))
		return
	}

	if err := c.service.AddField(r.Context(), entityName, field); err != nil {
		render.JSON(w, r, DomainErrorResponse(err))
		return
	}

	render.JSON(w, r, SuccessResponse("字段添加成功", nil))
}

// UpdateField 更新模式字段
// @Summary 更新模式字段
// @Description 更新实体模式中的一个字段定义，版本号递增
// @Tags 实体模式
// @Accept json
// @Produce json
// @Param entity_name path string true "实体名称"
// @Param field_name path string true "字段名称"
// @Param field body models.FieldDefinition true "新的字段定义"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 409 {object} APIResponse
// @Router /schemas/{entity_name}/fields/{field_name} [put]
func (c *SchemaController) UpdateField(w http.ResponseWriter, r *http.Request) {
	entityName := chi.URLParam(r, "entity_name")
	fieldName := chi.URLParam(r, "field_name")
	if entityName == "" || fieldName == "" {
		render.JSON(w, r, BadRequestResponse("实体名称和字段名称不能为空", nil))
		return
	}

	var field models.FieldDefinition
	if err := render.DecodeJSON(r.Body, &field); err != nil {
		render.JSON(w, r, BadRequestResponse(fmt.Sprintf("请求参数格式错误:%s", err.Error()), nil))
		return
	}

	if err := c.service.UpdateField(r.Context(), entityName, fieldName, field); err != nil {
		render.JSON(w, r, DomainErrorResponse(err))
		return
	}

	render.JSON(w, r, SuccessResponse("字段更新成功", nil))
}

// RemoveField 删除模式字段
// @Summary 删除模式字段
// @Description 从实体模式中移除一个字段定义，版本号递增
// @Tags 实体模式
// @Produce json
// @Param entity_name path string true "实体名称"
// @Param field_name path string true "字段名称"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Failure 409 {object} APIResponse
// @Router /schemas/{entity_name}/fields/{field_name} [delete]
func (c *SchemaController) RemoveField(w http.ResponseWriter, r *http.Request) {
	entityName := chi.URLParam(r, "entity_name")
	fieldName := chi.URLParam(r, "field_name")
	if entityName == "" || fieldName == "" {
		render.JSON(w, r, BadRequestResponse("实体名称和字段名称不能为空", nil))
		return
	}

	if err := c.service.RemoveField(r.Context(), entityName, fieldName); err != nil {
		render.JSON(w, r, DomainErrorResponse(err))
		return
	}

	render.JSON(w, r, SuccessResponse("字段删除成功", nil))
}
