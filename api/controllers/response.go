/*
 * @module api/controllers/response
 * @description 统一API响应格式定义，提供标准化的成功/失败响应构造函数
 * @architecture RESTful API架构
 * @documentReference docs/api_design.md
 * @stateFlow 无状态响应构造
 * @rules 所有控制器必须使用本模块的响应构造函数，保证响应格式一致
 * @dependencies net/http
 * @refs api/controllers
 */

package controllers

import (
	"errors"
	"net/http"

	"dynaman-engine/service/models"
)

// APIResponse 统一API响应结构
type APIResponse struct {
	Status int         `json:"status"`         // 状态码，0表示成功
	Msg    string      `json:"msg"`            // 响应消息
	Data   interface{} `json:"data,omitempty"` // 响应数据
}

// PaginatedResponse 分页响应结构
type PaginatedResponse struct {
	Status int         `json:"status"` // 状态码，0表示成功
	Msg    string      `json:"msg"`    // 响应消息
	Data   interface{} `json:"data"`   // 数据列表
	Total  int64       `json:"total"`  // 总数
	Skip   int         `json:"skip"`   // 偏移量
	Limit  int         `json:"limit"`  // 每页数量
}

// SuccessResponse 构造成功响应
func SuccessResponse(msg string, data interface{}) *APIResponse {
	return &APIResponse{
		Status: 0,
		Msg:    msg,
		Data:   data,
	}
}

// PaginatedSuccessResponse 构造分页成功响应
func PaginatedSuccessResponse(msg string, data interface{}, total int64, skip, limit int) *PaginatedResponse {
	return &PaginatedResponse{
		Status: 0,
		Msg:    msg,
		Data:   data,
		Total:  total,
		Skip:   skip,
		Limit:  limit,
	}
}

// BadRequestResponse 构造请求参数错误响应
func BadRequestResponse(msg string, data interface{}) *APIResponse {
	return &APIResponse{
		Status: http.StatusBadRequest,
		Msg:    msg,
		Data:   data,
	}
}

// NotFoundResponse 构造资源不存在响应
func NotFoundResponse(msg string, data interface{}) *APIResponse {
	return &APIResponse{
		Status: http.StatusNotFound,
		Msg:    msg,
		Data:   data,
	}
}

// ConflictResponse 构造资源冲突响应
func ConflictResponse(msg string, data interface{}) *APIResponse {
	return &APIResponse{
		Status: http.StatusConflict,
		Msg:    msg,
		Data:   data,
	}
}

// InternalErrorResponse 构造服务器内部错误响应
func InternalErrorResponse(msg string, data interface{}) *APIResponse {
	return &APIResponse{
		Status: http.StatusInternalServerError,
		Msg:    msg,
		Data:   data,
	}
}

// DomainErrorResponse 将领域错误映射为API响应，非领域错误统一返回内部错误
func DomainErrorResponse(err error) *APIResponse {
	var domainErr *models.DomainError
	if !errors.As(err, &domainErr) {
		return InternalErrorResponse(err.Error(), nil)
	}
	switch domainErr.Code {
	case models.CodeEntityNotDefined, models.CodeRecordNotFound:
		return NotFoundResponse(domainErr.Message, domainErr.Errors)
	case models.CodeValidationFailed:
		return &APIResponse{
			Status: http.StatusUnprocessableEntity,
			Msg:    domainErr.Message,
			Data:   domainErr.Errors,
		}
	case models.CodeSchemaConflict:
		return ConflictResponse(domainErr.Message, domainErr.Errors)
	default:
		return BadRequestResponse(domainErr.Message, domainErr.Errors)
	}
}
