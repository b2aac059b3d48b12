/*
 * @module service/models/errors
 * @description 领域错误模型，定义错误码分类和结构化校验错误明细
 * @architecture DDD领域驱动设计 - 错误模型
 * @documentReference dev_docs/model.md
 * @stateFlow 领域层产生错误 -> 应用层透传 -> 控制器层映射HTTP状态码
 * @rules 校验失败必须携带完整的错误明细列表，不允许只返回第一条
 * @dependencies errors, fmt
 * @refs api/controllers/response.go
 */

package models

import (
	"errors"
	"fmt"
)

// 领域错误码
const (
	CodeEntityNotDefined = "entity_not_defined" // 实体模式不存在
	CodeValidationFailed = "validation_failed"  // 负载校验失败
	CodeRecordNotFound   = "record_not_found"   // 记录不存在或已软删除
	CodeSchemaConflict   = "schema_conflict"    // 模式变更冲突
)

// 校验错误明细的 issue 分类
const (
	IssueFieldMissing     = "field_missing"
	IssueInvalidType      = "invalid_type"
	IssueInvalidEmail     = "invalid_email_format"
	IssueStringTooShort   = "string_too_short"
	IssueStringTooLong    = "string_too_long"
	IssueValueTooLow      = "value_too_low"
	IssueValueTooHigh     = "value_too_high"
	IssueRegexMismatch    = "regex_mismatch"
	IssueInvalidEnumValue = "invalid_enum_value"
	IssueUniqueViolation  = "unique_constraint_violation"
	IssueValueError       = "value_error"
)

// ValidationErrorDetail 单个字段的结构化校验错误
type ValidationErrorDetail struct {
	Field  string `json:"field"`
	Issue  string `json:"issue"`
	Detail string `json:"detail"`
}

// DomainError 领域错误，携带错误码和完整的校验错误列表
type DomainError struct {
	Code    string                  `json:"code"`
	Message string                  `json:"message"`
	Errors  []ValidationErrorDetail `json:"errors,omitempty"`
}

// Error 实现 error 接口
func (e *DomainError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("%s (%d个字段错误)", e.Message, len(e.Errors))
	}
	return e.Message
}

// NewDomainError 创建领域错误
func NewDomainError(code, message string, details ...ValidationErrorDetail) *DomainError {
	return &DomainError{Code: code, Message: message, Errors: details}
}

// NewEntityNotDefinedError 实体模式未定义
func NewEntityNotDefinedError(entityName string) *DomainError {
	return NewDomainError(CodeEntityNotDefined, fmt.Sprintf("实体 '%s' 未定义", entityName))
}

// NewRecordNotFoundError 记录不存在
func NewRecordNotFoundError(recordID string) *DomainError {
	return NewDomainError(CodeRecordNotFound, fmt.Sprintf("记录 '%s' 不存在", recordID))
}

// NewValidationFailedError 负载校验失败，details 必须是完整的错误列表
func NewValidationFailedError(entityName string, details []ValidationErrorDetail) *DomainError {
	return &DomainError{
		Code:    CodeValidationFailed,
		Message: fmt.Sprintf("实体 '%s' 的数据校验失败", entityName),
		Errors:  details,
	}
}

// IsDomainCode 判断错误是否为指定错误码的领域错误
func IsDomainCode(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}
