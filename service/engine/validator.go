/*
 * @module service/engine/validator
 * @description 模式驱动的动态校验器，把实体模式解释为对任意负载的类型和约束检查
 * @architecture 解释器模式 - 逐字段解释字段定义并累积结构化错误
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 构建校验器(编译正则) -> 逐字段检查 -> 汇总全部错误明细
 * @rules 校验失败收集全部字段错误后一次性上报，禁止遇到第一个错误就中断
 * @dependencies dynaman-engine/service/models, github.com/google/uuid, github.com/spf13/cast
 * @refs service/engine/record_service.go
 */

package engine

import (
	"encoding/json"
	"fmt"
	"regexp"
	"time"
	"unicode/utf8"

	"dynaman-engine/service/models"

	"github.com/google/uuid"
	"github.com/spf13/cast"
)

// 邮箱格式（HTML5 规范的宽松版本）
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

// Validator 由实体模式构建的负载校验器
type Validator struct {
	schema   *models.SchemaEntity
	patterns map[string]*regexp.Regexp // 字段名 -> 预编译的约束正则
}

// BuildValidator 由实体模式构建校验器，正则约束在构建时编译
// 编译失败的正则记为 nil，校验时对该字段上报 value_error
func BuildValidator(schema *models.SchemaEntity) *Validator {
	patterns := make(map[string]*regexp.Regexp)
	for _, field := range schema.Fields {
		if field.Constraints == nil || field.Constraints.RegexPattern == "" {
			continue
		}
		// 整值匹配，未锚定的模式补齐锚点
		expr := field.Constraints.RegexPattern
		if compiled, err := regexp.Compile("^(?:" + expr + ")$"); err == nil {
			patterns[field.Name] = compiled
		} else {
			patterns[field.Name] = nil
		}
	}
	return &Validator{schema: schema, patterns: patterns}
}

// Validate 校验任意键值负载，返回全部字段错误明细，空切片表示通过
// 负载中模式未声明的多余键被忽略，与旧记录的宽松读取语义保持一致
func (v *Validator) Validate(payload map[string]interface{}) []models.ValidationErrorDetail {
	var details []models.ValidationErrorDetail

	for _, field := range v.schema.Fields {
		value, exists := payload[field.Name]
		if !exists || value == nil {
			// 有默认值的字段可缺省；必填且无默认值的字段缺失即报错
			if field.Default == nil && field.IsRequired {
				details = append(details, models.ValidationErrorDetail{
					Field:  field.Name,
					Issue:  models.IssueFieldMissing,
					Detail: fmt.Sprintf("必填字段 '%s' 缺失", field.Name),
				})
			}
			continue
		}

		details = append(details, v.validateField(field, value)...)
	}

	return details
}

// validateField 校验单个字段值，可能返回多条错误明细
func (v *Validator) validateField(field models.FieldDefinition, value interface{}) []models.ValidationErrorDetail {
	// 枚举约束覆盖基础类型映射，取值必须精确命中枚举列表
	if field.Constraints != nil && len(field.Constraints.EnumList) > 0 {
		s := cast.ToString(value)
		for _, allowed := range field.Constraints.EnumList {
			if s == allowed {
				return nil
			}
		}
		return []models.ValidationErrorDetail{{
			Field:  field.Name,
			Issue:  models.IssueInvalidEnumValue,
			Detail: fmt.Sprintf("取值 '%v' 不在允许的枚举列表内", value),
		}}
	}

	switch field.FieldType {
	case models.FieldTypeString:
		s, ok := value.(string)
		if !ok {
			return v.typeError(field, "字符串")
		}
		return v.checkStringConstraints(field, s)

	case models.FieldTypeNumber:
		n, ok := toFloat(value)
		if !ok {
			return v.typeError(field, "数字")
		}
		return v.checkNumericConstraints(field, n)

	case models.FieldTypeBoolean:
		if _, ok := value.(bool); !ok {
			return v.typeError(field, "布尔值")
		}
		return nil

	case models.FieldTypeEmail:
		s, ok := value.(string)
		if !ok {
			return v.typeError(field, "字符串")
		}
		if !emailPattern.MatchString(s) {
			return []models.ValidationErrorDetail{{
				Field:  field.Name,
				Issue:  models.IssueInvalidEmail,
				Detail: fmt.Sprintf("'%s' 不是合法的邮箱地址", s),
			}}
		}
		return v.checkStringConstraints(field, s)

	case models.FieldTypeDate:
		return v.checkDate(field, value)

	case models.FieldTypeReference:
		s, ok := value.(string)
		if !ok {
			return v.typeError(field, "字符串")
		}
		// 只校验标识符语法，不校验被引用记录是否存在
		if _, err := uuid.Parse(s); err != nil {
			return []models.ValidationErrorDetail{{
				Field:  field.Name,
				Issue:  models.IssueValueError,
				Detail: fmt.Sprintf("'%s' 不是合法的记录标识", s),
			}}
		}
		return nil
	}

	// 未知字段类型按兜底错误处理
	return []models.ValidationErrorDetail{{
		Field:  field.Name,
		Issue:  models.IssueValueError,
		Detail: fmt.Sprintf("不支持的字段类型 '%s'", field.FieldType),
	}}
}

// checkStringConstraints 长度和正则约束，错误全部累积
func (v *Validator) checkStringConstraints(field models.FieldDefinition, s string) []models.ValidationErrorDetail {
	var details []models.ValidationErrorDetail
	c := field.Constraints
	if c == nil {
		return nil
	}

	length := utf8.RuneCountInString(s)
	if c.MinLength != nil && length < *c.MinLength {
		details = append(details, models.ValidationErrorDetail{
			Field:  field.Name,
			Issue:  models.IssueStringTooShort,
			Detail: fmt.Sprintf("长度 %d 小于最小长度 %d", length, *c.MinLength),
		})
	}
	if c.MaxLength != nil && length > *c.MaxLength {
		details = append(details, models.ValidationErrorDetail{
			Field:  field.Name,
			Issue:  models.IssueStringTooLong,
			Detail: fmt.Sprintf("长度 %d 超过最大长度 %d", length, *c.MaxLength),
		})
	}

	if c.RegexPattern != "" {
		pattern, ok := v.patterns[field.Name]
		if !ok || pattern == nil {
			details = append(details, models.ValidationErrorDetail{
				Field:  field.Name,
				Issue:  models.IssueValueError,
				Detail: fmt.Sprintf("正则约束 '%s' 无法编译", c.RegexPattern),
			})
		} else if !pattern.MatchString(s) {
			details = append(details, models.ValidationErrorDetail{
				Field:  field.Name,
				Issue:  models.IssueRegexMismatch,
				Detail: fmt.Sprintf("取值不匹配正则约束 '%s'", c.RegexPattern),
			})
		}
	}

	return details
}

// checkNumericConstraints 数值上下界约束，边界取闭区间
func (v *Validator) checkNumericConstraints(field models.FieldDefinition, n float64) []models.ValidationErrorDetail {
	var details []models.ValidationErrorDetail
	c := field.Constraints
	if c == nil {
		return nil
	}

	if c.MinValue != nil && n < *c.MinValue {
		details = append(details, models.ValidationErrorDetail{
			Field:  field.Name,
			Issue:  models.IssueValueTooLow,
			Detail: fmt.Sprintf("取值 %v 小于最小值 %v", n, *c.MinValue),
		})
	}
	if c.MaxValue != nil && n > *c.MaxValue {
		details = append(details, models.ValidationErrorDetail{
			Field:  field.Name,
			Issue:  models.IssueValueTooHigh,
			Detail: fmt.Sprintf("取值 %v 超过最大值 %v", n, *c.MaxValue),
		})
	}

	return details
}

// checkDate 日期字段接受 time.Time、ISO日期（2006-01-02）或 RFC3339 字符串
func (v *Validator) checkDate(field models.FieldDefinition, value interface{}) []models.ValidationErrorDetail {
	switch d := value.(type) {
	case time.Time:
		return nil
	case string:
		if _, err := time.Parse("2006-01-02", d); err == nil {
			return nil
		}
		if _, err := time.Parse(time.RFC3339, d); err == nil {
			return nil
		}
		return []models.ValidationErrorDetail{{
			Field:  field.Name,
			Issue:  models.IssueInvalidType,
			Detail: fmt.Sprintf("'%s' 不是合法的日期", d),
		}}
	default:
		return v.typeError(field, "日期")
	}
}

// typeError 构造类型不匹配的错误明细
func (v *Validator) typeError(field models.FieldDefinition, expected string) []models.ValidationErrorDetail {
	return []models.ValidationErrorDetail{{
		Field:  field.Name,
		Issue:  models.IssueInvalidType,
		Detail: fmt.Sprintf("'%s' 必须是%s", field.Name, expected),
	}}
}

// toFloat 把各种数值表示归一为 float64，字符串和布尔值不视为数字
func toFloat(value interface{}) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
