/*
 * @module service/engine/query_parser
 * @description 查询过滤器翻译，把带操作符后缀的查询参数翻译为结构化过滤子句
 * @architecture 翻译器模式 - 查询参数到存储过滤条件的映射
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 后缀解析 -> 按模式字段类型转换取值 -> 输出AND组合的过滤子句
 * @rules 类型转换尽力而为，转换失败静默回退原始字符串，不作为错误上报
 * @dependencies github.com/spf13/cast
 * @refs service/engine/record_store.go
 */

package engine

import (
	"math"
	"sort"
	"strings"

	"github.com/spf13/cast"
)

// 过滤操作符
const (
	FilterOpEq       = "eq"
	FilterOpGt       = "gt"
	FilterOpLt       = "lt"
	FilterOpContains = "contains"
)

// FilterClause 单个过滤子句，多个子句之间为AND语义
type FilterClause struct {
	Field string
	Op    string
	Value interface{}
}

// ParseFilters 把扁平的查询参数翻译为过滤子句列表
//
// 支持的操作符后缀:
//   - _eq: 等于
//   - _gt: 大于
//   - _lt: 小于
//   - _contains: 忽略大小写的子串匹配
//
// 无后缀的键按字面字段名做等值匹配。提供字段类型映射时，number 字段
// 解析为浮点数（无小数部分时降为整数），boolean 字段按忽略大小写与
// "true" 比较；转换失败保留原始字符串。
//
// 示例:
//
//	输入: {"age_gt": "18", "name_contains": "john"}, 类型映射 {"age": "number"}
//	输出: [{age gt 18} {name contains john}]
func ParseFilters(queryParams map[string]string, fieldTypeMap map[string]string) []FilterClause {
	if len(queryParams) == 0 {
		return nil
	}

	// 按键排序保证子句顺序稳定
	keys := make([]string, 0, len(queryParams))
	for k := range queryParams {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	clauses := make([]FilterClause, 0, len(keys))
	for _, key := range keys {
		value := queryParams[key]
		field := key
		op := FilterOpEq

		switch {
		case strings.HasSuffix(key, "_eq"):
			field = strings.TrimSuffix(key, "_eq")
			op = FilterOpEq
		case strings.HasSuffix(key, "_gt"):
			field = strings.TrimSuffix(key, "_gt")
			op = FilterOpGt
		case strings.HasSuffix(key, "_lt"):
			field = strings.TrimSuffix(key, "_lt")
			op = FilterOpLt
		case strings.HasSuffix(key, "_contains"):
			field = strings.TrimSuffix(key, "_contains")
			op = FilterOpContains
		}

		clauses = append(clauses, FilterClause{
			Field: field,
			Op:    op,
			Value: coerceValue(value, field, fieldTypeMap),
		})
	}

	return clauses
}

// coerceValue 按模式声明的字段类型转换取值，失败回退原始字符串
func coerceValue(value, field string, fieldTypeMap map[string]string) interface{} {
	if fieldTypeMap == nil {
		return value
	}

	switch fieldTypeMap[field] {
	case "number":
		f, err := cast.ToFloat64E(value)
		if err != nil {
			// 已知的宽松行为：转换失败不报错，保留原始值
			return value
		}
		if f == math.Trunc(f) {
			return int64(f)
		}
		return f
	case "boolean":
		return strings.EqualFold(value, "true")
	default:
		return value
	}
}
