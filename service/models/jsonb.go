package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// JSONB 记录内容使用的通用 JSON 类型，字段名到值的映射
type JSONB map[string]interface{}

// 实现 Scanner 接口
func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("类型断言失败: 不是 []byte 或 string")
	}
	return json.Unmarshal(bytes, j)
}

// 实现 Valuer 接口
// 以 string 形式写入，保证 PostgreSQL jsonb 和 SQLite json 函数都能直接处理
func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	data, err := json.Marshal(j)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Clone 深拷贝一份内容，填充默认值时避免修改原始数据
func (j JSONB) Clone() JSONB {
	if j == nil {
		return nil
	}
	cloned := make(JSONB, len(j))
	for k, v := range j {
		cloned[k] = v
	}
	return cloned
}
