package errors

import (
	"errors"
	"fmt"
)

// StoreFault 外部存储追加失败（鉴权、网络或存储侧拒绝）
// 不重试，由调用方决定如何呈现
type StoreFault struct {
	Store string // sheets / xlsx / postgres
	Op    string
	Err   error
}

func (e *StoreFault) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Store, e.Op, e.Err)
}

func (e *StoreFault) Unwrap() error { return e.Err }

// NewStoreFault 包装存储错误；err 为 nil 时返回 nil
func NewStoreFault(store, op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreFault{Store: store, Op: op, Err: err}
}

// IsStoreFault 判断错误链中是否包含 StoreFault
func IsStoreFault(err error) bool {
	var sf *StoreFault
	return errors.As(err, &sf)
}

// FieldError 单个字段违反采集约束
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Reason
}
