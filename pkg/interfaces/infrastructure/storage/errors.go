package storage

import "errors"

// ErrKeyNotFound 键不存在
//
// 各实现统一映射到此哨兵错误，调用方用 errors.Is 判断。
var ErrKeyNotFound = errors.New("storage: key not found")
