package types

import (
	"fmt"
	"strings"
)

// ConfigurationError 配置错误：资产或修饰值不合法（类型不符、必需量非正、上下界颠倒、未知键、端口类型不匹配）。
// 属于不可修复的输入缺陷，构建过程立即终止。
type ConfigurationError struct {
	Asset  string // 资产或元件标识
	Path   string // 出错字段路径，使用点号分隔
	Reason string // 错误原因
}

// Error 错误描述
func (e *ConfigurationError) Error() string {
	var b strings.Builder
	b.WriteString("配置错误")
	if e.Asset != "" {
		fmt.Fprintf(&b, " [%s]", e.Asset)
	}
	if e.Path != "" {
		fmt.Fprintf(&b, " %s", e.Path)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	return b.String()
}

// Configf 创建配置错误
func Configf(asset, path, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Asset: asset, Path: path, Reason: fmt.Sprintf(format, args...)}
}

// ReferenceError 方程引用了未声明的变量
type ReferenceError struct {
	Component string // 元件名称
	Symbol    string // 未解析的符号
}

// Error 错误描述
func (e *ReferenceError) Error() string {
	return fmt.Sprintf("引用错误 [%s]: 未声明的变量 %q", e.Component, e.Symbol)
}

// JoinPath 拼接字段路径
func JoinPath(parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ".")
}
