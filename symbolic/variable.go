// Package symbolic 提供符号变量、表达式树与方程。
// 方程只表示 expr == 0 的约束，求值与求解交给外部求解器。
package symbolic

import (
	"math"

	"heatnet/types"
)

// Variable 符号变量
type Variable struct {
	Name       string   // 变量全名（元件.端口.变量）
	Nominal    float64  // 尺度，仅用于缩放，不是物理界限
	Min        float64  // 下界
	Max        float64  // 上界
	Fixed      *float64 // 固定值
	nominalSet bool     // 是否显式给出尺度
}

// Option 变量属性选项
type Option func(v *Variable)

// WithMin 设置下界
func WithMin(value float64) Option { return func(v *Variable) { v.Min = value } }

// WithMax 设置上界
func WithMax(value float64) Option { return func(v *Variable) { v.Max = value } }

// WithNominal 设置尺度
func WithNominal(nominal float64) Option {
	return func(v *Variable) {
		v.Nominal = nominal
		v.nominalSet = true
	}
}

// WithFixed 设置固定值
func WithFixed(value float64) Option {
	return func(v *Variable) {
		fixed := value
		v.Fixed = &fixed
	}
}

// NewVariable 创建变量并校验属性
func NewVariable(name string, opts ...Option) (*Variable, error) {
	v := &Variable{
		Name:    name,
		Nominal: types.DefaultNominal,
		Min:     math.Inf(-1),
		Max:     math.Inf(1),
	}
	v.Apply(opts...)
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return v, nil
}

// Apply 应用属性选项，不做校验
func (v *Variable) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(v)
	}
}

// NominalSet 是否显式给出尺度
func (v *Variable) NominalSet() bool { return v.nominalSet }

// Validate 校验上下界与尺度
func (v *Variable) Validate() error {
	if math.IsNaN(v.Min) || math.IsNaN(v.Max) {
		return types.Configf("", v.Name, "上下界不能为 NaN")
	}
	if v.Min > v.Max {
		return types.Configf("", v.Name, "下界 %g 大于上界 %g", v.Min, v.Max)
	}
	if !types.IsUsable(v.Nominal) || v.Nominal <= 0 {
		return types.Configf("", v.Name, "尺度必须为有限正数，得到 %g", v.Nominal)
	}
	if v.Fixed != nil && !types.IsUsable(*v.Fixed) {
		return types.Configf("", v.Name, "固定值必须为有限数")
	}
	return nil
}

// Clone 复制变量
func (v *Variable) Clone() *Variable {
	c := *v
	if v.Fixed != nil {
		fixed := *v.Fixed
		c.Fixed = &fixed
	}
	return &c
}

// Sym 引用该变量的符号
func (v *Variable) Sym() Sym { return Sym(v.Name) }
