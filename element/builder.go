package element

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"heatnet/params"
	"heatnet/symbolic"
	"heatnet/types"
)

// Builder 元件构造器，在元件类型的 Build 中使用。
// 出错后记录第一个错误，后续调用不再生效，由 New 统一返回。
type Builder struct {
	comp     *Component
	explicit params.Tree // 修饰值中显式给出的标量
	err      error
}

// Name 元件名称
func (b *Builder) Name() string { return b.comp.Name }

// Err 已记录的错误
func (b *Builder) Err() error { return b.err }

// Fail 记录配置错误
func (b *Builder) Fail(path, format string, args ...any) {
	if b.err == nil {
		b.err = types.Configf(b.comp.Name, path, format, args...)
	}
}

// Value 读取原始参数
func (b *Builder) Value(name string) params.Value {
	v, ok := b.comp.Params[name]
	if !ok {
		b.Fail(name, "参数未声明")
	}
	return v
}

// IsSet 参数是否已设置
func (b *Builder) IsSet(name string) bool { return b.comp.Params[name].IsSet() }

// Float 读取必需的数值参数，未设置即为配置错误
func (b *Builder) Float(name string) float64 {
	v := b.Value(name)
	if !v.IsSet() {
		b.Fail(name, "参数未设置")
		return math.NaN()
	}
	f, ok := v.Float()
	if !ok {
		b.Fail(name, "参数不是数值: %s", v.Kind())
		return math.NaN()
	}
	return f
}

// FloatOr 读取数值参数，未设置时使用缺省值
func (b *Builder) FloatOr(name string, def float64) float64 {
	if !b.Value(name).IsSet() {
		return def
	}
	return b.Float(name)
}

// Positive 读取必需的正数参数
func (b *Builder) Positive(name string) float64 {
	f := b.Float(name)
	if b.err == nil && !(types.IsUsable(f) && f > 0) {
		b.Fail(name, "必须为有限正数，得到 %g", f)
	}
	return f
}

// Bool 读取布尔参数，未设置为 false
func (b *Builder) Bool(name string) bool {
	v := b.Value(name)
	if !v.IsSet() {
		return false
	}
	f, ok := v.Bool()
	if !ok {
		b.Fail(name, "参数不是布尔值: %s", v.Kind())
	}
	return f
}

// Int 读取非负整数参数
func (b *Builder) Int(name string) int {
	f := b.Float(name)
	if b.err != nil {
		return 0
	}
	if f < 0 || f != math.Trunc(f) {
		b.Fail(name, "必须为非负整数，得到 %g", f)
		return 0
	}
	return int(f)
}

// Derive 记录派生常量；修饰值显式给出的同名参数优先
func (b *Builder) Derive(name string, value float64) float64 {
	if v, ok := b.explicit[name]; ok && v.IsSet() {
		if f, ok := v.Float(); ok {
			value = f
		} else {
			b.Fail(name, "参数不是数值: %s", v.Kind())
		}
	}
	b.comp.derived = append(b.comp.derived, Derived{Name: name, Value: value})
	return value
}

// Port 声明端口，端口类型的全部变量一并创建
func (b *Builder) Port(name string, kind PortKind, dir types.Direction) *Port {
	if b.err != nil {
		return &Port{Name: name, Kind: kind, Direction: dir}
	}
	if _, ok := b.comp.portIndex[name]; ok {
		b.Fail(name, "端口重复声明")
		return b.comp.portIndex[name]
	}
	port, err := NewPort(name, kind, dir)
	if err != nil {
		b.fail(err)
		return &Port{Name: name, Kind: kind, Direction: dir}
	}
	for _, v := range kind.Variables() {
		if err := port.AddVariable(v); err != nil {
			b.fail(err)
			return port
		}
		b.Variable(port.Local(v))
	}
	b.comp.ports = append(b.comp.ports, port)
	b.comp.portIndex[name] = port
	return port
}

// Variable 声明元件变量，返回其符号
func (b *Builder) Variable(local string, opts ...symbolic.Option) symbolic.Sym {
	sym := b.comp.Sym(local)
	if b.err != nil {
		return sym
	}
	if _, ok := b.comp.vars[local]; ok {
		b.Fail(local, "变量重复声明")
		return sym
	}
	v, err := symbolic.NewVariable(b.comp.ID(local), opts...)
	if err != nil {
		b.failAt(local, err)
		return sym
	}
	b.comp.vars[local] = v
	b.comp.varOrder = append(b.comp.varOrder, local)
	return sym
}

// Tune 修改已声明变量的属性
func (b *Builder) Tune(local string, opts ...symbolic.Option) {
	if b.err != nil {
		return
	}
	v, ok := b.comp.vars[local]
	if !ok {
		b.err = &types.ReferenceError{Component: b.comp.Name, Symbol: b.comp.ID(local)}
		return
	}
	v.Apply(opts...)
	if err := v.Validate(); err != nil {
		b.failAt(local, err)
	}
}

// Sym 按局部名引用变量（不检查是否声明）
func (b *Builder) Sym(local string) symbolic.Sym { return b.comp.Sym(local) }

// Equation 加入方程 expr/nominal == 0；尺度必须为有限正数，引用的变量必须已声明
func (b *Builder) Equation(expr symbolic.Expr, nominal float64) {
	if b.err != nil {
		return
	}
	index := len(b.comp.equations)
	if !types.IsUsable(nominal) || nominal <= 0 {
		b.Fail(fmt.Sprintf("equation[%d]", index), "方程尺度必须为有限正数，得到 %g", nominal)
		return
	}
	for _, s := range symbolic.Symbols(expr) {
		local, ok := strings.CutPrefix(s, b.comp.Name+".")
		if !ok || b.comp.vars[local] == nil {
			b.err = &types.ReferenceError{Component: b.comp.Name, Symbol: s}
			return
		}
	}
	if nominal != 1 {
		expr = symbolic.Div(expr, symbolic.Const(nominal))
	}
	b.comp.equations = append(b.comp.equations, symbolic.NewEquation(b.comp.Name, expr))
}

// fail 记录下层错误并补上元件名称
func (b *Builder) fail(err error) {
	if b.err != nil {
		return
	}
	var ce *types.ConfigurationError
	if errors.As(err, &ce) && ce.Asset == "" {
		ce.Asset = b.comp.Name
	}
	b.err = err
}

// failAt 记录下层错误并改写为局部字段路径
func (b *Builder) failAt(path string, err error) {
	var ce *types.ConfigurationError
	if errors.As(err, &ce) {
		ce.Path = path
	}
	b.fail(err)
}

// NonNegative 读取必需的非负参数
func (b *Builder) NonNegative(name string) float64 {
	f := b.Float(name)
	if b.err == nil && !(types.IsUsable(f) && f >= 0) {
		b.Fail(name, "必须为有限非负数，得到 %g", f)
	}
	return f
}

// Floats 读取数值或数值序列参数，未设置时返回 false
func (b *Builder) Floats(name string) ([]float64, bool) {
	v := b.Value(name)
	if !v.IsSet() {
		return nil, false
	}
	if f, ok := v.Float(); ok {
		return []float64{f}, true
	}
	list, ok := v.Floats()
	if !ok {
		b.Fail(name, "参数不是数值序列: %s", v.Kind())
	}
	return list, ok
}

// DerivedValue 读取已派生的常量
func (b *Builder) DerivedValue(name string) (float64, bool) {
	for _, d := range b.comp.derived {
		if d.Name == name {
			return d.Value, true
		}
	}
	return math.NaN(), false
}
