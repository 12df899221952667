package symbolic

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Env 求值环境，键为变量全名；导数使用 "der(名称)" 作为键
type Env map[string]float64

// Expr 表达式节点
type Expr interface {
	String() string                 // 表达式文本
	Eval(env Env) (float64, error)  // 数值求值（仅用于检验）
	walk(fn func(e Expr))           // 遍历子节点
	subst(name string, e Expr) Expr // 符号替换
}

// Const 常量
type Const float64

// Sym 变量引用
type Sym string

// Der 变量的时间导数
type Der struct{ X Sym }

// Unary 一元运算
type Unary struct {
	Op byte // '-' 取负，'s' 开方
	X  Expr
}

// Binary 二元运算
type Binary struct {
	Op   byte // '+' '-' '*' '/'
	L, R Expr
}

// Pow 常数次幂
type Pow struct {
	X Expr
	P float64
}

// String 表达式文本
func (c Const) String() string { return strconv.FormatFloat(float64(c), 'g', -1, 64) }

// String 表达式文本
func (s Sym) String() string { return string(s) }

// String 表达式文本
func (d Der) String() string { return "der(" + string(d.X) + ")" }

// String 表达式文本
func (u Unary) String() string {
	if u.Op == 's' {
		return "sqrt(" + u.X.String() + ")"
	}
	return "-(" + u.X.String() + ")"
}

// String 表达式文本
func (b Binary) String() string {
	return "(" + b.L.String() + " " + string(b.Op) + " " + b.R.String() + ")"
}

// String 表达式文本
func (p Pow) String() string {
	return "(" + p.X.String() + ")^" + strconv.FormatFloat(p.P, 'g', -1, 64)
}

// Eval 求值
func (c Const) Eval(Env) (float64, error) { return float64(c), nil }

// Eval 求值
func (s Sym) Eval(env Env) (float64, error) {
	if v, ok := env[string(s)]; ok {
		return v, nil
	}
	return math.NaN(), fmt.Errorf("变量 %s 未赋值", s)
}

// Eval 求值
func (d Der) Eval(env Env) (float64, error) {
	if v, ok := env[d.String()]; ok {
		return v, nil
	}
	return math.NaN(), fmt.Errorf("导数 %s 未赋值", d)
}

// Eval 求值
func (u Unary) Eval(env Env) (float64, error) {
	x, err := u.X.Eval(env)
	if err != nil {
		return x, err
	}
	if u.Op == 's' {
		return math.Sqrt(x), nil
	}
	return -x, nil
}

// Eval 求值
func (b Binary) Eval(env Env) (float64, error) {
	l, err := b.L.Eval(env)
	if err != nil {
		return l, err
	}
	r, err := b.R.Eval(env)
	if err != nil {
		return r, err
	}
	switch b.Op {
	case '+':
		return l + r, nil
	case '-':
		return l - r, nil
	case '*':
		return l * r, nil
	case '/':
		return l / r, nil
	}
	return math.NaN(), fmt.Errorf("未知运算符 %q", b.Op)
}

// Eval 求值
func (p Pow) Eval(env Env) (float64, error) {
	x, err := p.X.Eval(env)
	if err != nil {
		return x, err
	}
	return math.Pow(x, p.P), nil
}

func (Const) walk(func(Expr)) {}
func (Sym) walk(func(Expr)) {}
func (Der) walk(func(Expr)) {}
func (u Unary) walk(fn func(Expr)) { fn(u.X) }
func (p Pow) walk(fn func(Expr)) { fn(p.X) }
func (b Binary) walk(fn func(Expr)) {
	fn(b.L)
	fn(b.R)
}

func (c Const) subst(string, Expr) Expr { return c }

// 导数只能替换为另一个符号
func (d Der) subst(name string, e Expr) Expr {
	if s, ok := e.(Sym); ok && string(d.X) == name {
		return Der{X: s}
	}
	return d
}

func (s Sym) subst(name string, e Expr) Expr {
	if string(s) == name {
		return e
	}
	return s
}

func (u Unary) subst(name string, e Expr) Expr {
	return Unary{Op: u.Op, X: u.X.subst(name, e)}
}

func (b Binary) subst(name string, e Expr) Expr {
	return Binary{Op: b.Op, L: b.L.subst(name, e), R: b.R.subst(name, e)}
}

func (p Pow) subst(name string, e Expr) Expr {
	return Pow{X: p.X.subst(name, e), P: p.P}
}

// 构造函数

// Add 求和
func Add(a, b Expr, more ...Expr) Expr {
	e := Expr(Binary{Op: '+', L: a, R: b})
	for _, m := range more {
		e = Binary{Op: '+', L: e, R: m}
	}
	return e
}

// Sub 相减
func Sub(a, b Expr) Expr { return Binary{Op: '-', L: a, R: b} }

// Mul 相乘
func Mul(a, b Expr) Expr { return Binary{Op: '*', L: a, R: b} }

// Div 相除
func Div(a, b Expr) Expr { return Binary{Op: '/', L: a, R: b} }

// Scale 乘以常数
func Scale(k float64, e Expr) Expr { return Mul(Const(k), e) }

// Neg 取负
func Neg(e Expr) Expr { return Unary{Op: '-', X: e} }

// Sqrt 开方
func Sqrt(e Expr) Expr { return Unary{Op: 's', X: e} }

// PowOf 常数次幂
func PowOf(e Expr, p float64) Expr { return Pow{X: e, P: p} }

// DerOf 时间导数
func DerOf(s Sym) Expr { return Der{X: s} }

// Sum 多项求和，空列表为 0
func Sum(terms ...Expr) Expr {
	switch len(terms) {
	case 0:
		return Const(0)
	case 1:
		return terms[0]
	}
	return Add(terms[0], terms[1], terms[2:]...)
}

// Symbols 返回表达式中引用的变量（去重、排序），导数引用计入其变量
func Symbols(e Expr) []string {
	set := map[string]struct{}{}
	var visit func(Expr)
	visit = func(x Expr) {
		switch n := x.(type) {
		case Sym:
			set[string(n)] = struct{}{}
		case Der:
			set[string(n.X)] = struct{}{}
		}
		x.walk(visit)
	}
	visit(e)
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Substitute 将符号 name 替换为表达式 with
func Substitute(e Expr, name string, with Expr) Expr {
	return e.subst(name, with)
}
