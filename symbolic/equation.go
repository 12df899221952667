package symbolic

// Equation 方程，约束 Expr == 0
type Equation struct {
	Expr   Expr   // 表达式
	Origin string // 来源（元件名称或连接描述）
}

// NewEquation 创建方程，不做求值
func NewEquation(origin string, e Expr) Equation {
	return Equation{Expr: e, Origin: origin}
}

// Symbols 引用的变量
func (eq Equation) Symbols() []string { return Symbols(eq.Expr) }

// Residual 残差
func (eq Equation) Residual(env Env) (float64, error) { return eq.Expr.Eval(env) }

// String 方程文本
func (eq Equation) String() string { return eq.Expr.String() + " = 0" }
