package symbolic

import (
	"math"
	"sort"
)

// Propagate 代入传播：反复寻找只含一个未知量且关于该未知量线性的方程，解出该未知量。
// 用于在不调用数值求解器的情况下验证守恒关系。返回包含已知量与推导量的新环境。
func Propagate(equations []Equation, known Env) Env {
	env := make(Env, len(known))
	for k, v := range known {
		env[k] = v
	}
	for progress := true; progress; {
		progress = false
		for _, eq := range equations {
			unknown := unknownKeys(eq.Expr, env)
			if len(unknown) != 1 {
				continue
			}
			if v, ok := solveLinear(eq.Expr, env, unknown[0]); ok {
				env[unknown[0]] = v
				progress = true
			}
		}
	}
	return env
}

// unknownKeys 表达式中尚未赋值的键（变量名或 der(变量名)）
func unknownKeys(e Expr, env Env) []string {
	set := map[string]struct{}{}
	var visit func(Expr)
	visit = func(x Expr) {
		var key string
		switch n := x.(type) {
		case Sym:
			key = string(n)
		case Der:
			key = n.String()
		}
		if key != "" {
			if _, ok := env[key]; !ok {
				set[key] = struct{}{}
			}
		}
		x.walk(visit)
	}
	visit(e)
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// solveLinear 将表达式化为 a·key + b 并求根；关于 key 非线性时返回 false
func solveLinear(e Expr, env Env, key string) (float64, bool) {
	a, b, ok := affine(e, env, key)
	if !ok || a == 0 || math.IsNaN(a) || math.IsInf(a, 0) || math.IsNaN(b) || math.IsInf(b, 0) {
		return 0, false
	}
	return -b / a, true
}

// affine 逐节点求一次系数 a 与常数项 b
func affine(e Expr, env Env, key string) (a, b float64, ok bool) {
	switch n := e.(type) {
	case Const:
		return 0, float64(n), true
	case Sym, Der:
		if n.String() == key {
			return 1, 0, true
		}
		v, err := n.Eval(env)
		return 0, v, err == nil
	case Unary:
		a, b, ok = affine(n.X, env, key)
		if !ok {
			return 0, 0, false
		}
		if n.Op == 's' {
			return 0, math.Sqrt(b), a == 0
		}
		return -a, -b, true
	case Pow:
		a, b, ok = affine(n.X, env, key)
		switch {
		case !ok:
			return 0, 0, false
		case a == 0:
			return 0, math.Pow(b, n.P), true
		case n.P == 1:
			return a, b, true
		}
		return 0, 0, false
	case Binary:
		la, lb, lok := affine(n.L, env, key)
		ra, rb, rok := affine(n.R, env, key)
		if !lok || !rok {
			return 0, 0, false
		}
		switch n.Op {
		case '+':
			return la + ra, lb + rb, true
		case '-':
			return la - ra, lb - rb, true
		case '*':
			switch {
			case la == 0:
				return lb * ra, lb * rb, true
			case ra == 0:
				return la * rb, lb * rb, true
			}
		case '/':
			if ra == 0 && rb != 0 {
				return la / rb, lb / rb, true
			}
		}
	}
	return 0, 0, false
}
