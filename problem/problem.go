// Package problem 组合求解侧的目标与约束。
// 目标、约束与温度策略各自独立，通过 Config 显式组合。
package problem

import (
	"fmt"
	"math"
	"slices"

	"heatnet/esdl"
	"heatnet/symbolic"
	"heatnet/system"
)

// Range 目标区间
type Range struct {
	Min float64
	Max float64
}

// Goal 优化目标：有 Target 时将 Expr 拉入区间，否则最小化 Expr
type Goal struct {
	Name     string
	Expr     symbolic.Expr
	Target   *Range
	Priority int     // 越小越优先
	Nominal  float64 // 目标函数尺度
}

// Constraint 约束 Min <= Expr <= Max
type Constraint struct {
	Origin string
	Expr   symbolic.Expr
	Min    float64
	Max    float64
}

// GoalBuilder 目标生成策略
type GoalBuilder interface {
	Goals(sys *system.System) ([]Goal, error)
}

// ConstraintBuilder 约束生成策略
type ConstraintBuilder interface {
	Constraints(sys *system.System) ([]Constraint, error)
}

// Config 问题配置
type Config struct {
	Goals        []GoalBuilder
	Constraints  []ConstraintBuilder
	Temperatures esdl.TemperatureProvider // 资产转换使用的温度制度
}

// Problem 交给求解器的完整问题
type Problem struct {
	System      *system.System
	Goals       []Goal
	Constraints []Constraint
}

// Build 依次执行各策略
func Build(sys *system.System, config Config) (*Problem, error) {
	p := &Problem{System: sys}
	for i, builder := range config.Goals {
		goals, err := builder.Goals(sys)
		if err != nil {
			return nil, fmt.Errorf("目标 %d: %w", i, err)
		}
		p.Goals = append(p.Goals, goals...)
	}
	for i, builder := range config.Constraints {
		cons, err := builder.Constraints(sys)
		if err != nil {
			return nil, fmt.Errorf("约束 %d: %w", i, err)
		}
		p.Constraints = append(p.Constraints, cons...)
	}
	for _, goal := range p.Goals {
		if err := checkSymbols(sys, goal.Name, goal.Expr); err != nil {
			return nil, err
		}
	}
	for _, c := range p.Constraints {
		if err := checkSymbols(sys, c.Origin, c.Expr); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Objective 某优先级上所有最小化目标之和
func (p *Problem) Objective(priority int) symbolic.Expr {
	var terms []symbolic.Expr
	for _, goal := range p.Goals {
		if goal.Priority == priority && goal.Target == nil {
			terms = append(terms, goal.Expr)
		}
	}
	return symbolic.Sum(terms...)
}

// Priorities 出现过的优先级（升序）
func (p *Problem) Priorities() []int {
	seen := map[int]bool{}
	var out []int
	for _, goal := range p.Goals {
		if !seen[goal.Priority] {
			seen[goal.Priority] = true
			out = append(out, goal.Priority)
		}
	}
	slices.Sort(out)
	return out
}

// lowestPriority 最后处理的目标优先级
const lowestPriority = math.MaxInt32
