package system

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/mat"

	"heatnet/symbolic"
)

// Incidence 方程 × 变量的关联矩阵，方程引用变量处为 1
func (sys *System) Incidence() *mat.Dense {
	if len(sys.Equations) == 0 || len(sys.Variables) == 0 {
		return &mat.Dense{}
	}
	m := mat.NewDense(len(sys.Equations), len(sys.Variables), nil)
	for i, eq := range sys.Equations {
		for _, s := range eq.Symbols() {
			if j, ok := sys.index[s]; ok {
				m.Set(i, j, 1)
			}
		}
	}
	return m
}

// Residuals 在给定取值下计算每个方程的残差
func (sys *System) Residuals(env symbolic.Env) ([]float64, error) {
	out := make([]float64, len(sys.Equations))
	for i, eq := range sys.Equations {
		r, err := eq.Residual(env)
		if err != nil {
			return nil, fmt.Errorf("方程 %d (%s): %w", i, eq.Origin, err)
		}
		out[i] = r
	}
	return out, nil
}

// variableRow 变量表的一行
type variableRow struct {
	Name    string  `csv:"name"`
	Min     float64 `csv:"min"`
	Max     float64 `csv:"max"`
	Nominal float64 `csv:"nominal"`
	Fixed   string  `csv:"fixed"`
}

// WriteVariablesCSV 输出变量表
func (sys *System) WriteVariablesCSV(w io.Writer) error {
	rows := make([]*variableRow, len(sys.Variables))
	for i, v := range sys.Variables {
		rows[i] = &variableRow{Name: v.Name, Min: v.Min, Max: v.Max, Nominal: v.Nominal}
		if v.Fixed != nil {
			rows[i].Fixed = strconv.FormatFloat(*v.Fixed, 'g', -1, 64)
		}
	}
	return gocsv.Marshal(rows, w)
}

// WriteEquations 按行输出方程文本
func (sys *System) WriteEquations(w io.Writer) error {
	for _, eq := range sys.Equations {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", eq.Origin, eq); err != nil {
			return err
		}
	}
	return nil
}
