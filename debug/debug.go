// Package debug 方程组尺度诊断
package debug

import (
	"fmt"
	"io"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"heatnet/system"
)

// Record 尺度统计
type Record struct {
	Names    []string  // 变量名
	Exponent []float64 // log10(尺度)
	Min      float64   // 最小指数
	Max      float64   // 最大指数
}

// Init 统计方程组中全部变量的尺度
func (r *Record) Init(sys *system.System) {
	r.Names = r.Names[:0]
	r.Exponent = r.Exponent[:0]
	for _, v := range sys.Variables {
		r.Names = append(r.Names, v.Name)
		r.Exponent = append(r.Exponent, math.Log10(v.Nominal))
	}
	r.Min, r.Max = 0, 0
	if len(r.Exponent) > 0 {
		r.Min, r.Max = floats.Min(r.Exponent), floats.Max(r.Exponent)
	}
}

// Spread 尺度跨越的数量级
func (r *Record) Spread() float64 { return r.Max - r.Min }

// Plot 尺度指数直方图
func (r *Record) Plot(bins int) (*plot.Plot, error) {
	if len(r.Exponent) == 0 {
		return nil, fmt.Errorf("没有变量")
	}
	if bins < 1 {
		bins = 1
	}
	p := plot.New()
	p.Title.Text = "nominal spread"
	p.X.Label.Text = "log10(nominal)"
	p.Y.Label.Text = "variables"
	hist, err := plotter.NewHist(plotter.Values(r.Exponent), bins)
	if err != nil {
		return nil, err
	}
	p.Add(hist)
	return p, nil
}

// Render 输出直方图，format 为 png、svg、pdf 等
func (r *Record) Render(w io.Writer, format string) error {
	p, err := r.Plot(20)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(16*vg.Centimeter, 10*vg.Centimeter, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}
