// Package heatnet 由资产描述构建能源网络的展平方程组。
package heatnet

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"heatnet/element"
	"heatnet/esdl"
	"heatnet/graph"
	"heatnet/problem"
	"heatnet/system"

	_ "heatnet/element/all"
)

// Network 能源网络
type Network struct {
	Document *esdl.Document
	Options  esdl.Options   // 资产转换常量
	Assembly system.Options // 装配选项
	Problem  problem.Config // 目标与约束
	Workers  int            // 并行构造的元件数上限，0 为不限
	Logger   *zap.Logger
}

// NewNetwork 初始化
func NewNetwork(doc *esdl.Document) *Network {
	return &Network{Document: doc, Options: esdl.DefaultOptions(), Logger: zap.NewNop()}
}

// Load 加载资产文件
func Load(filename string) (*Network, error) {
	doc, err := esdl.LoadFile(filename)
	if err != nil {
		return nil, err
	}
	return NewNetwork(doc), nil
}

// Result 构建结果
type Result struct {
	Converted  []esdl.Converted
	Components []*element.Component // 与 Converted 一一对应（按资产标识排序）
	Graph      *graph.Graph
	System     *system.System
	Problem    *problem.Problem
}

// Build 资产转换 → 并行构造元件 → 连接 → 装配 → 组合问题
func (n *Network) Build(ctx context.Context) (*Result, error) {
	logger := n.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := []esdl.Option{esdl.WithOptions(n.Options), esdl.WithLogger(logger)}
	if n.Problem.Temperatures != nil {
		opts = append(opts, esdl.WithTemperatures(n.Problem.Temperatures))
	}
	converted, err := esdl.NewConverter(opts...).Convert(n.Document)
	if err != nil {
		return nil, err
	}

	res := &Result{Converted: converted, Components: make([]*element.Component, len(converted))}
	group, gctx := errgroup.WithContext(ctx)
	if n.Workers > 0 {
		group.SetLimit(n.Workers)
	}
	for i, conv := range converted {
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			comp, err := element.New(conv.Type, conv.Name, conv.Modifiers)
			if err != nil {
				return fmt.Errorf("资产 %s: %w", conv.Asset.ID, err)
			}
			res.Components[i] = comp
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	topo, err := esdl.Topology(n.Document, converted)
	if err != nil {
		return nil, err
	}
	if res.Graph, err = graph.NewGraph(res.Components, topo); err != nil {
		return nil, err
	}
	assembly := n.Assembly
	if assembly.Logger == nil {
		assembly.Logger = logger
	}
	if res.System, err = system.Assemble(res.Graph, assembly); err != nil {
		return nil, err
	}
	if res.Problem, err = problem.Build(res.System, n.Problem); err != nil {
		return nil, err
	}
	logger.Info("网络构建完成",
		zap.Int("assets", len(converted)),
		zap.Int("wires", len(res.Graph.Nodes)),
		zap.Int("goals", len(res.Problem.Goals)),
		zap.Int("constraints", len(res.Problem.Constraints)),
	)
	return res, nil
}
