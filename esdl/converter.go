package esdl

import (
	"fmt"
	"slices"
	"sort"

	"go.uber.org/zap"

	"heatnet/params"
	"heatnet/types"
)

// Options 转换参数
type Options struct {
	VNominal              float64 // 热网管道额定流速 m/s
	VMax                  float64 // 热网管道最大流速 m/s
	GasVMax               float64 // 燃气管道最大流速 m/s
	Rho                   float64 // 水密度 kg/m3
	Cp                    float64 // 水比热 J/(kg·K)
	FrictionFactor        float64 // 管道摩擦系数（占位常数）
	ResistanceCoefficient float64 // 单位长度阻力系数（占位常数）
}

// DefaultOptions 缺省转换参数
func DefaultOptions() Options {
	return Options{
		VNominal:              1.0,
		VMax:                  5.0,
		GasVMax:               15.0,
		Rho:                   types.DefaultHeatDensity,
		Cp:                    types.DefaultHeatCapacity,
		FrictionFactor:        types.DefaultFrictionFactor,
		ResistanceCoefficient: types.DefaultResistanceCoefficient,
	}
}

// Rule 单个资产类型的转换规则
type Rule func(c *Converter, doc *Document, a *Asset) (types.ComponentType, params.Tree, error)

type ruleKey struct {
	assetType string
	commodity types.Commodity
}

// Converted 转换结果
type Converted struct {
	Asset     *Asset
	Name      string
	Type      types.ComponentType
	Modifiers params.Tree
}

// Converter 资产转换器
type Converter struct {
	Options      Options
	Temperatures TemperatureProvider

	logger   *zap.Logger
	rules    map[ruleKey]Rule
	qNominal map[string]float64 // 管道资产标识 → 额定流量
}

// Option 转换器选项
type Option func(*Converter)

// WithLogger 设置日志
func WithLogger(logger *zap.Logger) Option { return func(c *Converter) { c.logger = logger } }

// WithTemperatures 设置温度制度提供者
func WithTemperatures(p TemperatureProvider) Option {
	return func(c *Converter) { c.Temperatures = p }
}

// WithOptions 设置转换参数
func WithOptions(o Options) Option { return func(c *Converter) { c.Options = o } }

// NewConverter 创建带全部内置规则的转换器
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		Options:      DefaultOptions(),
		Temperatures: CarrierTemperatures{},
		logger:       zap.NewNop(),
		rules:        map[ruleKey]Rule{},
	}
	for _, opt := range opts {
		opt(c)
	}
	registerHeatRules(c)
	registerGasRules(c)
	registerElectricityRules(c)
	return c
}

// Register 注册转换规则，同一资产类型与介质只能注册一次
func (c *Converter) Register(commodity types.Commodity, rule Rule, assetTypes ...string) {
	for _, t := range assetTypes {
		key := ruleKey{t, commodity}
		if _, ok := c.rules[key]; ok {
			panic(fmt.Sprintf("转换规则重复注册: %s/%s", commodity, t))
		}
		c.rules[key] = rule
	}
}

// Convert 按资产标识排序转换全部资产；管道先转换，其余资产可读取相连管道的额定流量
func (c *Converter) Convert(doc *Document) ([]Converted, error) {
	assets := make([]*Asset, len(doc.Assets))
	for i := range doc.Assets {
		assets[i] = &doc.Assets[i]
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].ID < assets[j].ID })

	c.qNominal = map[string]float64{}
	out := make([]Converted, len(assets))
	done := make([]bool, len(assets))
	for _, pipesFirst := range []bool{true, false} {
		for i, a := range assets {
			if done[i] || (a.AssetType == "Pipe") != pipesFirst {
				continue
			}
			conv, err := c.ConvertAsset(doc, a)
			if err != nil {
				return nil, err
			}
			out[i], done[i] = conv, true
		}
	}
	return out, nil
}

// ConvertAsset 转换单个资产
func (c *Converter) ConvertAsset(doc *Document, a *Asset) (Converted, error) {
	commodity := doc.Commodity(a)
	rule, ok := c.rules[ruleKey{a.AssetType, commodity}]
	if !ok {
		return Converted{}, types.Configf(a.ID, "type", "不支持的资产类型 %s（%s）", a.AssetType, commodity)
	}
	eleType, modifiers, err := rule(c, doc, a)
	if err != nil {
		return Converted{}, err
	}
	c.logger.Debug("资产转换",
		zap.String("asset", a.ID),
		zap.String("name", a.Name),
		zap.String("assetType", a.AssetType),
		zap.Stringer("component", eleType),
		zap.Int("modifiers", len(modifiers)))
	return Converted{Asset: a, Name: a.Name, Type: eleType, Modifiers: modifiers}, nil
}

// expectType 断言资产类型
func expectType(a *Asset, allowed ...string) error {
	if !slices.Contains(allowed, a.AssetType) {
		return types.Configf(a.ID, "type", "资产类型 %s 不是 %v 之一", a.AssetType, allowed)
	}
	return nil
}

// positive 读取必需的正数属性
func positive(a *Asset, name string) (float64, error) {
	v, ok := a.Float(name)
	if !ok {
		return 0, types.Configf(a.ID, types.JoinPath("attributes", name), "缺少必需属性")
	}
	if !types.IsUsable(v) || v <= 0 {
		return 0, types.Configf(a.ID, types.JoinPath("attributes", name), "必须为正数，得到 %g", v)
	}
	return v, nil
}

// nonNegative 读取必需的非负属性
func nonNegative(a *Asset, name string) (float64, error) {
	v, ok := a.Float(name)
	if !ok {
		return 0, types.Configf(a.ID, types.JoinPath("attributes", name), "缺少必需属性")
	}
	if !types.IsUsable(v) || v < 0 {
		return 0, types.Configf(a.ID, types.JoinPath("attributes", name), "不能为负数，得到 %g", v)
	}
	return v, nil
}

// connectedQNominal 相连管道的额定流量（取最大值）
func (c *Converter) connectedQNominal(doc *Document, a *Asset) (float64, bool) {
	found, best := false, 0.0
	for _, p := range a.Ports {
		for _, target := range p.ConnectedTo {
			owner, ok := doc.PortOwner(target)
			if !ok {
				continue
			}
			if q, ok := c.qNominal[owner.ID]; ok && (!found || q > best) {
				found, best = true, q
			}
		}
	}
	if !found {
		c.logger.Debug("未连接管道，额定流量使用缺省值", zap.String("asset", a.ID))
	}
	return best, found
}

// withConnectedQNominal 相连管道存在时加入 Q_nominal
func (c *Converter) withConnectedQNominal(doc *Document, a *Asset, mod params.Tree) params.Tree {
	if q, ok := c.connectedQNominal(doc, a); ok {
		mod["Q_nominal"] = params.Scalar(q)
	}
	return mod
}

// jointArity 节点相连的入口与出口连接总数
func jointArity(a *Asset) int {
	n := 0
	for _, p := range a.Ports {
		n += len(p.ConnectedTo)
	}
	return n
}

// attrs 变量属性映射
func attrs(kv map[string]float64) params.Value {
	t := make(params.Tree, len(kv))
	for k, v := range kv {
		t[k] = params.Scalar(v)
	}
	return params.Mapping(t)
}
