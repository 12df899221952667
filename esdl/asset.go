// Package esdl 将已解析的网络描述资产转换为元件类型与修饰值，并提取端口拓扑。
package esdl

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"heatnet/params"
	"heatnet/types"
)

// validate 校验器单例
var validate = validator.New()

// PortKind 资产端口方向
type PortKind string

// 资产端口方向常量定义
const (
	PortIn  PortKind = "in"
	PortOut PortKind = "out"
)

// Direction 端口在连接上的方向
func (k PortKind) Direction() types.Direction {
	if k == PortOut {
		return types.DirectionOut
	}
	return types.DirectionIn
}

// AssetPort 资产端口
type AssetPort struct {
	ID          string   `yaml:"id" validate:"required"`
	Kind        PortKind `yaml:"kind" validate:"required,oneof=in out"`
	Carrier     string   `yaml:"carrier" validate:"required"`
	ConnectedTo []string `yaml:"connectedTo" validate:"dive,required"`
}

// Carrier 能源载体
type Carrier struct {
	ID          string          `yaml:"id" validate:"required"`
	Name        string          `yaml:"name"`
	Commodity   types.Commodity `yaml:"commodity" validate:"required,oneof=heat gas electricity"`
	Temperature float64         `yaml:"temperature"`
	Pressure    float64         `yaml:"pressure" validate:"gte=0"`
	Voltage     float64         `yaml:"voltage" validate:"gte=0"`
}

// Asset 网络描述中的一个物理元件
type Asset struct {
	ID         string      `yaml:"id" validate:"required"`
	Name       string      `yaml:"name" validate:"required"`
	AssetType  string      `yaml:"type" validate:"required"`
	Attributes params.Tree `yaml:"attributes"`
	Ports      []AssetPort `yaml:"ports" validate:"required,min=1,dive"`
}

// Float 读取数值属性
func (a *Asset) Float(name string) (float64, bool) { return a.Attributes.Float(name) }

// Document 已解析的网络描述
type Document struct {
	Carriers []Carrier `yaml:"carriers" validate:"dive"`
	Assets   []Asset   `yaml:"assets" validate:"required,min=1,dive"`

	carriers map[string]*Carrier
	assets   map[string]*Asset
	ports    map[string]*Asset
}

// LoadFile 从 YAML 文件读取网络描述
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开网络描述 %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Load 读取并校验网络描述
func Load(r io.Reader) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("解析网络描述: %w", err)
	}
	if err := doc.Index(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Index 校验字段并建立索引；直接构造的文档使用前必须调用
func (doc *Document) Index() error {
	if err := validate.Struct(doc); err != nil {
		return formatValidationError(err)
	}
	doc.carriers = make(map[string]*Carrier, len(doc.Carriers))
	doc.assets = make(map[string]*Asset, len(doc.Assets))
	doc.ports = map[string]*Asset{}
	for i := range doc.Carriers {
		c := &doc.Carriers[i]
		if _, ok := doc.carriers[c.ID]; ok {
			return types.Configf(c.ID, "carriers", "载体重复")
		}
		doc.carriers[c.ID] = c
	}
	names := map[string]struct{}{}
	for i := range doc.Assets {
		a := &doc.Assets[i]
		if _, ok := doc.assets[a.ID]; ok {
			return types.Configf(a.ID, "id", "资产标识重复")
		}
		if _, ok := names[a.Name]; ok {
			return types.Configf(a.ID, "name", "资产名称重复: %s", a.Name)
		}
		doc.assets[a.ID] = a
		names[a.Name] = struct{}{}
		for j, p := range a.Ports {
			if _, ok := doc.carriers[p.Carrier]; !ok {
				return types.Configf(a.ID, fmt.Sprintf("ports[%d].carrier", j), "未知载体 %q", p.Carrier)
			}
			if _, ok := doc.ports[p.ID]; ok {
				return types.Configf(a.ID, fmt.Sprintf("ports[%d].id", j), "端口标识重复: %s", p.ID)
			}
			doc.ports[p.ID] = a
		}
	}
	for i := range doc.Assets {
		a := &doc.Assets[i]
		for j, p := range a.Ports {
			for k, target := range p.ConnectedTo {
				if _, ok := doc.ports[target]; !ok {
					return types.Configf(a.ID, fmt.Sprintf("ports[%d].connectedTo[%d]", j, k), "未知端口 %q", target)
				}
			}
		}
	}
	return nil
}

// Asset 按标识查找资产
func (doc *Document) Asset(id string) (*Asset, bool) {
	a, ok := doc.assets[id]
	return a, ok
}

// Carrier 按标识查找载体
func (doc *Document) Carrier(id string) (*Carrier, bool) {
	c, ok := doc.carriers[id]
	return c, ok
}

// PortOwner 端口所属资产
func (doc *Document) PortOwner(portID string) (*Asset, bool) {
	a, ok := doc.ports[portID]
	return a, ok
}

// Commodity 资产的能源介质，取第一个端口的载体
func (doc *Document) Commodity(a *Asset) types.Commodity {
	if len(a.Ports) == 0 {
		return ""
	}
	if c, ok := doc.carriers[a.Ports[0].Carrier]; ok {
		return c.Commodity
	}
	return ""
}

// IsReturn 按命名约定判断是否为回水侧
func IsReturn(name string) bool { return strings.Contains(name, "_ret") }

// formatValidationError 将校验错误转换为配置错误
func formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	for _, e := range validationErrs {
		path := strings.TrimPrefix(e.Namespace(), "Document.")
		switch e.Tag() {
		case "required":
			return types.Configf("", path, "字段必填")
		case "oneof":
			return types.Configf("", path, "取值必须是 %s 之一", e.Param())
		case "min":
			return types.Configf("", path, "至少需要 %s 项", e.Param())
		default:
			return types.Configf("", path, "校验失败 (%s)", e.Tag())
		}
	}
	return err
}
