package types

import "math"

// 物理常量定义
const (
	GravitationalConstant = 9.81   // 重力加速度 [m/s2]
	ShadowOffset          = 1.0e-3 // 影子流量偏移，用于打破流向符号退化，数值不可修改
)

// 默认参数定义，元件构造时作为缺省修饰值使用
var (
	DefaultFrictionFactor        = 0.02   // 管道摩擦系数（占位模型，0.05-2.5m/s、20mm-1200mm 管径的量级）
	DefaultResistanceCoefficient = 1.0e-6 // 单位长度阻力系数（临时值）
	DefaultDeltaTemperature      = 30.0   // 未给定供回水温度时使用的温差 [K]
	DefaultGroundTemperature     = 10.0   // 土壤温度 [°C]
	DefaultHeatDensity           = 988.0  // 水密度 [kg/m3]
	DefaultHeatCapacity          = 4200.0 // 水比热容 [J/(kg K)]
	DefaultGasDensity            = 2.5e3  // 燃气密度 [g/m3]
	DefaultNominalHead           = 30.0   // 额定扬程 [m]
	DefaultNominal               = 1.0    // 变量缺省尺度
)

// IsUsable 判断数值是否有限
func IsUsable(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
