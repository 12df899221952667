// Package config 运行配置：缺省值、YAML 文件、HEATNET_ 环境变量与命令行参数，优先级依次升高。
package config

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"heatnet/esdl"
	"heatnet/problem"
	"heatnet/system"
	"heatnet/types"
)

var validate = validator.New()

// Physics 资产转换使用的物理常量
type Physics struct {
	VNominal              float64 `mapstructure:"v_nominal" validate:"gt=0"`
	VMax                  float64 `mapstructure:"v_max" validate:"gt=0,gtefield=VNominal"`
	GasVMax               float64 `mapstructure:"gas_v_max" validate:"gt=0"`
	Rho                   float64 `mapstructure:"rho" validate:"gt=0"`
	Cp                    float64 `mapstructure:"cp" validate:"gt=0"`
	FrictionFactor        float64 `mapstructure:"friction_factor" validate:"gt=0"`
	ResistanceCoefficient float64 `mapstructure:"resistance_coefficient" validate:"gte=0"`
}

// Config 运行配置
type Config struct {
	Input                    string             `mapstructure:"input" validate:"required"`
	Output                   string             `mapstructure:"output" validate:"required"`
	Workers                  int                `mapstructure:"workers" validate:"gte=0"`
	LogLevel                 string             `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	Plot                     bool               `mapstructure:"plot"`
	Disconnected             []string           `mapstructure:"disconnected" validate:"dive,required"`
	HeatLossDisconnectedPipe bool               `mapstructure:"heat_loss_disconnected_pipe"`
	MinimizeHeadLoss         bool               `mapstructure:"minimize_head_loss"`
	MinimizeHydraulicPower   bool               `mapstructure:"minimize_hydraulic_power"`
	LinearHeadLoss           bool               `mapstructure:"linear_head_loss"`
	Targets                  map[string]float64 `mapstructure:"targets" validate:"dive,keys,required,endkeys,gte=0"`
	Physics                  Physics            `mapstructure:"physics"`
}

// setDefaults 缺省值
func setDefaults(v *viper.Viper) {
	o := esdl.DefaultOptions()
	v.SetDefault("input", "")
	v.SetDefault("output", "out")
	v.SetDefault("workers", 0)
	v.SetDefault("log_level", "info")
	v.SetDefault("plot", false)
	v.SetDefault("disconnected", []string{})
	v.SetDefault("heat_loss_disconnected_pipe", false)
	v.SetDefault("minimize_head_loss", false)
	v.SetDefault("minimize_hydraulic_power", false)
	v.SetDefault("linear_head_loss", false)
	v.SetDefault("targets", map[string]float64{})
	v.SetDefault("physics.v_nominal", o.VNominal)
	v.SetDefault("physics.v_max", o.VMax)
	v.SetDefault("physics.gas_v_max", o.GasVMax)
	v.SetDefault("physics.rho", o.Rho)
	v.SetDefault("physics.cp", o.Cp)
	v.SetDefault("physics.friction_factor", o.FrictionFactor)
	v.SetDefault("physics.resistance_coefficient", o.ResistanceCoefficient)
}

// Load 读取配置。path 为空时不读文件；flags 为 nil 时不绑定命令行参数
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("HEATNET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}
	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, err
		}
	}
	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate 校验配置，返回第一个不合法字段
func (config *Config) Validate() error {
	err := validate.Struct(config)
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		fe := errs[0]
		path := strings.TrimPrefix(fe.Namespace(), "Config.")
		return types.Configf("config", path, "校验失败: %s %s", fe.Tag(), fe.Param())
	}
	return err
}

// ConverterOptions 资产转换参数
func (config *Config) ConverterOptions() esdl.Options {
	p := config.Physics
	return esdl.Options{
		VNominal:              p.VNominal,
		VMax:                  p.VMax,
		GasVMax:               p.GasVMax,
		Rho:                   p.Rho,
		Cp:                    p.Cp,
		FrictionFactor:        p.FrictionFactor,
		ResistanceCoefficient: p.ResistanceCoefficient,
	}
}

// AssemblyOptions 装配选项
func (config *Config) AssemblyOptions(logger *zap.Logger) system.Options {
	return system.Options{
		Disconnected:             config.Disconnected,
		HeatLossDisconnectedPipe: config.HeatLossDisconnectedPipe,
		Logger:                   logger,
	}
}

// ProblemConfig 目标与约束策略
func (config *Config) ProblemConfig() problem.Config {
	var p problem.Config
	if len(config.Targets) > 0 {
		p.Goals = append(p.Goals, problem.TargetDemandGoals{Targets: config.Targets})
	}
	if config.MinimizeHeadLoss {
		p.Goals = append(p.Goals, problem.MinimizeHeadLoss{})
	}
	if config.MinimizeHydraulicPower {
		p.Goals = append(p.Goals, problem.MinimizeHydraulicPower{})
	}
	if config.LinearHeadLoss {
		p.Constraints = append(p.Constraints, problem.LinearHeadLoss{})
	}
	return p
}

// Logger 按日志级别创建日志
func (config *Config) Logger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(config.LogLevel)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	zc.Level = level
	zc.Encoding = "console"
	return zc.Build()
}
