package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"heatnet"
	"heatnet/config"
	"heatnet/debug"
	"heatnet/system"
)

func main() {
	fs := pflag.NewFlagSet("heatnet", pflag.ExitOnError)
	configPath := fs.StringP("config", "c", "", "配置文件")
	fs.StringP("input", "i", "", "资产文件")
	fs.StringP("output", "o", "out", "输出目录")
	fs.Int("workers", 0, "并行构造的元件数上限")
	fs.String("log_level", "info", "日志级别")
	fs.Bool("plot", false, "输出尺度直方图")
	fs.StringSlice("disconnected", nil, "断开的管道")
	fs.Parse(os.Args[1:])

	cfg, err := config.Load(*configPath, fs)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger, err := cfg.Logger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer logger.Sync()
	if err := run(cfg, logger); err != nil {
		logger.Error("构建失败", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	n, err := heatnet.Load(cfg.Input)
	if err != nil {
		return err
	}
	n.Options = cfg.ConverterOptions()
	n.Assembly = cfg.AssemblyOptions(logger)
	n.Problem = cfg.ProblemConfig()
	n.Workers = cfg.Workers
	n.Logger = logger

	res, err := n.Build(context.Background())
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.Output, 0o755); err != nil {
		return err
	}
	sys := res.System
	files := map[string]func(*os.File) error{
		"equations.txt": func(f *os.File) error { return sys.WriteEquations(f) },
		"variables.csv": func(f *os.File) error { return sys.WriteVariablesCSV(f) },
		"roles.yaml":    func(f *os.File) error { return writeRoles(f, sys) },
	}
	if cfg.Plot {
		files["nominal.svg"] = func(f *os.File) error {
			var r debug.Record
			r.Init(sys)
			logger.Info("尺度跨度", zap.Float64("decades", r.Spread()))
			return r.Render(f, "svg")
		}
	}
	for name, write := range files {
		if err := writeFile(filepath.Join(cfg.Output, name), write); err != nil {
			return err
		}
		logger.Debug("写入文件", zap.String("file", name))
	}
	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeRoles 按元件类型输出元件名称
func writeRoles(f *os.File, sys *system.System) error {
	roles := make(map[string][]string, len(sys.Roles))
	for t, names := range sys.Roles {
		roles[t.String()] = names
	}
	enc := yaml.NewEncoder(f)
	defer enc.Close()
	return enc.Encode(roles)
}
