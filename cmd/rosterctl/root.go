package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/drostetom1-netizen/slimrooster-horeca/config"
	"github.com/drostetom1-netizen/slimrooster-horeca/pkg/database"
	applogger "github.com/drostetom1-netizen/slimrooster-horeca/pkg/logger"
)

var (
	Version   = "dev"
	CommitSHA = "none"
)

// NewRootCmd 运维命令行入口
func NewRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "rosterctl",
		Short:         "SlimRooster 运维工具：迁移、签发测试 Token、预订人数与需求估算",
		Version:       fmt.Sprintf("%s (%s)", Version, CommitSHA),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", os.Getenv("ROSTER_CONFIG_FILE"), "配置文件路径")

	env := &cliEnv{configPath: &configPath}
	root.AddCommand(newMigrateCmd(env))
	root.AddCommand(newTokenCmd(env))
	root.AddCommand(newReservationsCmd(env))
	root.AddCommand(newEstimateCmd(env))

	return root
}

// Execute 运行根命令
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cliEnv 子命令共享的配置与连接
type cliEnv struct {
	configPath *string
}

func (e *cliEnv) load() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(*e.configPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// openDB 连接数据库；调用方负责 closeDB
func (e *cliEnv) openDB() (*config.Config, *zap.Logger, *gorm.DB, error) {
	cfg, logger, err := e.load()
	if err != nil {
		return nil, nil, nil, err
	}
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, db, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
