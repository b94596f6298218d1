package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/iWorld-y/rss_digest/pkg/config"
	"github.com/iWorld-y/rss_digest/pkg/engine"
	"github.com/iWorld-y/rss_digest/pkg/logger"
	"github.com/iWorld-y/rss_digest/pkg/sheet"
)

var (
	configPath string
	flagDate   string
	flagYear   int
	flagMonth  int
	flagDays   int
)

var rootCmd = &cobra.Command{
	Use:   "rss_digest",
	Short: "RSS 订阅日报/月报生成工具",
	Long:  "从 Google Sheets 读取 RSS 抓取数据，按关键词筛选并生成每日/月度报告。",
}

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "生成每日报告",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, ctx, err := setup()
		if err != nil {
			return err
		}
		defer e.Close()

		var target *time.Time
		if flagDate != "" {
			t, err := time.Parse(time.DateOnly, flagDate)
			if err != nil {
				return fmt.Errorf("日期格式应为 YYYY-MM-DD: %w", err)
			}
			target = &t
		}
		return e.RunDaily(ctx, target)
	},
}

var monthlyCmd = &cobra.Command{
	Use:   "monthly",
	Short: "生成月度报告",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, ctx, err := setup()
		if err != nil {
			return err
		}
		defer e.Close()

		now := time.Now()
		year, month := flagYear, flagMonth
		if year == 0 {
			year = now.Year()
		}
		if month == 0 {
			month = int(now.Month())
		}
		if month < 1 || month > 12 {
			return fmt.Errorf("月份应在 1-12 之间: %d", month)
		}
		return e.RunMonthly(ctx, year, time.Month(month))
	},
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "清理表格中超过保留期的旧数据",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, ctx, err := setup()
		if err != nil {
			return err
		}
		defer e.Close()
		return e.RunCleanup(ctx, flagDays)
	},
}

// setup 加载配置、初始化日志并连接数据源
func setup() (*engine.Engine, context.Context, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("无法加载配置文件: %w", err)
	}

	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		return nil, nil, fmt.Errorf("无法初始化日志: %w", err)
	}

	ctx := context.Background()
	source, err := sheet.NewGoogleSheet(ctx, cfg.GoogleSheets.SpreadsheetID, cfg.GoogleSheets.SheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("连接 Google Sheets 失败: %w", err)
	}

	return engine.NewEngine(ctx, cfg, source), ctx, nil
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "配置文件路径")
	dailyCmd.Flags().StringVar(&flagDate, "date", "", "指定日期 (YYYY-MM-DD)，默认取表格中最新的抓取日期")
	monthlyCmd.Flags().IntVar(&flagYear, "year", 0, "指定年份，默认当前年")
	monthlyCmd.Flags().IntVar(&flagMonth, "month", 0, "指定月份，默认当前月")
	cleanupCmd.Flags().IntVar(&flagDays, "days", 15, "保留多少天内的数据")

	rootCmd.AddCommand(dailyCmd, monthlyCmd, cleanupCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Printf("错误: %v", err)
		os.Exit(1)
	}
}
