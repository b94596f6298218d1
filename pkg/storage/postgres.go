package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/iWorld-y/rss_digest/pkg/config"
	"github.com/iWorld-y/rss_digest/pkg/model"
)

// Storage 报告归档存储
type Storage struct {
	db *sql.DB
}

// NewStorage 连接数据库并初始化表结构
func NewStorage(cfg config.DBConfig) (*Storage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Storage{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// Close 关闭数据库连接
func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS report_runs (
			id SERIAL PRIMARY KEY,
			report_date TEXT NOT NULL,
			mode TEXT NOT NULL,
			total INTEGER,
			source_count INTEGER,
			markdown TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS source_counts (
			id SERIAL PRIMARY KEY,
			run_id INTEGER REFERENCES report_runs(id),
			source_name TEXT,
			item_count INTEGER
		)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query %s: %w", query, err)
		}
	}

	return nil
}

// SaveDailyRun 归档一次日报生成结果
func (s *Storage) SaveDailyRun(doc *model.Document, markdown string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var runID int
	err = tx.QueryRow(`
		INSERT INTO report_runs (report_date, mode, total, source_count, markdown)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		doc.Date.Format(time.DateOnly), "daily", doc.Total, doc.SourceCount, markdown).Scan(&runID)
	if err != nil {
		return fmt.Errorf("failed to insert report run: %w", err)
	}

	for _, g := range doc.Groups {
		_, err = tx.Exec(`
			INSERT INTO source_counts (run_id, source_name, item_count)
			VALUES ($1, $2, $3)`,
			runID, g.Identity.DisplayName, g.Count())
		if err != nil {
			return fmt.Errorf("failed to insert source count: %w", err)
		}
	}

	return tx.Commit()
}

// SaveMonthlyRun 归档一次月报生成结果
func (s *Storage) SaveMonthlyRun(doc *model.MonthlyDocument, markdown string) error {
	_, err := s.db.Exec(`
		INSERT INTO report_runs (report_date, mode, total, source_count, markdown)
		VALUES ($1, $2, $3, $4, $5)`,
		fmt.Sprintf("%04d-%02d", doc.Year, doc.Month), "monthly", doc.Total, doc.ActiveDays, markdown)
	if err != nil {
		return fmt.Errorf("failed to insert report run: %w", err)
	}
	return nil
}
