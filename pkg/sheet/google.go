package sheet

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// GoogleSheet Google Sheets 数据源实现
type GoogleSheet struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetName     string
	sheetID       int64 // 工作表的数字 ID，删除行时需要
}

// NewGoogleSheet 连接 Google Sheets。
// 凭证取自 GOOGLE_CREDENTIALS 环境变量（服务账号 JSON），
// spreadsheet ID 优先取 SHEET_ID 环境变量，其次取配置。
func NewGoogleSheet(ctx context.Context, spreadsheetID, sheetName string) (*GoogleSheet, error) {
	creds := os.Getenv("GOOGLE_CREDENTIALS")
	if creds == "" {
		return nil, fmt.Errorf("未找到 GOOGLE_CREDENTIALS 环境变量")
	}
	if env := os.Getenv("SHEET_ID"); env != "" {
		spreadsheetID = env
	}
	if spreadsheetID == "" {
		return nil, fmt.Errorf("未设置 spreadsheet_id")
	}

	svc, err := sheets.NewService(ctx,
		option.WithCredentialsJSON([]byte(creds)),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("初始化 Google Sheets 客户端失败: %w", err)
	}

	g := &GoogleSheet{svc: svc, spreadsheetID: spreadsheetID, sheetName: sheetName}
	if err := g.resolveSheetID(ctx); err != nil {
		return nil, err
	}
	return g, nil
}

// resolveSheetID 按名称找到工作表的数字 ID
func (g *GoogleSheet) resolveSheetID(ctx context.Context) error {
	meta, err := g.svc.Spreadsheets.Get(g.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("读取表格元数据失败: %w", err)
	}
	for _, s := range meta.Sheets {
		if s.Properties != nil && s.Properties.Title == g.sheetName {
			g.sheetID = s.Properties.SheetId
			return nil
		}
	}
	return fmt.Errorf("未找到工作表 %q", g.sheetName)
}

// Values 读取整张工作表
func (g *GoogleSheet) Values(ctx context.Context) ([][]string, error) {
	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, g.sheetName).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("读取表格数据失败: %w", err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, 0, len(raw))
		for _, cell := range raw {
			row = append(row, fmt.Sprint(cell))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// DeleteRow 删除指定行（0 起始，含表头行）
func (g *GoogleSheet) DeleteRow(ctx context.Context, idx int) error {
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    g.sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(idx),
					EndIndex:   int64(idx + 1),
				},
			},
		}},
	}
	_, err := g.svc.Spreadsheets.BatchUpdate(g.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("删除行失败: %w", err)
	}
	return nil
}
