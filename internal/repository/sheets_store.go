package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"google.golang.org/api/sheets/v4"

	"github.com/DilipkumarRajan/training-request-portal/config"
	"github.com/DilipkumarRajan/training-request-portal/internal/model"
	apperrors "github.com/DilipkumarRajan/training-request-portal/pkg/errors"
	"github.com/DilipkumarRajan/training-request-portal/pkg/gsheets"
)

const sheetsStoreName = "sheets"

// spreadsheetMimeType Drive 中 Google 表格的 MIME 类型
const spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

// ErrSpreadsheetNotFound 按名称未找到表格，或表格内没有工作表
var ErrSpreadsheetNotFound = errors.New("spreadsheet not found")

// SheetsStore 追加到 Google 表格的存储
//
// 目标表格与工作表在首次使用时解析并缓存：
//   - 配置了 spreadsheet_id 时直接使用，否则通过 Drive 按名称查找（取第一个匹配）
//   - 配置了 worksheet 时直接使用，否则取第一个工作表
type SheetsStore struct {
	clients *gsheets.Clients
	cfg     config.SheetsConfig
	logger  *zap.Logger

	mu            sync.Mutex
	spreadsheetID string
	appendRange   string
}

// NewSheetsStore 创建 SheetsStore，不发起网络请求
func NewSheetsStore(clients *gsheets.Clients, cfg *config.SheetsConfig, logger *zap.Logger) *SheetsStore {
	return &SheetsStore{clients: clients, cfg: *cfg, logger: logger}
}

func (s *SheetsStore) Name() string { return sheetsStoreName }

// Resolve 解析目标表格 ID 与追加区域
func (s *SheetsStore) Resolve(ctx context.Context) (spreadsheetID, appendRange string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.appendRange != "" {
		return s.spreadsheetID, s.appendRange, nil
	}

	id := s.cfg.SpreadsheetID
	if id == "" {
		id, err = s.findByName(ctx, s.cfg.SpreadsheetName)
		if err != nil {
			return "", "", err
		}
	}

	title := s.cfg.Worksheet
	if title == "" {
		title, err = s.firstWorksheet(ctx, id)
		if err != nil {
			return "", "", err
		}
	}

	s.spreadsheetID = id
	s.appendRange = quoteSheetTitle(title)

	s.logger.Info("已解析目标表格",
		zap.String("spreadsheet_id", s.spreadsheetID),
		zap.String("range", s.appendRange),
	)

	return s.spreadsheetID, s.appendRange, nil
}

// Append 以 RAW 方式追加一行
func (s *SheetsStore) Append(ctx context.Context, rec model.Record) error {
	id, rng, err := s.Resolve(ctx)
	if err != nil {
		return apperrors.NewStoreFault(sheetsStoreName, "resolve", err)
	}

	vr := &sheets.ValueRange{Values: [][]interface{}{rec}}
	_, err = s.clients.Sheets.Spreadsheets.Values.Append(id, rng, vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return apperrors.NewStoreFault(sheetsStoreName, "append", err)
}

func (s *SheetsStore) findByName(ctx context.Context, name string) (string, error) {
	q := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false", escapeQuery(name), spreadsheetMimeType)

	list, err := s.clients.Drive.Files.List().
		Q(q).
		Fields("files(id, name)").
		PageSize(10).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("按名称查找表格失败: %w", err)
	}
	if len(list.Files) == 0 {
		return "", fmt.Errorf("%w: %q", ErrSpreadsheetNotFound, name)
	}
	if len(list.Files) > 1 {
		s.logger.Warn("存在多个同名表格，使用第一个",
			zap.String("name", name),
			zap.Int("count", len(list.Files)),
		)
	}
	return list.Files[0].Id, nil
}

func (s *SheetsStore) firstWorksheet(ctx context.Context, spreadsheetID string) (string, error) {
	ss, err := s.clients.Sheets.Spreadsheets.Get(spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("读取表格元数据失败: %w", err)
	}
	if len(ss.Sheets) == 0 || ss.Sheets[0].Properties == nil {
		return "", fmt.Errorf("%w: 表格 %s 中没有工作表", ErrSpreadsheetNotFound, spreadsheetID)
	}
	return ss.Sheets[0].Properties.Title, nil
}

// quoteSheetTitle 按 A1 表示法给工作表名加引号
func quoteSheetTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

// escapeQuery 转义 Drive 查询字符串中的反斜杠与单引号
func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}
