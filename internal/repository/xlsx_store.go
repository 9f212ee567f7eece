package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/DilipkumarRajan/training-request-portal/config"
	"github.com/DilipkumarRajan/training-request-portal/internal/model"
	apperrors "github.com/DilipkumarRajan/training-request-portal/pkg/errors"
)

const xlsxStoreName = "xlsx"

// defaultSheet excelize 新建工作簿时自带的工作表
const defaultSheet = "Sheet1"

// XLSXStore 追加到本地 Excel 工作簿的存储（开发与离线部署）
// 每次追加都重新打开并保存文件，进程内以互斥锁串行化
type XLSXStore struct {
	path   string
	sheet  string
	logger *zap.Logger

	mu sync.Mutex
}

// NewXLSXStore 创建 XLSXStore，文件在首次追加时创建
func NewXLSXStore(cfg *config.XLSXConfig, logger *zap.Logger) *XLSXStore {
	sheet := cfg.Sheet
	if sheet == "" {
		sheet = defaultSheet
	}
	return &XLSXStore{path: cfg.Path, sheet: sheet, logger: logger}
}

func (s *XLSXStore) Name() string { return xlsxStoreName }

// Append 写入最后一个非空行之后
func (s *XLSXStore) Append(ctx context.Context, rec model.Record) error {
	if err := ctx.Err(); err != nil {
		return apperrors.NewStoreFault(xlsxStoreName, "append", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open()
	if err != nil {
		return apperrors.NewStoreFault(xlsxStoreName, "open", err)
	}
	defer f.Close()

	rows, err := f.GetRows(s.sheet)
	if err != nil {
		return apperrors.NewStoreFault(xlsxStoreName, "read", err)
	}

	next := len(rows) + 1
	cell, err := excelize.CoordinatesToCellName(1, next)
	if err != nil {
		return apperrors.NewStoreFault(xlsxStoreName, "append", err)
	}

	values := []interface{}(rec)
	if err := f.SetSheetRow(s.sheet, cell, &values); err != nil {
		return apperrors.NewStoreFault(xlsxStoreName, "append", err)
	}

	if err := f.SaveAs(s.path); err != nil {
		return apperrors.NewStoreFault(xlsxStoreName, "save", err)
	}

	s.logger.Debug("已写入工作簿", zap.String("path", s.path), zap.Int("row", next))
	return nil
}

// open 打开已有工作簿，不存在时新建，并确保目标工作表存在
func (s *XLSXStore) open() (*excelize.File, error) {
	f, err := excelize.OpenFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		f = excelize.NewFile()
		if s.sheet != defaultSheet {
			if err := f.SetSheetName(defaultSheet, s.sheet); err != nil {
				f.Close()
				return nil, err
			}
		}
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("打开工作簿失败: %w", err)
	}

	idx, err := f.GetSheetIndex(s.sheet)
	if err != nil {
		f.Close()
		return nil, err
	}
	if idx == -1 {
		if _, err := f.NewSheet(s.sheet); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}
