package gsheets

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/DilipkumarRajan/training-request-portal/config"
)

// Clients Google Sheets 与 Drive 客户端
// Drive 仅用于按名称查找表格
type Clients struct {
	Sheets *sheets.Service
	Drive  *drive.Service
}

// NewClients 使用服务账号凭证文件与配置的 scope 创建客户端
func NewClients(ctx context.Context, cfg *config.SheetsConfig) (*Clients, error) {
	data, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("读取凭证文件失败: %w", err)
	}

	creds, err := google.CredentialsFromJSON(ctx, data, cfg.Scopes...)
	if err != nil {
		return nil, fmt.Errorf("解析服务账号凭证失败: %w", err)
	}

	return NewClientsWithOptions(ctx, []option.ClientOption{option.WithCredentials(creds)}, nil)
}

// NewClientsWithOptions 以显式选项创建客户端
// driveOpts 为 nil 时与 sheetsOpts 共用
func NewClientsWithOptions(ctx context.Context, sheetsOpts, driveOpts []option.ClientOption) (*Clients, error) {
	if driveOpts == nil {
		driveOpts = sheetsOpts
	}

	sheetsSvc, err := sheets.NewService(ctx, sheetsOpts...)
	if err != nil {
		return nil, fmt.Errorf("创建 Sheets 客户端失败: %w", err)
	}

	driveSvc, err := drive.NewService(ctx, driveOpts...)
	if err != nil {
		return nil, fmt.Errorf("创建 Drive 客户端失败: %w", err)
	}

	return &Clients{Sheets: sheetsSvc, Drive: driveSvc}, nil
}
