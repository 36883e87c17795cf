package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
)

// DiskStorage 將上傳檔案寫入本機目錄
// 參照格式為 <PublicBasePath>/<name>，由 HTTP 層負責以靜態路由提供檔案
type DiskStorage struct {
	// Dir 是檔案實際寫入的目錄
	Dir string
	// PublicBasePath 是參照的 URL 前綴
	PublicBasePath string
}

func NewDiskStorage(dir, publicBasePath string) (*DiskStorage, error) {
	const op = "NewDiskStorage"
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("[%s] Fail to create upload directory, err=%w", op, err)
	}
	return &DiskStorage{Dir: dir, PublicBasePath: publicBasePath}, nil
}

func (s *DiskStorage) Save(ctx context.Context, name, contentType string, content []byte) (string, error) {
	const op = "DiskStorage.Save"
	// name 由呼叫端產生，這裡只再保留最後一段，避免寫出目錄之外
	name = filepath.Base(name)
	if err := os.WriteFile(filepath.Join(s.Dir, name), content, 0o644); err != nil {
		return "", fmt.Errorf("[%s] Fail to write file, err=%w", op, err)
	}
	return path.Join(s.PublicBasePath, name), nil
}
