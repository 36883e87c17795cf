package storage

import "context"

// Storage 是上傳檔案的儲存後端
// Save 寫入一個檔案並回傳可供存取的參照 (路徑或 URL)
type Storage interface {
	Save(ctx context.Context, name, contentType string, content []byte) (string, error)
}
