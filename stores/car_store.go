package stores

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"garage/models"
)

// ErrNotFound 表示車輛資料不存在，或呼叫者不是該筆資料的擁有者。
// 兩種情況刻意不做區分，避免洩漏資料是否存在。
var ErrNotFound = errors.New("car not found")

// CarStore 封裝車輛資料的持久化操作
type CarStore struct {
	db *gorm.DB
}

func NewCarStore(db *gorm.DB) *CarStore {
	return &CarStore{db: db}
}

// Create 建立一筆新的車輛資料，ID 由儲存層產生
func (s *CarStore) Create(ctx context.Context, car *models.Car) error {
	const op = "CarStore.Create"
	if result := s.db.WithContext(ctx).Create(car); result.Error != nil {
		return fmt.Errorf("[%s] Fail to create car, err=%w", op, result.Error)
	}
	return nil
}

// FindByID 以 ID 查詢車輛資料，不檢查擁有者
func (s *CarStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Car, error) {
	const op = "CarStore.FindByID"
	var car models.Car
	if result := s.db.WithContext(ctx).Where("id = ?", id).First(&car); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("[%s] Fail to find car, err=%w", op, result.Error)
	}
	return &car, nil
}

// FindOwned 以 ID 查詢車輛資料並確認擁有者
// 資料不存在與擁有者不符都回傳 ErrNotFound
func (s *CarStore) FindOwned(ctx context.Context, id, ownerID uuid.UUID) (*models.Car, error) {
	const op = "CarStore.FindOwned"
	car, err := s.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("[%s] Fail to find car, err=%w", op, err)
	}
	if car.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	return car, nil
}

// FindByOwner 查詢指定使用者擁有的所有車輛資料
func (s *CarStore) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Car, error) {
	const op = "CarStore.FindByOwner"
	var cars []models.Car
	if result := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at").Find(&cars); result.Error != nil {
		return nil, fmt.Errorf("[%s] Fail to list cars, err=%w", op, result.Error)
	}
	return cars, nil
}

// Save 將車輛資料的目前狀態寫回儲存層
func (s *CarStore) Save(ctx context.Context, car *models.Car) error {
	const op = "CarStore.Save"
	if result := s.db.WithContext(ctx).Save(car); result.Error != nil {
		return fmt.Errorf("[%s] Fail to save car, err=%w", op, result.Error)
	}
	return nil
}

// Delete 以 ID 永久刪除車輛資料
func (s *CarStore) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "CarStore.Delete"
	if result := s.db.WithContext(ctx).Unscoped().Where("id = ?", id).Delete(&models.Car{}); result.Error != nil {
		return fmt.Errorf("[%s] Fail to delete car, err=%w", op, result.Error)
	}
	return nil
}
