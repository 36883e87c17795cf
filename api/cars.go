package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"garage/models"
	"garage/stores"
)

// maxImagesPerRequest 是單一請求可附帶的圖片數量上限
const maxImagesPerRequest = 10

type carResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Images      []string  `json:"images"`
	Owner       uuid.UUID `json:"owner"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toCarResponse(car models.Car) carResponse {
	resp := carResponse{
		ID:          car.ID,
		Title:       car.Title,
		Description: car.Description,
		Tags:        car.Tags,
		Images:      car.Images,
		Owner:       car.OwnerID,
		CreatedAt:   car.CreatedAt,
		UpdatedAt:   car.UpdatedAt,
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	if resp.Images == nil {
		resp.Images = []string{}
	}
	return resp
}

// serverError 統一處理無法回復的錯誤，只回傳固定訊息
func serverError(c *gin.Context, op string, err error) {
	slog.Error("Request failed", slog.String("op", op), slog.Any("error", err))
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
}

func carNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"message": "Car not found"})
}

// Add a new car
// (POST /cars)
func (impl *ServerImpl) CreateCar(c *gin.Context) {
	const op = "CreateCar"
	userID := currentUserID(c)
	form, err := c.MultipartForm()
	if err != nil {
		serverError(c, op, fmt.Errorf("[%s] Fail to parse multipart form, err=%w", op, err))
		return
	}
	// 儲存附帶的圖片並取得參照
	images, err := impl.saveUploads(c, form.File["images"])
	if err != nil {
		serverError(c, op, err)
		return
	}
	// 擁有者一律來自驗證過的token，不採用請求內容
	car := models.Car{
		OwnerID:     userID,
		Title:       firstValue(form.Value["title"]),
		Description: impl.htmlChecker.Sanitize(firstValue(form.Value["description"])),
		Tags:        parseTags(form.Value["tags"]),
		Images:      images,
	}
	if err := impl.carStore.Create(c.Request.Context(), &car); err != nil {
		serverError(c, op, err)
		return
	}
	c.JSON(http.StatusCreated, toCarResponse(car))
}

// List cars owned by the caller
// (GET /cars)
func (impl *ServerImpl) ListCars(c *gin.Context) {
	const op = "ListCars"
	userID := currentUserID(c)
	cars, err := impl.carStore.FindByOwner(c.Request.Context(), userID)
	if err != nil {
		serverError(c, op, err)
		return
	}
	c.JSON(http.StatusOK, lo.Map(cars, func(car models.Car, _ int) carResponse {
		return toCarResponse(car)
	}))
}

// Get car details
// (GET /cars/:id)
func (impl *ServerImpl) GetCar(c *gin.Context) {
	const op = "GetCar"
	car, ok := impl.lookupOwnedCar(c, op)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toCarResponse(*car))
}

// Update a car
// (PUT /cars/:id)
func (impl *ServerImpl) UpdateCar(c *gin.Context) {
	const op = "UpdateCar"
	car, ok := impl.lookupOwnedCar(c, op)
	if !ok {
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		serverError(c, op, fmt.Errorf("[%s] Fail to parse multipart form, err=%w", op, err))
		return
	}
	images, err := impl.saveUploads(c, form.File["images"])
	if err != nil {
		serverError(c, op, err)
		return
	}
	// 標題、描述和標籤整批覆蓋，圖片只會附加、不會移除
	car.Title = firstValue(form.Value["title"])
	car.Description = impl.htmlChecker.Sanitize(firstValue(form.Value["description"]))
	car.Tags = parseTags(form.Value["tags"])
	car.Images = append(car.Images, images...)
	if err := impl.carStore.Save(c.Request.Context(), car); err != nil {
		serverError(c, op, err)
		return
	}
	c.JSON(http.StatusOK, toCarResponse(*car))
}

// Delete a car
// (DELETE /cars/:id)
func (impl *ServerImpl) DeleteCar(c *gin.Context) {
	const op = "DeleteCar"
	car, ok := impl.lookupOwnedCar(c, op)
	if !ok {
		return
	}
	// 只刪除資料本身，已上傳的圖片檔案保留原狀
	if err := impl.carStore.Delete(c.Request.Context(), car.ID); err != nil {
		serverError(c, op, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Car deleted successfully"})
}

// lookupOwnedCar 查詢路徑參數指定的車輛並確認擁有者
// 資料不存在、ID格式不正確或擁有者不符都回應not found，不做區分
func (impl *ServerImpl) lookupOwnedCar(c *gin.Context, op string) (*models.Car, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		carNotFound(c)
		return nil, false
	}
	car, err := impl.carStore.FindOwned(c.Request.Context(), id, currentUserID(c))
	if errors.Is(err, stores.ErrNotFound) {
		carNotFound(c)
		return nil, false
	}
	if err != nil {
		serverError(c, op, err)
		return nil, false
	}
	return car, true
}

// saveUploads 依提交順序儲存圖片檔案，回傳每個檔案的參照
// 任一檔案寫入失敗時整個請求視為失敗
func (impl *ServerImpl) saveUploads(c *gin.Context, files []*multipart.FileHeader) ([]string, error) {
	const op = "saveUploads"
	if len(files) > maxImagesPerRequest {
		return nil, fmt.Errorf("[%s] Too many files: %d > %d", op, len(files), maxImagesPerRequest)
	}
	images := make([]string, 0, len(files))
	for _, fileHeader := range files {
		file, err := fileHeader.Open()
		if err != nil {
			return nil, fmt.Errorf("[%s] Fail to open uploaded file, err=%w", op, err)
		}
		content, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("[%s] Fail to read uploaded file, err=%w", op, err)
		}
		// 以提交時間作為前綴，避免同名檔案互相覆蓋
		name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), filepath.Base(fileHeader.Filename))
		reference, err := impl.storage.Save(c.Request.Context(), name, fileHeader.Header.Get("Content-Type"), content)
		if err != nil {
			return nil, fmt.Errorf("[%s] Fail to store uploaded file, err=%w", op, err)
		}
		images = append(images, reference)
	}
	return images, nil
}

func firstValue(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// parseTags 將表單提交的標籤正規化為字串序列
// 單一欄位內以逗號分隔的值會被拆開，前後空白移除，空值捨棄
func parseTags(values []string) []string {
	tags := []string{}
	for _, value := range values {
		for _, tag := range strings.Split(value, ",") {
			tag = strings.TrimSpace(tag)
			if tag != "" {
				tags = append(tags, tag)
			}
		}
	}
	return tags
}
