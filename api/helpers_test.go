package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	internalStorage "garage/adapters/storage"
	"garage/models"
	"garage/stores"
)

// newTestServer 建立一個使用sqlite和本機暫存目錄的測試伺服器
func newTestServer(t *testing.T) (*ServerImpl, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Car{}))

	diskStorage, err := internalStorage.NewDiskStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	impl := &ServerImpl{
		db:          db,
		carStore:    stores.NewCarStore(db),
		storage:     diskStorage,
		htmlChecker: bluemonday.UGCPolicy(),
		config: ServerConfig{
			Auth: AuthConfig{
				Secret:         "test-secret",
				Issuer:         "garage",
				ExpireDuration: time.Hour,
			},
		},
	}
	router := gin.New()
	RegisterRoutes(router, impl)
	return impl, router
}

// createUser 直接在資料庫建立使用者並簽發token
func createUser(t *testing.T, impl *ServerImpl, username string) (models.User, string) {
	t.Helper()
	user := models.User{Username: username, PasswordHash: "unused"}
	require.NoError(t, impl.db.Create(&user).Error)
	token, err := SignJWT(user.ID, user.Username, impl.config.Auth)
	require.NoError(t, err)
	return user, token
}

type testFile struct {
	name    string
	content string
}

// multipartBody 組出create/update使用的multipart請求內容
// fields 中key為tags時允許多個值
func multipartBody(t *testing.T, fields map[string][]string, files []testFile) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	for key, values := range fields {
		for _, value := range values {
			require.NoError(t, writer.WriteField(key, value))
		}
	}
	for _, file := range files {
		part, err := writer.CreateFormFile("images", file.name)
		require.NoError(t, err)
		_, err = part.Write([]byte(file.content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return buf, writer.FormDataContentType()
}

func perform(router *gin.Engine, method, path, token, contentType string, body *bytes.Buffer) *httptest.ResponseRecorder {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func performJSON(router *gin.Engine, method, path string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(method, path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func decodeCar(t *testing.T, recorder *httptest.ResponseRecorder) carResponse {
	t.Helper()
	var resp carResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	return resp
}

func decodeMessage(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	return resp.Message
}
