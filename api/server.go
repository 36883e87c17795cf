package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	awsCfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	internalStorage "garage/adapters/storage"
	"garage/models"
	"garage/stores"
)

const contextKeyUserID = "garage-user-id"

type ServerImpl struct {
	db          *gorm.DB
	carStore    *stores.CarStore
	storage     internalStorage.Storage
	htmlChecker *bluemonday.Policy

	config ServerConfig
}

func NewServer(config ServerConfig) (*ServerImpl, error) {
	const op = "NewServer"

	// 初始化資料庫連線
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable&search_path=%s", config.DB.User, config.DB.Password, config.DB.Host, config.DB.Port, config.DB.Database, config.DB.Schema)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		NamingStrategy: schema.NamingStrategy{
			TablePrefix: config.DB.Schema + ".",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to connect to database, err=%w", op, err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Car{}); err != nil {
		return nil, fmt.Errorf("[%s] Fail to migrate database, err=%w", op, err)
	}

	// 初始化上傳儲存後端，有設定bucket時使用S3，否則寫入本機目錄
	var uploadStorage internalStorage.Storage
	if config.S3.Bucket != "" {
		s3Cfg, err := awsCfg.LoadDefaultConfig(
			context.Background(),
			awsCfg.WithBaseEndpoint(config.S3.Endpoint),
			awsCfg.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(config.S3.AccessKeyID, config.S3.SecretAccessKey, "")),
			awsCfg.WithRegion("auto"),
		)
		if err != nil {
			return nil, fmt.Errorf("[%s] Fail to load AWS config, err=%w", op, err)
		}
		uploadStorage, err = internalStorage.NewS3Operator(s3.NewFromConfig(s3Cfg), config.S3.Bucket, config.S3.PublicBaseURL)
		if err != nil {
			return nil, fmt.Errorf("[%s] Fail to create S3 operator, err=%w", op, err)
		}
	} else {
		uploadStorage, err = internalStorage.NewDiskStorage(config.Upload.Dir, config.Upload.PublicBasePath)
		if err != nil {
			return nil, fmt.Errorf("[%s] Fail to create disk storage, err=%w", op, err)
		}
	}

	return &ServerImpl{
		db:          db,
		carStore:    stores.NewCarStore(db),
		storage:     uploadStorage,
		htmlChecker: bluemonday.UGCPolicy(),
		config:      config,
	}, nil
}

func (impl *ServerImpl) Close() {
	if sqlDB, err := impl.db.DB(); err == nil {
		sqlDB.Close()
	}
}

// AuthRequired 驗證Authorization標頭中的token，並將使用者ID附加到請求context
// 車輛相關的操作都必須先通過這個檢查
func (impl *ServerImpl) AuthRequired() gin.HandlerFunc {
	const op = "AuthRequired"
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "No token provided"})
			return
		}
		token, err := ParseAndValidateJWT(tokenString, impl.config.Auth.Secret)
		if err != nil {
			slog.Error("Fail to parse and validate JWT", slog.String("op", op), slog.Any("error", err))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Invalid token"})
			return
		}
		userID, err := uuid.Parse(token.Subject)
		if err != nil {
			slog.Error("Invalid subject in JWT", slog.String("op", op), slog.Any("error", err))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Invalid token"})
			return
		}
		c.Set(contextKeyUserID, userID)
		c.Next()
	}
}

// currentUserID 取得AuthRequired附加到context的使用者ID
func currentUserID(c *gin.Context) uuid.UUID {
	return c.MustGet(contextKeyUserID).(uuid.UUID)
}

func RegisterRoutes(router *gin.Engine, impl *ServerImpl) {
	auth := router.Group("/auth")
	auth.POST("/signup", impl.Signup)
	auth.POST("/login", impl.Login)

	cars := router.Group("/cars", impl.AuthRequired())
	cars.POST("", impl.CreateCar)
	cars.GET("", impl.ListCars)
	cars.GET("/:id", impl.GetCar)
	cars.PUT("/:id", impl.UpdateCar)
	cars.DELETE("/:id", impl.DeleteCar)

	// 本機儲存時以靜態路由提供上傳的檔案
	if disk, ok := impl.storage.(*internalStorage.DiskStorage); ok {
		router.Static(disk.PublicBasePath, disk.Dir)
	}
}
