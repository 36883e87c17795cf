package api

import "time"

type ServerConfig struct {
	Auth   AuthConfig
	DB     DBConfig
	S3     S3Config
	Upload UploadConfig
}

type AuthConfig struct {
	Secret         string
	Issuer         string
	ExpireDuration time.Duration
}

type DBConfig struct {
	User     string
	Password string
	Host     string
	Port     int
	Database string
	Schema   string
}

type S3Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	Bucket          string
	PublicBaseURL   string
}

type UploadConfig struct {
	// Dir 是本機儲存時檔案寫入的相對目錄
	Dir string
	// PublicBasePath 是本機儲存時參照的 URL 前綴
	PublicBasePath string
}
