package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"garage/models"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register a new user
// (POST /auth/signup)
func (impl *ServerImpl) Signup(c *gin.Context) {
	const op = "Signup"
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}
	// 檢查使用者名稱和密碼是否合法
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Username and password are required"})
		return
	}
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		serverError(c, op, err)
		return
	}
	user := models.User{
		Username:     username,
		PasswordHash: string(passwordHash),
	}
	if result := impl.db.WithContext(c.Request.Context()).Create(&user); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"message": "Username already taken"})
			return
		}
		serverError(c, op, result.Error)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully"})
}

// Exchange credentials for a token
// (POST /auth/login)
func (impl *ServerImpl) Login(c *gin.Context) {
	const op = "Login"
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}
	var user models.User
	if result := impl.db.WithContext(c.Request.Context()).Where("username = ?", strings.TrimSpace(req.Username)).First(&user); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusForbidden, gin.H{"message": "Invalid username or password"})
			return
		}
		serverError(c, op, result.Error)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"message": "Invalid username or password"})
		return
	}
	token, err := SignJWT(user.ID, user.Username, impl.config.Auth)
	if err != nil {
		serverError(c, op, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "username": user.Username})
}
