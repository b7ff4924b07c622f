package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"worldstage/auth"
	"worldstage/models"
	"worldstage/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var errUserExists = errors.New("username or email already exists")

// Register godoc
// @Summary      Register a new user
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        user  body      models.RegisterRequest  true  "username, email and password"
// @Success      201   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]interface{}  "Validation error or duplicate user"
// @Failure      500   {object}  map[string]interface{}
// @Router       /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBindingError(c, err, "Invalid registration data")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("パスワードのハッシュ化に失敗しました", zap.Error(err))
		utils.SendError(c, http.StatusInternalServerError, "Registration failed")
		return
	}

	// ユーザー作成とトークン署名を1つのトランザクションで行い、署名に失敗したら作成も取り消す
	var user models.User
	var token string
	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).
			Where("username = ? OR email = ?", req.Username, req.Email).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errUserExists
		}

		user = models.User{
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: hash,
			IsActive:     true,
		}
		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errUserExists
			}
			return err
		}

		signed, err := h.issuer.GenerateToken(user)
		if err != nil {
			return err
		}
		token = signed
		return nil
	})
	switch {
	case err == nil:
	case errors.Is(err, errUserExists):
		utils.SendError(c, http.StatusBadRequest, "Username or email already exists")
		return
	case errors.Is(err, auth.ErrMissingSecret):
		h.logger.Error("JWT_SECRETが設定されていません")
		utils.SendError(c, http.StatusInternalServerError, "Server configuration error")
		return
	default:
		h.logger.Error("ユーザー登録に失敗しました", zap.String("username", req.Username), zap.Error(err))
		utils.SendError(c, http.StatusInternalServerError, "Registration failed")
		return
	}

	h.logger.Info("User registered", zap.Uint("userID", user.ID), zap.String("username", user.Username))
	utils.SendSuccess(c, http.StatusCreated, "User registered successfully", gin.H{
		"user":  user.Profile(),
		"token": token,
	})
}

// Login godoc
// @Summary      Log in with username and password
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        credentials  body      models.LoginRequest  true  "username and password"
// @Success      200          {object}  map[string]interface{}
// @Failure      401          {object}  map[string]interface{}  "Invalid username or password"
// @Router       /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBindingError(c, err, "Username and password are required")
		return
	}
	ctx := c.Request.Context()

	var user models.User
	err := h.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(req.Username)).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		h.logger.Error("ユーザーの取得に失敗しました", zap.Error(err))
		utils.SendError(c, http.StatusInternalServerError, "Login failed")
		return
	}
	// 存在しない・無効化済み・パスワード不一致はすべて同じ応答
	if err != nil || !user.IsActive || !auth.CheckPassword(user.PasswordHash, req.Password) {
		utils.SendError(c, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	token, err := h.issuer.GenerateToken(user)
	if err != nil {
		if errors.Is(err, auth.ErrMissingSecret) {
			h.logger.Error("JWT_SECRETが設定されていません")
			utils.SendError(c, http.StatusInternalServerError, "Server configuration error")
			return
		}
		h.logger.Error("トークンの生成に失敗しました", zap.Uint("userID", user.ID), zap.Error(err))
		utils.SendError(c, http.StatusInternalServerError, "Login failed")
		return
	}

	now := time.Now()
	if err := h.db.WithContext(ctx).Model(&user).Update("last_login", now).Error; err != nil {
		h.logger.Warn("Failed to update last_login", zap.Uint("userID", user.ID), zap.Error(err))
	} else {
		user.LastLogin = &now
	}

	utils.SendSuccess(c, http.StatusOK, "Login successful", gin.H{
		"user":  user.Profile(),
		"token": token,
	})
}

// Profile godoc
// @Summary      Current user's profile
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}  "User not found"
// @Router       /auth/profile [get]
func (h *Handler) Profile(c *gin.Context) {
	claims, ok := authUser(c)
	if !ok {
		return
	}
	var user models.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, claims.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.SendError(c, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error("プロフィールの取得に失敗しました", zap.Uint("userID", claims.ID), zap.Error(err))
		utils.SendError(c, http.StatusInternalServerError, "Failed to fetch profile")
		return
	}
	utils.SendSuccess(c, http.StatusOK, "", gin.H{"user": user.Profile()})
}
