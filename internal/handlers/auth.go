package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/taskboard/db"
	"github.com/monocle-dev/taskboard/internal/auth"
	"github.com/monocle-dev/taskboard/internal/models"
	"github.com/monocle-dev/taskboard/internal/types"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Username  string `json:"username" binding:"required,max=150"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// LoginRequest accepts either a username or an email address as the login
// identifier.
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

func Register(ctx *gin.Context) {
	var body RegisterRequest

	if !bindJSON(ctx, &body) {
		return
	}

	username := strings.TrimSpace(body.Username)
	email := strings.ToLower(strings.TrimSpace(body.Email))

	if username == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Username is required"})
		return
	}

	var existing models.User

	err := db.DB.Where("username = ? OR email = ?", username, email).First(&existing).Error

	if err == nil {
		ctx.JSON(http.StatusConflict, gin.H{"error": "Username or email already exists"})
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(ctx, err)
		return
	}

	passwordHash, err := auth.HashPassword(body.Password)

	if err != nil {
		respondError(ctx, err)
		return
	}

	newUser := models.User{
		Username:     username,
		Email:        email,
		FirstName:    strings.TrimSpace(body.FirstName),
		LastName:     strings.TrimSpace(body.LastName),
		PasswordHash: passwordHash,
		Role:         models.RoleTeamMember,
		IsApproved:   false,
	}

	if err := db.DB.Create(&newUser).Error; err != nil {
		if db.IsUniqueViolation(err) {
			ctx.JSON(http.StatusConflict, gin.H{"error": "Username or email already exists"})
			return
		}
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"user":    types.NewUserResponse(newUser),
		"message": "Registration successful, waiting for admin approval",
	})
}

func Login(ctx *gin.Context) {
	var body LoginRequest

	if !bindJSON(ctx, &body) {
		return
	}

	identifier := strings.TrimSpace(body.Username)

	if identifier == "" {
		identifier = strings.TrimSpace(body.Email)
	}

	if identifier == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Username or email is required"})
		return
	}

	var user models.User

	err := db.DB.Where("username = ? OR email = ?", identifier, strings.ToLower(identifier)).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		respondError(ctx, err)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, body.Password) {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if !user.IsApproved {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Account pending approval"})
		return
	}

	tokens, err := auth.GenerateTokenPair(user.ID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user":    types.NewUserResponse(user),
		"access":  tokens.Access,
		"refresh": tokens.Refresh,
	})
}

// Logout revokes the given refresh token. Access tokens stay valid until
// they expire.
func Logout(ctx *gin.Context) {
	caller, ok := currentUser(ctx)

	if !ok {
		return
	}

	var body RefreshRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Refresh token is required"})
		return
	}

	claims, err := auth.VerifyToken(body.Refresh, auth.RefreshToken)

	if err != nil || claims.UserID != caller.ID || claims.ExpiresAt == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid refresh token"})
		return
	}

	revoked := models.RevokedToken{
		JTI:       claims.ID,
		UserID:    claims.UserID,
		ExpiresAt: claims.ExpiresAt.Time,
	}

	if err := db.DB.Create(&revoked).Error; err != nil && !db.IsUniqueViolation(err) {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func RefreshToken(ctx *gin.Context) {
	var body RefreshRequest

	if !bindJSON(ctx, &body) {
		return
	}

	claims, err := auth.VerifyToken(body.Refresh, auth.RefreshToken)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
		return
	}

	var revoked int64

	if err := db.DB.Model(&models.RevokedToken{}).Where("jti = ?", claims.ID).Count(&revoked).Error; err != nil {
		respondError(ctx, err)
		return
	}

	if revoked > 0 {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token has been revoked"})
		return
	}

	var user models.User

	if err := db.DB.First(&user, claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}
		respondError(ctx, err)
		return
	}

	if !user.IsApproved {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Account pending approval"})
		return
	}

	access, err := auth.GenerateAccessToken(user.ID)

	if err != nil {
		log.Printf("Failed to generate access token: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"access": access})
}

func Me(ctx *gin.Context) {
	caller, ok := currentUser(ctx)

	if !ok {
		return
	}

	var user models.User

	if err := db.DB.First(&user, caller.ID).Error; err != nil {
		respondError(ctx, notFound(err, "User not found"))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": types.NewUserResponse(user)})
}
