package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/taskboard/db"
	"github.com/monocle-dev/taskboard/internal/apperr"
	"github.com/monocle-dev/taskboard/internal/auth"
	"github.com/monocle-dev/taskboard/internal/models"
	"github.com/monocle-dev/taskboard/internal/policy"
	"github.com/monocle-dev/taskboard/internal/types"
	"gorm.io/gorm"
)

type ApprovalRequest struct {
	IsApproved *bool `json:"is_approved" binding:"required"`
}

type UpdateEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

func UsersStatus(ctx *gin.Context) {
	user, ok := currentUser(ctx)

	if !ok {
		return
	}

	if !policy.CanManageUsers(user.Principal()) {
		respondError(ctx, apperr.Forbidden("Only admins can view user status"))
		return
	}

	var approved, pending []models.User

	if err := db.DB.Where("is_approved = ?", true).Order("id").Find(&approved).Error; err != nil {
		respondError(ctx, err)
		return
	}

	if err := db.DB.Where("is_approved = ?", false).Order("id").Find(&pending).Error; err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"approved_users": types.NewUserResponses(approved),
		"pending_users":  types.NewUserResponses(pending),
	})
}

func SetUserApproval(ctx *gin.Context) {
	user, ok := currentUser(ctx)

	if !ok {
		return
	}

	if !policy.CanManageUsers(user.Principal()) {
		respondError(ctx, apperr.Forbidden("Only admins can approve users"))
		return
	}

	id, ok := idParam(ctx, "id")

	if !ok {
		return
	}

	var body ApprovalRequest

	if !bindJSON(ctx, &body) {
		return
	}

	var target models.User

	if err := db.DB.First(&target, id).Error; err != nil {
		respondError(ctx, notFound(err, "User not found"))
		return
	}

	if err := db.DB.Model(&target).Update("is_approved", *body.IsApproved).Error; err != nil {
		respondError(ctx, err)
		return
	}

	target.IsApproved = *body.IsApproved

	ctx.JSON(http.StatusOK, gin.H{
		"message": "User approval updated",
		"user":    types.NewUserResponse(target),
	})
}

// DeleteUser removes the account and, through foreign keys, everything the
// user owns. Tasks assigned to the user become unassigned.
func DeleteUser(ctx *gin.Context) {
	user, ok := currentUser(ctx)

	if !ok {
		return
	}

	id, ok := idParam(ctx, "id")

	if !ok {
		return
	}

	if !policy.CanManageUser(user.Principal(), id) {
		respondError(ctx, apperr.Forbidden("You can only delete your own account"))
		return
	}

	var target models.User

	if err := db.DB.First(&target, id).Error; err != nil {
		respondError(ctx, notFound(err, "User not found"))
		return
	}

	if err := db.DB.Delete(&models.User{}, target.ID).Error; err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

func TeamMembers(ctx *gin.Context) {
	if _, ok := currentUser(ctx); !ok {
		return
	}

	var members []models.User

	err := db.DB.Where("role = ? AND is_approved = ?", models.RoleTeamMember, true).
		Order("id").
		Find(&members).Error

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewUserResponses(members))
}

func UpdateEmail(ctx *gin.Context) {
	user, ok := currentUser(ctx)

	if !ok {
		return
	}

	id, ok := idParam(ctx, "id")

	if !ok {
		return
	}

	if user.ID != id {
		respondError(ctx, apperr.Forbidden("You can only update your own email"))
		return
	}

	var body UpdateEmailRequest

	if !bindJSON(ctx, &body) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(body.Email))

	var existing models.User

	err := db.DB.Where("email = ? AND id != ?", email, id).First(&existing).Error

	if err == nil {
		respondError(ctx, apperr.Conflict("Email already exists"))
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(ctx, err)
		return
	}

	if err := db.DB.Model(&models.User{}).Where("id = ?", id).Update("email", email).Error; err != nil {
		if db.IsUniqueViolation(err) {
			respondError(ctx, apperr.Conflict("Email already exists"))
			return
		}
		respondError(ctx, err)
		return
	}

	var updated models.User

	if err := db.DB.First(&updated, id).Error; err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Email updated successfully",
		"user":    types.NewUserResponse(updated),
	})
}

func ChangePassword(ctx *gin.Context) {
	user, ok := currentUser(ctx)

	if !ok {
		return
	}

	id, ok := idParam(ctx, "id")

	if !ok {
		return
	}

	if user.ID != id {
		respondError(ctx, apperr.Forbidden("You can only change your own password"))
		return
	}

	var body ChangePasswordRequest

	if !bindJSON(ctx, &body) {
		return
	}

	var dbUser models.User

	if err := db.DB.First(&dbUser, id).Error; err != nil {
		respondError(ctx, notFound(err, "User not found"))
		return
	}

	if !auth.CheckPassword(dbUser.PasswordHash, body.OldPassword) {
		respondError(ctx, apperr.Invalid("Old password is incorrect"))
		return
	}

	passwordHash, err := auth.HashPassword(body.NewPassword)

	if err != nil {
		respondError(ctx, err)
		return
	}

	if err := db.DB.Model(&dbUser).Update("password_hash", passwordHash).Error; err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}
