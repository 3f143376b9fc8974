package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/mememates/models"
	"github.com/cppla/mememates/repository"
	"github.com/cppla/mememates/utils"
	"github.com/cppla/mememates/validators"
)

const msgInvalidCredentials = "Invalid username or password"

// AuthController handles local registration and login.
type AuthController struct {
	users repository.UserRepository
}

// NewAuthController creates an AuthController.
func NewAuthController(users repository.UserRepository) *AuthController {
	return &AuthController{users: users}
}

// Register creates an account with a bcrypt hashed password.
func (a *AuthController) Register(ctx *gin.Context) {
	var req validators.RegisterRequest
	if !bindJSON(ctx, &req) {
		return
	}
	req, err := validators.ValidateRegister(req)
	if respondInvalid(ctx, err) {
		return
	}

	ip := ctx.ClientIP()
	if !utils.RegistrationDailyLimitCheck(ip) {
		tooManyRegistrations(ctx)
		return
	}

	// friendly pre-check; the unique index still decides under concurrency
	if _, err := a.users.GetByUsername(ctx.Request.Context(), req.Username); err == nil {
		utils.Fail(ctx, http.StatusBadRequest, "Username already exists")
		return
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		utils.Logger.Error("register lookup failed", zap.Error(err))
		internalError(ctx)
		return
	}

	// cooldown is spent only once the name is free
	if !utils.RegistrationCooldownTry(ip) {
		tooManyRegistrations(ctx)
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Logger.Error("hash password failed", zap.Error(err))
		internalError(ctx)
		return
	}

	user := models.User{
		Username:     req.Username,
		PasswordHash: hash,
		DisplayName:  req.DisplayName,
	}
	if err := a.users.Create(ctx.Request.Context(), &user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			utils.RegistrationCooldownClear(ip)
			utils.Fail(ctx, http.StatusBadRequest, "Username already exists")
			return
		}
		utils.Logger.Error("create user failed", zap.Error(err))
		internalError(ctx)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, utils.TokenTTL)
	if err != nil {
		utils.Logger.Error("generate token failed", zap.Error(err))
		internalError(ctx)
		return
	}

	utils.RegistrationDailyIncrement(ip)
	utils.Logger.Info("user registered", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	utils.Respond(ctx, http.StatusCreated, true, "Registration successful", gin.H{
		"user":  user,
		"token": token,
	})
}

func tooManyRegistrations(ctx *gin.Context) {
	utils.Fail(ctx, http.StatusTooManyRequests, "Too many registration attempts, please try again later")
}

// Login checks credentials. Unknown users and wrong passwords get the same answer.
func (a *AuthController) Login(ctx *gin.Context) {
	var req validators.LoginRequest
	if !bindJSON(ctx, &req) {
		return
	}
	req, err := validators.ValidateLogin(req)
	if respondInvalid(ctx, err) {
		return
	}

	user, err := a.users.GetByUsername(ctx.Request.Context(), req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			utils.BurnPasswordCheck(req.Password)
			utils.Fail(ctx, http.StatusUnauthorized, msgInvalidCredentials)
			return
		}
		utils.Logger.Error("login lookup failed", zap.Error(err))
		internalError(ctx)
		return
	}
	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Fail(ctx, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, utils.TokenTTL)
	if err != nil {
		utils.Logger.Error("generate token failed", zap.Error(err))
		internalError(ctx)
		return
	}

	utils.Success(ctx, "Login successful", gin.H{
		"user":  user,
		"token": token,
	})
}
