package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/talash/api-go/config"
	"github.com/talash/api-go/models"
	"github.com/talash/api-go/services"
	"github.com/talash/api-go/utils"
	"gorm.io/gorm"
)

type AuthController struct {
	DB           *gorm.DB
	Accounts     *services.AccountService
	GoogleConfig *config.GoogleConfig
	Domains      *utils.EmailDomainValidator
}

func NewAuthController(db *gorm.DB, googleConfig *config.GoogleConfig, domains *utils.EmailDomainValidator) *AuthController {
	return &AuthController{
		DB:           db,
		Accounts:     services.NewAccountService(db),
		GoogleConfig: googleConfig,
		Domains:      domains,
	}
}

type googleCredential struct {
	IDToken     string `json:"id_token"`
	AccessToken string `json:"access_token"`
	Code        string `json:"code"`
	RedirectURI string `json:"redirect_uri"`
}

// resolveClaims turns whichever Google credential the client sent into
// verified identity claims.
func (ac *AuthController) resolveClaims(c *gin.Context, cred googleCredential) (*services.Claims, error) {
	ctx := c.Request.Context()

	var userInfo *config.GoogleUserInfo
	var err error
	switch {
	case cred.Code != "" && cred.RedirectURI != "":
		token, exchangeErr := ac.GoogleConfig.ExchangeCode(ctx, cred.Code)
		if exchangeErr != nil {
			return nil, services.ErrUnauthenticated
		}
		userInfo, err = ac.GoogleConfig.GetUserInfo(ctx, token.AccessToken)
	case cred.IDToken != "":
		userInfo, err = ac.GoogleConfig.VerifyIDToken(ctx, cred.IDToken)
	case cred.AccessToken != "":
		userInfo, err = ac.GoogleConfig.GetUserInfo(ctx, cred.AccessToken)
	default:
		return nil, services.ErrUnauthenticated
	}

	if err != nil {
		if errors.Is(err, config.ErrVerifyTimeout) {
			return nil, services.ErrUpstreamTimeout
		}
		return nil, services.ErrUnauthenticated
	}

	return &services.Claims{
		UID:           userInfo.ID,
		Email:         userInfo.Email,
		Name:          userInfo.Name,
		EmailVerified: bool(userInfo.VerifiedEmail),
	}, nil
}

func (ac *AuthController) issueTokens(user *models.User) (string, string, error) {
	accessToken, err := utils.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return "", "", err
	}
	refreshToken, err := utils.GenerateRefreshToken(user.ID)
	if err != nil {
		return "", "", err
	}

	err = ac.DB.Create(&models.RefreshToken{
		UserID:         user.ID,
		Token:          refreshToken,
		ExpirationDate: time.Now().Add(utils.RefreshTokenTTL),
	}).Error
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// Signup creates an account for a verified Google identity. Unlike Login,
// reusing an email that already has an account is an error here.
func (ac *AuthController) Signup(c *gin.Context) {
	var input struct {
		Name string `json:"name"`
		googleCredential
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	claims, err := ac.resolveClaims(c, input.googleCredential)
	if err != nil {
		respondError(c, err)
		return
	}

	if !ac.Domains.Allowed(claims.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": ac.Domains.Describe(), "success": false})
		return
	}

	exists, err := ac.Accounts.Exists(claims.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	if exists {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User with this email already exists", "success": false})
		return
	}

	if input.Name != "" {
		claims.Name = input.Name
	}
	user, err := ac.Accounts.ResolveOrCreate(claims)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "user": user})
}

// Login verifies the Google credential and signs the caller in, creating
// the local account on first sign-in.
func (ac *AuthController) Login(c *gin.Context) {
	var input googleCredential

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	claims, err := ac.resolveClaims(c, input)
	if err != nil {
		respondError(c, err)
		return
	}

	if !ac.Domains.Allowed(claims.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": ac.Domains.Describe(), "success": false})
		return
	}

	user, err := ac.Accounts.ResolveOrCreate(claims)
	if err != nil {
		respondError(c, err)
		return
	}

	accessToken, refreshToken, err := ac.issueTokens(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token", "success": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token_type":    "Bearer",
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user":          gin.H{"id": user.ID, "email": user.Email, "name": user.Name, "role": user.Role},
		"success":       true,
	})
}

// AdminSignup registers an admin account. The shared admin key is the
// gate; it is compared in constant time.
func (ac *AuthController) AdminSignup(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		AdminKey string `json:"admin_key" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	if !config.AdminKeyMatches(input.AdminKey) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid admin registration key", "success": false})
		return
	}

	if !ac.Domains.Allowed(input.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": ac.Domains.Describe(), "success": false})
		return
	}

	user, err := ac.Accounts.CreateAccount(input.Name, input.Email, models.RoleAdmin)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "user": user})
}

func (ac *AuthController) RefreshToken(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	var refreshToken models.RefreshToken
	if err := ac.DB.Where("token = ?", input.RefreshToken).First(&refreshToken).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token", "success": false})
		return
	}

	if time.Now().After(refreshToken.ExpirationDate) {
		ac.DB.Delete(&refreshToken)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token expired", "success": false})
		return
	}

	user, err := ac.Accounts.GetByID(refreshToken.UserID)
	if err != nil || user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found", "success": false})
		return
	}

	accessToken, err := utils.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate access token", "success": false})
		return
	}

	newRefreshToken, err := utils.GenerateRefreshToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate refresh token", "success": false})
		return
	}

	refreshToken.Token = newRefreshToken
	refreshToken.ExpirationDate = time.Now().Add(utils.RefreshTokenTTL)
	ac.DB.Save(&refreshToken)

	c.JSON(http.StatusOK, gin.H{
		"token_type":    "Bearer",
		"access_token":  accessToken,
		"refresh_token": newRefreshToken,
		"user":          gin.H{"id": user.ID, "email": user.Email, "name": user.Name, "role": user.Role},
		"success":       true,
	})
}

func (ac *AuthController) Logout(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	ac.DB.Where("token = ?", input.RefreshToken).Delete(&models.RefreshToken{})

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully", "success": true})
}

func (ac *AuthController) GetProfile(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	dbUser, err := ac.Accounts.GetByID(user.UserID)
	if err != nil || dbUser == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": dbUser})
}
