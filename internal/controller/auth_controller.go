package controller

import (
	"quiz_rating_backend/internal/model"
	"quiz_rating_backend/internal/service"
	"quiz_rating_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// UserLogin godoc
// @Summary 用户登录
// @Description 使用学号和密码登录，被封禁的用户无法登录
// @Tags 认证
// @Accept json
// @Produce json
// @Param body body service.LoginRequest true "登录信息"
// @Success 200 {object} util.Response{data=service.LoginResponse}
// @Failure 401 {object} util.Response "认证失败"
// @Router /auth/user/login [post]
func (c *AuthController) UserLogin(ctx *gin.Context) {
	c.login(ctx, model.RoleUser)
}

// AdminLogin godoc
// @Summary 管理员登录
// @Tags 认证
// @Accept json
// @Produce json
// @Param body body service.LoginRequest true "登录信息"
// @Success 200 {object} util.Response{data=service.LoginResponse}
// @Failure 401 {object} util.Response "认证失败"
// @Router /auth/admin/login [post]
func (c *AuthController) AdminLogin(ctx *gin.Context) {
	c.login(ctx, model.RoleAdmin)
}

func (c *AuthController) login(ctx *gin.Context, role model.Role) {
	var req service.LoginRequest
	if !bindJSON(ctx, &req) {
		return
	}

	resp, err := c.AuthService.Login(ctx.Request.Context(), role, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}

// Logout godoc
// @Summary 注销
// @Description 吊销当前令牌
// @Tags 认证
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	if err := c.AuthService.Logout(ctx.Request.Context(), util.GetClaimsFromContext(ctx)); err != nil {
		util.HandleError(ctx, util.StoreError("revoke token", err))
		return
	}
	util.Success(ctx, nil)
}
