package controller

import (
	"quiz_rating_backend/internal/service"
	"quiz_rating_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	AdminService *service.AdminService
}

func NewAdminController(adminService *service.AdminService) *AdminController {
	return &AdminController{AdminService: adminService}
}

// CreateAdmin godoc
// @Summary 注册管理员
// @Tags 管理员
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.RegisterAdminRequest true "管理员信息"
// @Success 201 {object} util.Response{data=model.Admin}
// @Failure 400 {object} util.Response "账号已存在"
// @Router /admin/admins [post]
func (c *AdminController) CreateAdmin(ctx *gin.Context) {
	var req service.RegisterAdminRequest
	if !bindJSON(ctx, &req) {
		return
	}
	admin, err := c.AdminService.Register(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, admin)
}

// UpdateAdmin godoc
// @Summary 修改管理员
// @Tags 管理员
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "管理员ID"
// @Param body body service.UpdateAdminRequest true "修改内容"
// @Success 200 {object} util.Response{data=model.Admin}
// @Router /admin/admins/{id} [put]
func (c *AdminController) UpdateAdmin(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.UpdateAdminRequest
	if !bindJSON(ctx, &req) {
		return
	}
	admin, err := c.AdminService.Update(ctx.Request.Context(), id, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, admin)
}

// DeleteAdmin godoc
// @Summary 删除管理员
// @Tags 管理员
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "管理员ID"
// @Success 200 {object} util.Response
// @Router /admin/admins/{id} [delete]
func (c *AdminController) DeleteAdmin(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.AdminService.Delete(ctx.Request.Context(), id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id})
}
