package controller

import (
	"quiz_rating_backend/internal/model"
	"quiz_rating_backend/internal/service"
	"quiz_rating_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ItemController struct {
	ItemService *service.ItemService
}

func NewItemController(itemService *service.ItemService) *ItemController {
	return &ItemController{ItemService: itemService}
}

// CreateItem godoc
// @Summary 创建题目
// @Description level 接受 objects 或 LEVEL_1，type 接受 type1 或 TYPE_1
// @Tags 题库管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CreateItemRequest true "题目"
// @Success 201 {object} util.Response{data=model.Item}
// @Failure 400 {object} util.Response "参数错误或题目重复"
// @Router /admin/items [post]
func (c *ItemController) CreateItem(ctx *gin.Context) {
	var req service.CreateItemRequest
	if !bindJSON(ctx, &req) {
		return
	}

	item, err := c.ItemService.Create(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, item)
}

// UpdateItem godoc
// @Summary 修改题目
// @Description 仅提交的字段会被修改
// @Tags 题库管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "题目ID"
// @Param body body service.UpdateItemRequest true "修改内容"
// @Success 200 {object} util.Response{data=model.Item}
// @Failure 404 {object} util.Response "题目不存在"
// @Router /admin/items/{id} [put]
func (c *ItemController) UpdateItem(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.UpdateItemRequest
	if !bindJSON(ctx, &req) {
		return
	}

	item, err := c.ItemService.Update(ctx.Request.Context(), id, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, item)
}

// DeleteItem godoc
// @Summary 删除题目
// @Description 该题目的作答记录一并删除
// @Tags 题库管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "题目ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "题目不存在"
// @Router /admin/items/{id} [delete]
func (c *ItemController) DeleteItem(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.ItemService.Delete(ctx.Request.Context(), id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id})
}

// GetItem godoc
// @Summary 题目详情
// @Tags 题库管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "题目ID"
// @Success 200 {object} util.Response{data=model.Item}
// @Router /admin/items/{id} [get]
func (c *ItemController) GetItem(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	item, err := c.ItemService.Get(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, item)
}

// ListItems godoc
// @Summary 题目列表
// @Tags 题库管理
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Item}
// @Router /admin/items [get]
func (c *ItemController) ListItems(ctx *gin.Context) {
	items, err := c.ItemService.List(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, items)
}

// ListItemsByLevel godoc
// @Summary 按层级列出题目
// @Tags 题库管理
// @Produce json
// @Security ApiKeyAuth
// @Param level path string true "层级" Enums(objects, actions, skills)
// @Success 200 {object} util.Response{data=[]model.Item}
// @Router /admin/items/level/{level} [get]
func (c *ItemController) ListItemsByLevel(ctx *gin.Context) {
	level, err := model.ParseLevel(ctx.Param("level"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	items, err := c.ItemService.ListByLevel(ctx.Request.Context(), level)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, items)
}
