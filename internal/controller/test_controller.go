package controller

import (
	"quiz_rating_backend/internal/middleware"
	"quiz_rating_backend/internal/model"
	"quiz_rating_backend/internal/service"
	"quiz_rating_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TestController struct {
	SelectionService *service.SelectionService
}

func NewTestController(selectionService *service.SelectionService) *TestController {
	return &TestController{SelectionService: selectionService}
}

// Practice godoc
// @Summary 获取练习题
// @Description 返回该层级作答次数最少的 30 道题，不足 30 道时返回 400
// @Tags 测试
// @Produce json
// @Security ApiKeyAuth
// @Param level path string true "层级" Enums(objects, actions, skills, LEVEL_1, LEVEL_2, LEVEL_3)
// @Success 200 {object} util.Response{data=[]service.ItemView}
// @Failure 400 {object} util.Response "题目不足或层级无效"
// @Router /tests/practice/{level} [get]
func (c *TestController) Practice(ctx *gin.Context) {
	level, err := model.ParseLevel(ctx.Param("level"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	items, err := c.SelectionService.SelectPractice(ctx.Request.Context(), level)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	c.respondItems(ctx, items)
}

// Exam godoc
// @Summary 获取考试题
// @Description 三个层级配额之和必须为 30，默认 15/10/5，返回顺序随机
// @Tags 测试
// @Produce json
// @Security ApiKeyAuth
// @Param num_level_1 query int false "objects 题量" default(15)
// @Param num_level_2 query int false "actions 题量" default(10)
// @Param num_level_3 query int false "skills 题量" default(5)
// @Success 200 {object} util.Response{data=[]service.ItemView}
// @Failure 400 {object} util.Response "配额无效或题目不足"
// @Router /tests/exam [get]
func (c *TestController) Exam(ctx *gin.Context) {
	quotas := service.DefaultExamQuotas()
	if err := ctx.ShouldBindQuery(&quotas); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	items, err := c.SelectionService.SelectExam(ctx.Request.Context(), quotas)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	c.respondItems(ctx, items)
}

// 管理员可以看到正确答案，答题者只拿到 ItemView
func (c *TestController) respondItems(ctx *gin.Context, items []model.Item) {
	if p := middleware.GetPrincipal(ctx); p != nil && p.Role == model.RoleAdmin {
		util.Success(ctx, items)
		return
	}
	views, err := service.ToItemViews(items)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, views)
}
