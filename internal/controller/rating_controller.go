package controller

import (
	"quiz_rating_backend/internal/middleware"
	"quiz_rating_backend/internal/service"
	"quiz_rating_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type RatingController struct {
	AnswerService *service.AnswerService
	RatingService *service.RatingService
}

func NewRatingController(answerService *service.AnswerService, ratingService *service.RatingService) *RatingController {
	return &RatingController{
		AnswerService: answerService,
		RatingService: ratingService,
	}
}

// SubmitAnswer godoc
// @Summary 提交答案
// @Description 精确字符串比较判定正误，序号按题目递增
// @Tags 评分
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.RecordAnswerRequest true "答案"
// @Success 201 {object} util.Response{data=model.Answer}
// @Failure 404 {object} util.Response "题目不存在"
// @Router /ratings/answer [post]
func (c *RatingController) SubmitAnswer(ctx *gin.Context) {
	var req service.RecordAnswerRequest
	if !bindJSON(ctx, &req) {
		return
	}
	principal := middleware.GetPrincipal(ctx)
	req.UserID = &principal.ID

	answer, err := c.AnswerService.RecordAnswer(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, answer)
}

// BuildMySnapshot godoc
// @Summary 生成评分快照
// @Description 汇总当前用户最近 30 条正确作答
// @Tags 评分
// @Produce json
// @Security ApiKeyAuth
// @Success 201 {object} util.Response{data=model.TestRating}
// @Router /ratings/snapshots [post]
func (c *RatingController) BuildMySnapshot(ctx *gin.Context) {
	principal := middleware.GetPrincipal(ctx)
	rating, err := c.RatingService.BuildSnapshot(ctx.Request.Context(), &principal.ID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, rating)
}

// MyRatings godoc
// @Summary 我的评分快照
// @Tags 评分
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.TestRating}
// @Failure 404 {object} util.Response "暂无评分"
// @Router /ratings/me [get]
func (c *RatingController) MyRatings(ctx *gin.Context) {
	c.listForUser(ctx, middleware.GetPrincipal(ctx).ID)
}

// MyCategoryValue godoc
// @Summary 我的快照分类计数
// @Tags 评分
// @Produce json
// @Security ApiKeyAuth
// @Param ratingId path int true "快照ID"
// @Param level query string true "层级"
// @Param type query string true "类型"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "快照或分类不存在"
// @Router /ratings/me/{ratingId}/category [get]
func (c *RatingController) MyCategoryValue(ctx *gin.Context) {
	c.categoryValue(ctx, middleware.GetPrincipal(ctx).ID)
}

// MyAverage godoc
// @Summary 我的分类平均值
// @Tags 评分
// @Produce json
// @Security ApiKeyAuth
// @Param level query string true "层级"
// @Param type query string true "类型"
// @Success 200 {object} util.Response{data=service.CategoryAverage}
// @Failure 404 {object} util.Response "暂无数据"
// @Router /ratings/me/average [get]
func (c *RatingController) MyAverage(ctx *gin.Context) {
	c.averageForUser(ctx, middleware.GetPrincipal(ctx).ID)
}

// GlobalAverage godoc
// @Summary 全体分类平均值
// @Tags 评分
// @Produce json
// @Security ApiKeyAuth
// @Param level query string true "层级"
// @Param type query string true "类型"
// @Success 200 {object} util.Response{data=service.CategoryAverage}
// @Failure 404 {object} util.Response "暂无数据"
// @Router /ratings/average [get]
func (c *RatingController) GlobalAverage(ctx *gin.Context) {
	level, typ, ok := levelTypeQuery(ctx)
	if !ok {
		return
	}
	avg, err := c.RatingService.AverageAcrossAllUsers(ctx.Request.Context(), level, typ)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, avg)
}

// ListRatings godoc
// @Summary 全部评分快照
// @Tags 统计
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.TestRating}
// @Router /admin/ratings [get]
func (c *RatingController) ListRatings(ctx *gin.Context) {
	ratings, err := c.RatingService.ListAll(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, ratings)
}

// GetRating godoc
// @Summary 评分快照详情
// @Tags 统计
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "快照ID"
// @Success 200 {object} util.Response{data=model.TestRating}
// @Router /admin/ratings/{id} [get]
func (c *RatingController) GetRating(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	rating, err := c.RatingService.GetSnapshot(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, rating)
}

// RecomputeRating godoc
// @Summary 重新计算评分快照
// @Tags 统计
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "快照ID"
// @Success 200 {object} util.Response{data=model.TestRating}
// @Failure 400 {object} util.Response "全局快照不支持重算"
// @Failure 404 {object} util.Response "快照不存在"
// @Router /admin/ratings/{id}/recompute [post]
func (c *RatingController) RecomputeRating(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	rating, err := c.RatingService.RecomputeSnapshot(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, rating)
}

// BuildGlobalSnapshot godoc
// @Summary 生成全局评分快照
// @Description 不区分用户，汇总最近 30 条正确作答
// @Tags 统计
// @Produce json
// @Security ApiKeyAuth
// @Success 201 {object} util.Response{data=model.TestRating}
// @Router /admin/ratings/global [post]
func (c *RatingController) BuildGlobalSnapshot(ctx *gin.Context) {
	rating, err := c.RatingService.BuildSnapshot(ctx.Request.Context(), nil)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, rating)
}

// UserRatings godoc
// @Summary 用户评分快照
// @Tags 统计
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "用户ID"
// @Success 200 {object} util.Response{data=[]model.TestRating}
// @Router /admin/users/{id}/ratings [get]
func (c *RatingController) UserRatings(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	c.listForUser(ctx, id)
}

// UserCategoryValue godoc
// @Summary 用户快照分类计数
// @Tags 统计
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "用户ID"
// @Param ratingId path int true "快照ID"
// @Param level query string true "层级"
// @Param type query string true "类型"
// @Success 200 {object} util.Response
// @Router /admin/users/{id}/ratings/{ratingId}/category [get]
func (c *RatingController) UserCategoryValue(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	c.categoryValue(ctx, id)
}

// UserAverage godoc
// @Summary 用户分类平均值
// @Tags 统计
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "用户ID"
// @Param level query string true "层级"
// @Param type query string true "类型"
// @Success 200 {object} util.Response{data=service.CategoryAverage}
// @Router /admin/users/{id}/ratings/average [get]
func (c *RatingController) UserAverage(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	c.averageForUser(ctx, id)
}

func (c *RatingController) listForUser(ctx *gin.Context, userID uint) {
	ratings, err := c.RatingService.ListForUser(ctx.Request.Context(), userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, ratings)
}

func (c *RatingController) categoryValue(ctx *gin.Context, userID uint) {
	ratingID, ok := pathID(ctx, "ratingId")
	if !ok {
		return
	}
	level, typ, ok := levelTypeQuery(ctx)
	if !ok {
		return
	}
	value, err := c.RatingService.CategoryValue(ctx.Request.Context(), userID, ratingID, level, typ)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"ratingId": ratingID, "level": level, "type": typ, "value": value})
}

func (c *RatingController) averageForUser(ctx *gin.Context, userID uint) {
	level, typ, ok := levelTypeQuery(ctx)
	if !ok {
		return
	}
	avg, err := c.RatingService.AverageForUser(ctx.Request.Context(), userID, level, typ)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, avg)
}
