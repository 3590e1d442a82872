package controller

import (
	"quiz_rating_backend/internal/model"
	"quiz_rating_backend/internal/util"

	"github.com/gin-gonic/gin"
)

func pathID(ctx *gin.Context, name string) (uint, bool) {
	id, err := util.ParseID(ctx.Param(name))
	if err != nil {
		util.HandleError(ctx, err)
		return 0, false
	}
	return id, true
}

// levelTypeQuery 解析 ?level=&type=，在边界处转换为枚举
func levelTypeQuery(ctx *gin.Context) (model.Level, model.Type, bool) {
	level, err := model.ParseLevel(ctx.Query("level"))
	if err != nil {
		util.HandleError(ctx, err)
		return "", "", false
	}
	typ, err := model.ParseType(ctx.Query("type"))
	if err != nil {
		util.HandleError(ctx, err)
		return "", "", false
	}
	return level, typ, true
}

func bindJSON(ctx *gin.Context, req interface{}) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		util.BadRequest(ctx, err.Error())
		return false
	}
	return true
}
