// @title Quiz Rating 后端 API
// @version 1.0
// @description 题库、练习/考试抽题与分类评分服务。

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"os"
	"quiz_rating_backend/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
