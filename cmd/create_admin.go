package cmd

import (
	"fmt"
	"quiz_rating_backend/internal/repository"
	"quiz_rating_backend/internal/service"
	"quiz_rating_backend/pkg/database"
	"quiz_rating_backend/pkg/logger"

	"github.com/spf13/cobra"
)

// 第一个管理员无法通过 API 创建
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an administrator account",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger.InitLogger(cfg)
		defer logger.Log.Sync()

		db, err := database.InitDB(cfg)
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}

		var req service.RegisterAdminRequest
		req.Number, _ = cmd.Flags().GetString("number")
		req.Password, _ = cmd.Flags().GetString("password")
		req.FirstName, _ = cmd.Flags().GetString("first-name")
		req.LastName, _ = cmd.Flags().GetString("last-name")

		svc := service.NewAdminService(repository.NewAdminRepository(db), service.PasswordHasher{Cost: cfg.Security.BcryptCost})
		admin, err := svc.Register(cmd.Context(), req)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "管理员已创建: id=%d number=%s\n", admin.ID, admin.Number)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().String("number", "", "登录账号")
	createAdminCmd.Flags().String("password", "", "密码")
	createAdminCmd.Flags().String("first-name", "Admin", "名")
	createAdminCmd.Flags().String("last-name", "Admin", "姓")
	_ = createAdminCmd.MarkFlagRequired("number")
	_ = createAdminCmd.MarkFlagRequired("password")
}
