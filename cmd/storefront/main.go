package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"wa_storefront_v1/internal/api/dto"
	"wa_storefront_v1/internal/config"
	"wa_storefront_v1/internal/ownership"
	"wa_storefront_v1/internal/router"
	"wa_storefront_v1/pkg/database"
	"wa_storefront_v1/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "storefront",
		Usage: "WhatsApp 本地店铺下单服务",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "配置文件路径，默认读取当前目录 config.yaml",
				EnvVars: []string{"STOREFRONT_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "sqlite",
				Usage: "使用 sqlite 文件代替 postgres (本地开发)",
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			grantAdminCommand(),
			createSellerCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap 读取配置、创建 logger、连接数据库
func bootstrap(c *cli.Context) (*config.Config, *zap.Logger, func(), error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, nil, nil, err
	}
	if path := c.String("sqlite"); path != "" {
		cfg.Database.Driver = database.DriverSQLite
		cfg.Database.DSN = path
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return nil, nil, nil, err
	}
	cleanup := func() { _ = log.Sync() }
	return cfg, log, cleanup, nil
}

// ==================== 子命令 ====================

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "启动 HTTP 服务",
		Action: func(c *cli.Context) error {
			cfg, log, cleanup, err := bootstrap(c)
			if err != nil {
				return err
			}
			defer cleanup()

			// 1. 初始化数据库
			db, err := initDatabase(cfg, log)
			if err != nil {
				return err
			}

			// 2. 初始化依赖
			deps := initDependencies(cfg, log, db)

			// 3. 启动定时任务
			sweeper, err := initTasks(deps)
			if err != nil {
				return err
			}
			defer sweeper.Stop()

			// 4. 初始化路由
			gin.SetMode(cfg.Server.Mode)
			r := router.SetupRouter(deps.Controllers, deps.Middlewares)

			// 5. 启动服务
			return startServer(cfg.Server.Addr, r, log)
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "自动建表/迁移",
		Action: func(c *cli.Context) error {
			cfg, log, cleanup, err := bootstrap(c)
			if err != nil {
				return err
			}
			defer cleanup()

			if _, err := initDatabase(cfg, log); err != nil {
				return err
			}
			log.Info("数据库迁移完成")
			return nil
		},
	}
}

func grantAdminCommand() *cli.Command {
	return &cli.Command{
		Name:      "grant-admin",
		Usage:     "授予管理员权限",
		ArgsUsage: "<uid 或 email>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "role", Value: "admin", Usage: "admin / owner"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.ShowSubcommandHelp(c)
			}
			cfg, log, cleanup, err := bootstrap(c)
			if err != nil {
				return err
			}
			defer cleanup()

			db, err := initDatabase(cfg, log)
			if err != nil {
				return err
			}
			repos := initRepositories(db)
			resolver := ownership.NewResolver(repos.Ownership, repos.Admin, repos.Shop, log.Named("ownership"))
			svc := newServices(repos, resolver, log)

			rec, err := svc.Seller.GrantAdmin(c.Context, c.Args().First(), c.String("role"))
			if err != nil {
				return err
			}
			fmt.Printf("已授予 %s 权限: %s\n", rec.Role, rec.UID)
			return nil
		},
	}
}

func createSellerCommand() *cli.Command {
	return &cli.Command{
		Name:  "create-seller",
		Usage: "开通卖家 (同时创建店铺和本地账号)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "shop", Required: true, Usage: "店铺 slug"},
			&cli.StringFlag{Name: "name", Required: true, Usage: "店铺名称"},
			&cli.StringFlag{Name: "phone", Usage: "接单 WhatsApp 号码"},
			&cli.StringFlag{Name: "password", Usage: "为空时等卖家首次登录再绑定账号"},
			&cli.StringFlag{Name: "role", Value: "owner"},
		},
		Action: func(c *cli.Context) error {
			cfg, log, cleanup, err := bootstrap(c)
			if err != nil {
				return err
			}
			defer cleanup()

			db, err := initDatabase(cfg, log)
			if err != nil {
				return err
			}
			repos := initRepositories(db)
			resolver := ownership.NewResolver(repos.Ownership, repos.Admin, repos.Shop, log.Named("ownership"))
			svc := newServices(repos, resolver, log)

			rec, err := svc.Seller.ProvisionSeller(c.Context, &dto.ProvisionSellerRequest{
				Email:       c.String("email"),
				ShopSlug:    c.String("shop"),
				ShopName:    c.String("name"),
				SellerPhone: c.String("phone"),
				Password:    c.String("password"),
				Role:        c.String("role"),
			})
			if err != nil {
				return err
			}
			fmt.Printf("已开通卖家 %s -> %s (记录 %s)\n", rec.Email, rec.ShopSlug, rec.ID)
			return nil
		},
	}
}

// ==================== 服务启动 ====================

// startServer 启动服务，收到退出信号后优雅关闭
func startServer(addr string, r *gin.Engine, log *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("服务启动", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("服务启动失败: %w", err)
	case <-quit:
	}

	log.Info("正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("服务强制关闭: %w", err)
	}

	log.Info("服务已退出")
	return nil
}
