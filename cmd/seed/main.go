package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/makerspace-booking/backend/internal/config"
	"github.com/sysu-ecnc-dev/makerspace-booking/backend/internal/domain"
	"github.com/sysu-ecnc-dev/makerspace-booking/backend/internal/repository"
	"github.com/sysu-ecnc-dev/makerspace-booking/backend/internal/seed"
	"github.com/sysu-ecnc-dev/makerspace-booking/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机会员, 2: 插入随机预约, 3: 插入整套演示数据)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的会员数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				user, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Email.UserDomain)
				if err != nil {
					slog.Error("无法生成随机会员", slog.String("error", err.Error()))
					continue
				}

				if err := repo.CreateUser(user); err != nil {
					slog.Error("无法插入会员", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入会员成功", slog.Int("count", n-cnt))
		}
	case 2:
		if n <= 0 {
			slog.Error("请输入合法的预约数量")
			return
		}

		// 预约需要挂在已有的会员名下
		members, err := repo.GetAllUsers()
		if err != nil {
			slog.Error("无法获取会员列表", slog.String("error", err.Error()))
			return
		}
		if len(members) == 0 {
			slog.Error("数据库中没有会员，请先插入会员")
			return
		}

		tpl, err := repo.GetCapacityTemplate(domain.CapacityTemplateKey)
		if err != nil {
			slog.Error("无法获取容量模板", slog.String("error", err.Error()))
			return
		}

		cnt := 0
		for i := 0; i < n; i++ {
			owner := members[i%len(members)]
			booking := utils.GenerateRandomBooking(owner.Email, 14)

			if err := repo.CreateBookingChecked(booking, tpl); err != nil {
				slog.Error("无法插入预约", slog.String("error", err.Error()))
				continue
			}

			cnt++
		}

		slog.Info("插入预约成功", slog.Int("count", cnt))
	case 3:
		seed.SeedDemoData(cfg, repo, n, n*4)
	default:
		slog.Error("指定的操作非法")
	}
}
