package seed

import (
	"database/sql"
	"errors"
	"log/slog"

	"github.com/sysu-ecnc-dev/makerspace-booking/backend/internal/config"
	"github.com/sysu-ecnc-dev/makerspace-booking/backend/internal/domain"
	"github.com/sysu-ecnc-dev/makerspace-booking/backend/internal/repository"
	"github.com/sysu-ecnc-dev/makerspace-booking/backend/internal/utils"
)

// SeedDemoData 写入一套可以直接演示的数据：
// 贴近实际开放时间的容量模板、若干随机会员和未来两周内的随机预约
func SeedDemoData(cfg *config.Config, r *repository.Repository, memberCount, bookingCount int) {
	// 替换容量模板
	tpl, err := r.GetCapacityTemplate(domain.CapacityTemplateKey)
	switch {
	case err == nil:
		demo := utils.GenerateMakerspaceCapacityTemplate()
		demo.Version = tpl.Version
		if err := r.ReplaceCapacityTemplate(demo); err != nil {
			slog.Error("替换容量模板失败", "error", err)
			return
		}
	case errors.Is(err, sql.ErrNoRows):
		if err := r.EnsureCapacityTemplate(utils.GenerateMakerspaceCapacityTemplate()); err != nil {
			slog.Error("写入容量模板失败", "error", err)
			return
		}
	default:
		slog.Error("读取容量模板失败", "error", err)
		return
	}

	// 插入随机会员
	members := make([]*domain.User, 0, memberCount)
	for i := 0; i < memberCount; i++ {
		user, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Email.UserDomain)
		if err != nil {
			slog.Error("生成随机会员失败", "error", err)
			continue
		}

		if err := r.CreateUser(user); err != nil {
			slog.Error("插入会员失败", "error", err)
			continue
		}

		members = append(members, user)
	}

	if len(members) == 0 {
		slog.Error("没有插入任何会员，跳过预约数据")
		return
	}

	// 插入随机预约，走正常的准入路径，保证演示数据不会超额
	tpl, err = r.GetCapacityTemplate(domain.CapacityTemplateKey)
	if err != nil {
		slog.Error("读取容量模板失败", "error", err)
		return
	}

	inserted := 0
	for i := 0; i < bookingCount; i++ {
		owner := members[i%len(members)]
		booking := utils.GenerateRandomBooking(owner.Email, 14)

		if err := r.CreateBookingChecked(booking, tpl); err != nil {
			if errors.Is(err, domain.ErrCapacityExceeded) {
				// 随机数据挤满了某个时段，跳过即可
				continue
			}
			slog.Error("插入预约失败", "error", err)
			continue
		}

		inserted++
	}

	slog.Info("插入演示数据完成", "members", len(members), "bookings", inserted)
}
