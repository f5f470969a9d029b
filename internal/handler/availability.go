package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/makerspace-booking/backend/internal/availability"
	"github.com/sysu-ecnc-dev/makerspace-booking/backend/internal/domain"
)

func capacityTemplateCacheKey(key string) string {
	return fmt.Sprintf("capacity_template_%s", key)
}

// loadCapacityTemplate 先查 redis 缓存再查数据库。
// 模板只有管理员偶尔修改，查询路径短暂读到旧模板是可以接受的；
// redis 不可用时直接回落到数据库，缓存故障不应影响查询
func (h *Handler) loadCapacityTemplate(ctx context.Context) (*domain.CapacityTemplate, error) {
	cacheKey := capacityTemplateCacheKey(domain.CapacityTemplateKey)

	cached, err := h.redisClient.Get(ctx, cacheKey).Bytes()
	if err == nil {
		tpl := &domain.CapacityTemplate{}
		if err := json.Unmarshal(cached, tpl); err == nil {
			return tpl, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		slog.Warn("读取容量模板缓存失败", "error", err)
	}

	tpl, err := h.repository.GetCapacityTemplate(domain.CapacityTemplateKey)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(tpl); err == nil {
		if err := h.redisClient.Set(ctx, cacheKey, data, time.Duration(h.config.TemplateCache.Expiration)*time.Second).Err(); err != nil {
			slog.Warn("写入容量模板缓存失败", "error", err)
		}
	}

	return tpl, nil
}

// GetAvailability 返回 [from, to] 每天每小时的剩余名额网格
func (h *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	from, err := availability.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		h.errorResponse(w, r, "起始日期无效，应为 YYYY-MM-DD")
		return
	}

	to, err := availability.ParseDate(r.URL.Query().Get("to"))
	if err != nil {
		h.errorResponse(w, r, "结束日期无效，应为 YYYY-MM-DD")
		return
	}

	days := availability.DaysBetween(from, to)
	if days < 0 {
		h.errorResponse(w, r, "结束日期不能早于起始日期")
		return
	}
	if days >= h.config.Booking.MaxRangeDays {
		h.errorResponse(w, r, fmt.Sprintf("一次最多查询 %d 天", h.config.Booking.MaxRangeDays))
		return
	}

	tpl, err := h.loadCapacityTemplate(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "容量模板尚未配置")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	bookings, err := h.repository.GetBookingsInDateRange(
		from.Format(domain.BookingDateLayout),
		to.Format(domain.BookingDateLayout),
	)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	grid := availability.Compute(from, to, tpl, bookings)

	h.successResponse(w, r, "获取剩余名额成功", grid)
}
