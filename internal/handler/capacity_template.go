package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sysu-ecnc-dev/makerspace-booking/backend/internal/domain"
	"github.com/sysu-ecnc-dev/makerspace-booking/backend/internal/utils"
)

func (h *Handler) GetCapacityTemplate(w http.ResponseWriter, r *http.Request) {
	// 管理员查看时不走缓存，保证编辑界面拿到的是最新版本
	tpl, err := h.repository.GetCapacityTemplate(domain.CapacityTemplateKey)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "容量模板尚未配置")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "获取容量模板成功", tpl)
}

// UpdateCapacityTemplate 整体替换容量模板，不支持按单元格修改
func (h *Handler) UpdateCapacityTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WeekPattern       [][]int  `json:"weekPattern" validate:"required"`
		Holidays          []string `json:"holidays"`
		RecurringHolidays []string `json:"recurringHolidays"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	tpl, err := h.repository.GetCapacityTemplate(domain.CapacityTemplateKey)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "容量模板尚未配置")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	tpl.WeekPattern = req.WeekPattern
	tpl.Holidays = req.Holidays
	tpl.RecurringHolidays = req.RecurringHolidays
	if tpl.Holidays == nil {
		tpl.Holidays = make([]string, 0)
	}
	if tpl.RecurringHolidays == nil {
		tpl.RecurringHolidays = make([]string, 0)
	}

	if err := utils.ValidateCapacityTemplate(tpl); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.ReplaceCapacityTemplate(tpl); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "模板已被其他管理员修改，请刷新后重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// 让查询路径尽快看到新模板
	if err := h.redisClient.Del(r.Context(), capacityTemplateCacheKey(tpl.Key)).Err(); err != nil {
		slog.Warn("清除容量模板缓存失败", "error", err)
	}

	h.successResponse(w, r, "更新容量模板成功", tpl)
}
