package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/makerspace-booking/backend/internal/availability"
	"github.com/sysu-ecnc-dev/makerspace-booking/backend/internal/domain"
	"github.com/sysu-ecnc-dev/makerspace-booking/backend/internal/utils"
)

// CreateBooking 校验预约请求并在重新核算剩余名额后落库。
// 每种校验失败都有自己的提示，绝不把所有错误都归成一句「请求无效」
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		Date        string `json:"date" validate:"required"`
		Start       *int   `json:"start" validate:"required"`
		End         *int   `json:"end" validate:"required"`
		NPeople     *int   `json:"npeople"`
		Description string `json:"description"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 人数缺省为 1，显式传入的必须是正整数
	npeople := h.config.Booking.DefaultNPeople
	if req.NPeople != nil {
		npeople = *req.NPeople
	}

	booking := &domain.Booking{
		Date:        req.Date,
		StartHour:   *req.Start,
		EndHour:     *req.End,
		NPeople:     npeople,
		Owner:       myInfo.Email,
		Description: req.Description,
	}

	if err := utils.ValidateBookingSlot(booking); err != nil {
		h.errorResponse(w, r, err.Error())
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

	if err := h.repository.CreateBookingChecked(booking, tpl); err != nil {
		switch {
		case errors.Is(err, domain.ErrCapacityExceeded):
			h.errorResponse(w, r, domain.ErrCapacityExceeded.Error())
		case errors.Is(err, domain.ErrInvalidBookingDate):
			h.errorResponse(w, r, domain.ErrInvalidBookingDate.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// 预约已经写入，确认邮件发不出去也不能回滚，只记日志
	h.publishBookingConfirmedMail(myInfo, booking)

	h.successResponse(w, r, "预约成功", booking)
}

func (h *Handler) publishBookingConfirmedMail(user *domain.User, booking *domain.Booking) {
	mailMessage := domain.MailMessage{
		Type: "booking_confirmed",
		To:   user.Email,
		Data: domain.BookingConfirmedMailData{
			FullName:    user.FullName,
			Date:        booking.Date,
			StartHour:   booking.StartHour,
			EndHour:     booking.EndHour,
			NPeople:     booking.NPeople,
			Description: booking.Description,
		},
	}

	mailData, err := json.Marshal(mailMessage)
	if err != nil {
		slog.Error("预约确认邮件序列化失败", "booking_id", booking.ID, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.mailChannel.PublishWithContext(
		ctx,
		"",
		"email_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        mailData,
		},
	); err != nil {
		slog.Error("预约确认邮件入队失败", "booking_id", booking.ID, "error", err)
	}
}

// CancelBooking 取消预约，只有预约人自己或管理员可以取消
func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	booking := r.Context().Value(BookingCtx).(*domain.Booking)

	if booking.Owner != myInfo.Email && myInfo.Role != domain.RoleAdmin {
		h.errorResponse(w, r, domain.ErrNotBookingOwner.Error())
		return
	}

	deleted, err := h.repository.DeleteBooking(booking.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if !deleted {
		// 记录在加载后、删除前被并发取消了
		h.errorResponse(w, r, domain.ErrBookingNotFound.Error())
		return
	}

	h.successResponse(w, r, "取消预约成功", nil)
}

// GetMyBookings 按预约发生的日期列出自己的预约
func (h *Handler) GetMyBookings(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

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

	if availability.DaysBetween(from, to) < 0 {
		h.errorResponse(w, r, "结束日期不能早于起始日期")
		return
	}

	bookings, err := h.repository.GetBookingsByOwnerInDateRange(
		myInfo.Email,
		from.Format(domain.BookingDateLayout),
		to.Format(domain.BookingDateLayout),
	)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取预约列表成功", bookings)
}
