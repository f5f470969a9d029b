package utils

import (
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/makerspace-booking/backend/internal/domain"
)

// ValidateBookingSlot 检查预约请求的形状，每种不合法的情况返回不同的错误，
// 让用户知道到底是哪里填错了
func ValidateBookingSlot(booking *domain.Booking) error {
	if _, err := time.Parse(domain.BookingDateLayout, booking.Date); err != nil {
		return domain.ErrInvalidBookingDate
	}

	if booking.StartHour < 0 || booking.StartHour > 23 {
		return domain.ErrInvalidStartHour
	}

	if booking.EndHour < 1 || booking.EndHour > 24 {
		return domain.ErrInvalidEndHour
	}

	if booking.StartHour >= booking.EndHour {
		return domain.ErrInvalidTimeRange
	}

	if booking.NPeople < 1 {
		return domain.ErrInvalidPeopleCount
	}

	return nil
}

// ValidateCapacityTemplate 检查管理员提交的完整模板
func ValidateCapacityTemplate(tpl *domain.CapacityTemplate) error {
	if len(tpl.WeekPattern) != domain.DaysPerWeek {
		return fmt.Errorf("每周容量模式必须恰好包含 %d 天", domain.DaysPerWeek)
	}

	for day, row := range tpl.WeekPattern {
		if len(row) != domain.HoursPerDay {
			return fmt.Errorf("第 %d 天的容量必须恰好包含 %d 个小时段", day, domain.HoursPerDay)
		}
		for hour, capacity := range row {
			if capacity < 0 {
				return fmt.Errorf("第 %d 天第 %d 小时的容量不能为负数", day, hour)
			}
		}
	}

	for i, holiday := range tpl.Holidays {
		if _, err := time.Parse(domain.BookingDateLayout, holiday); err != nil {
			return fmt.Errorf("第 %d 个闭馆日期格式错误，应为 YYYY-MM-DD", i+1)
		}
	}

	for i, holiday := range tpl.RecurringHolidays {
		if _, err := time.Parse("01-02", holiday); err != nil {
			return fmt.Errorf("第 %d 个每年重复的闭馆日期格式错误，应为 MM-DD", i+1)
		}
	}

	return nil
}
