package domain

import (
	"errors"
	"time"
)

// 预约日期一律使用本格式，数据库中对应 date 类型
const BookingDateLayout = "2006-01-02"

type Booking struct {
	ID          int64     `json:"id"`
	Date        string    `json:"date"`
	StartHour   int       `json:"start"`
	EndHour     int       `json:"end"`
	NPeople     int       `json:"npeople"`
	Owner       string    `json:"user"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// 预约请求被拒绝的原因，每种情况都必须给用户一个不同的提示
var (
	ErrInvalidBookingDate = errors.New("预约日期无效")
	ErrInvalidStartHour   = errors.New("开始时间无效，必须是 0 到 23 之间的整数")
	ErrInvalidEndHour     = errors.New("结束时间无效，必须是 1 到 24 之间的整数")
	ErrInvalidTimeRange   = errors.New("结束时间必须晚于开始时间")
	ErrInvalidPeopleCount = errors.New("预约人数必须是正整数")
	ErrCapacityExceeded   = errors.New("所选时间段的剩余名额不足")
	ErrBookingNotFound    = errors.New("预约不存在")
	ErrNotBookingOwner    = errors.New("只能取消自己的预约")
)
