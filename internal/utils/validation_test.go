package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/makerspace-booking/backend/internal/domain"
)

func validBooking() *domain.Booking {
	return &domain.Booking{
		Date:      "2025-06-02",
		StartHour: 10,
		EndHour:   12,
		NPeople:   2,
		Owner:     "member@makerspace.test",
	}
}

func TestValidateBookingSlot(t *testing.T) {
	require.NoError(t, ValidateBookingSlot(validBooking()))

	tests := []struct {
		name    string
		mutate  func(b *domain.Booking)
		wantErr error
	}{
		{
			name:    "日期无法解析",
			mutate:  func(b *domain.Booking) { b.Date = "not-a-date" },
			wantErr: domain.ErrInvalidBookingDate,
		},
		{
			name:    "开始时间为负",
			mutate:  func(b *domain.Booking) { b.StartHour = -1 },
			wantErr: domain.ErrInvalidStartHour,
		},
		{
			name:    "开始时间超出当天",
			mutate:  func(b *domain.Booking) { b.StartHour = 24 },
			wantErr: domain.ErrInvalidStartHour,
		},
		{
			name:    "结束时间超出当天",
			mutate:  func(b *domain.Booking) { b.EndHour = 25 },
			wantErr: domain.ErrInvalidEndHour,
		},
		{
			name: "开始和结束相等",
			mutate: func(b *domain.Booking) {
				b.StartHour = 10
				b.EndHour = 10
			},
			wantErr: domain.ErrInvalidTimeRange,
		},
		{
			name: "开始晚于结束",
			mutate: func(b *domain.Booking) {
				b.StartHour = 15
				b.EndHour = 9
			},
			wantErr: domain.ErrInvalidTimeRange,
		},
		{
			name:    "预约人数为零",
			mutate:  func(b *domain.Booking) { b.NPeople = 0 },
			wantErr: domain.ErrInvalidPeopleCount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBooking()
			tt.mutate(b)
			require.ErrorIs(t, ValidateBookingSlot(b), tt.wantErr)
		})
	}
}

// 错误的日期和错误的人数必须返回不同的原因
func TestValidateBookingSlotDistinctReasons(t *testing.T) {
	badDate := validBooking()
	badDate.Date = "not-a-date"

	badPeople := validBooking()
	badPeople.NPeople = 0

	dateErr := ValidateBookingSlot(badDate)
	peopleErr := ValidateBookingSlot(badPeople)
	require.Error(t, dateErr)
	require.Error(t, peopleErr)
	require.NotEqual(t, dateErr.Error(), peopleErr.Error())
}

func TestValidateCapacityTemplate(t *testing.T) {
	require.NoError(t, ValidateCapacityTemplate(domain.DefaultCapacityTemplate()))

	tests := []struct {
		name   string
		mutate func(tpl *domain.CapacityTemplate)
	}{
		{
			name:   "缺少一天",
			mutate: func(tpl *domain.CapacityTemplate) { tpl.WeekPattern = tpl.WeekPattern[:6] },
		},
		{
			name:   "某天的小时段不足",
			mutate: func(tpl *domain.CapacityTemplate) { tpl.WeekPattern[3] = tpl.WeekPattern[3][:20] },
		},
		{
			name:   "出现负容量",
			mutate: func(tpl *domain.CapacityTemplate) { tpl.WeekPattern[0][5] = -1 },
		},
		{
			name:   "闭馆日期格式错误",
			mutate: func(tpl *domain.CapacityTemplate) { tpl.Holidays = []string{"25/12/2025"} },
		},
		{
			name:   "重复闭馆日期格式错误",
			mutate: func(tpl *domain.CapacityTemplate) { tpl.RecurringHolidays = []string{"1225"} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl := domain.DefaultCapacityTemplate()
			tt.mutate(tpl)
			require.Error(t, ValidateCapacityTemplate(tpl))
		})
	}
}
