package availability

import (
	"time"

	"github.com/sysu-ecnc-dev/makerspace-booking/backend/internal/domain"
)

// 每年重复的闭馆日的格式（月-日）
const monthDayLayout = "01-02"

// ParseDate 解析 YYYY-MM-DD 格式的日期，统一归一到 UTC 零点，
// 保证后续用整天做差值计算时不受时区和夏令时影响
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(domain.BookingDateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), nil
}

// DaysBetween 返回两个日期之间相差的整天数（from 和 to 都应是 ParseDate 的结果）
func DaysBetween(from, to time.Time) int {
	return int(to.Sub(from) / (24 * time.Hour))
}

// Compute 根据容量模板和预约记录推导 [from, to]（含两端）每天每小时的剩余名额。
//
// 算法：
//  1. 逐天生成初始行：闭馆日（精确日期或每年重复的月-日）为全零，
//     否则复制 WeekPattern 中对应星期的那一行；
//     星期下标用 from 的星期数加偏移量再模 7 计算，下标 0 固定表示周日；
//  2. 对每条预约，把它的人数从 [start, end) 覆盖的小时段中扣减，最低扣到 0；
//     日期落在范围之外的预约直接跳过，不报错。
//
// 纯函数，没有任何副作用，可以并发调用。
func Compute(from, to time.Time, tpl *domain.CapacityTemplate, bookings []*domain.Booking) [][]int {
	days := DaysBetween(from, to)
	if days < 0 {
		return make([][]int, 0)
	}

	// 把闭馆日整理成集合，避免逐天逐项比较
	holidays := make(map[string]struct{}, len(tpl.Holidays))
	for _, h := range tpl.Holidays {
		if d, err := ParseDate(h); err == nil {
			holidays[d.Format(domain.BookingDateLayout)] = struct{}{}
		}
	}
	recurring := make(map[string]struct{}, len(tpl.RecurringHolidays))
	for _, h := range tpl.RecurringHolidays {
		if _, err := time.Parse(monthDayLayout, h); err == nil {
			recurring[h] = struct{}{}
		}
	}

	fromWeekday := int(from.Weekday()) // Go 的 Weekday 也是 0 = 周日，和模板下标约定一致

	grid := make([][]int, 0, days+1)
	for i := 0; i <= days; i++ {
		cur := from.AddDate(0, 0, i)

		_, isHoliday := holidays[cur.Format(domain.BookingDateLayout)]
		_, isRecurring := recurring[cur.Format(monthDayLayout)]
		if isHoliday || isRecurring {
			grid = append(grid, make([]int, domain.HoursPerDay))
			continue
		}

		grid = append(grid, weekPatternRow(tpl, (fromWeekday+i)%domain.DaysPerWeek))
	}

	for _, b := range bookings {
		date, err := ParseDate(b.Date)
		if err != nil {
			continue
		}

		offset := DaysBetween(from, date)
		if offset < 0 || offset > days {
			// 调用方应当只传入范围内的预约，但传入了也不能让引擎崩溃
			continue
		}

		npeople := b.NPeople
		if npeople < 1 {
			npeople = 1
		}

		start := max(b.StartHour, 0)
		end := min(b.EndHour, domain.HoursPerDay)
		for h := start; h < end; h++ {
			grid[offset][h] = max(grid[offset][h]-npeople, 0)
		}
	}

	return grid
}

// weekPatternRow 复制模板中某个星期的容量行。
// 模板行可能因为配置迁移不完整而短于 24 项，缺失的时段按 0 处理；
// 负数容量同样按 0 处理，保证网格永远不出现负值
func weekPatternRow(tpl *domain.CapacityTemplate, weekday int) []int {
	row := make([]int, domain.HoursPerDay)
	if weekday >= len(tpl.WeekPattern) {
		return row
	}

	src := tpl.WeekPattern[weekday]
	for h := 0; h < domain.HoursPerDay && h < len(src); h++ {
		row[h] = max(src[h], 0)
	}
	return row
}

// MinRemaining 返回某一天的剩余名额行在 [start, end) 内的最小值，
// 预约准入时要求这个最小值不小于预约人数
func MinRemaining(row []int, start, end int) int {
	start = max(start, 0)
	end = min(end, len(row))
	if start >= end {
		return 0
	}

	remaining := row[start]
	for h := start + 1; h < end; h++ {
		remaining = min(remaining, row[h])
	}
	return remaining
}
