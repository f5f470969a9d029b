package availability

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/makerspace-booking/backend/internal/domain"
)

// 2025-01-06 是周一，2025-01-05 是周日
const (
	aSunday = "2025-01-05"
	aMonday = "2025-01-06"
)

func templateWithMondayCapacity(hour, capacity int) *domain.CapacityTemplate {
	tpl := domain.DefaultCapacityTemplate()
	tpl.WeekPattern[1][hour] = capacity
	return tpl
}

func TestComputeWeekdayAlignment(t *testing.T) {
	tpl := domain.DefaultCapacityTemplate()
	for h := range tpl.WeekPattern[1] {
		tpl.WeekPattern[1][h] = h // 周一的每个小时段容量都不同，便于核对对齐
	}

	from, err := ParseDate(aMonday)
	require.NoError(t, err)

	grid := Compute(from, from, tpl, nil)
	require.Len(t, grid, 1)
	require.Equal(t, tpl.WeekPattern[1], grid[0])
}

func TestComputeMultiDayWeekdayProgression(t *testing.T) {
	tpl := domain.DefaultCapacityTemplate()
	for day := range tpl.WeekPattern {
		for h := range tpl.WeekPattern[day] {
			tpl.WeekPattern[day][h] = day + 1
		}
	}

	from, err := ParseDate(aSunday)
	require.NoError(t, err)
	to := from.AddDate(0, 0, 9) // 跨过一整周，验证模 7 回绕

	grid := Compute(from, to, tpl, nil)
	require.Len(t, grid, 10)
	for i, row := range grid {
		require.Equal(t, (i%7)+1, row[0], "第 %d 天的星期下标没有对齐", i)
	}
}

func TestComputeSubtractsBooking(t *testing.T) {
	tpl := templateWithMondayCapacity(10, 3)

	from, err := ParseDate(aMonday)
	require.NoError(t, err)

	bookings := []*domain.Booking{
		{Date: aMonday, StartHour: 10, EndHour: 11, NPeople: 2, Owner: "a@makerspace.test"},
	}

	grid := Compute(from, from, tpl, bookings)
	require.Len(t, grid, 1)
	require.Equal(t, 1, grid[0][10])
	for h := 0; h < domain.HoursPerDay; h++ {
		if h == 10 {
			continue
		}
		require.Equal(t, tpl.WeekPattern[1][h], grid[0][h], "未被预约覆盖的小时段 %d 不应变化", h)
	}
}

func TestComputeFloorsAtZero(t *testing.T) {
	tpl := templateWithMondayCapacity(10, 3)

	from, err := ParseDate(aMonday)
	require.NoError(t, err)

	// 两条预约合计 4 人，超过容量 3，网格必须停在 0 而不是 -1
	bookings := []*domain.Booking{
		{Date: aMonday, StartHour: 10, EndHour: 11, NPeople: 2},
		{Date: aMonday, StartHour: 10, EndHour: 11, NPeople: 2},
	}

	grid := Compute(from, from, tpl, bookings)
	require.Equal(t, 0, grid[0][10])
}

func TestComputeExactHoliday(t *testing.T) {
	tpl := domain.DefaultCapacityTemplate()
	tpl.Holidays = []string{"2025-12-25"}

	from, err := ParseDate("2025-12-25")
	require.NoError(t, err)

	grid := Compute(from, from, tpl, []*domain.Booking{
		{Date: "2025-12-25", StartHour: 9, EndHour: 12, NPeople: 2},
	})
	require.Len(t, grid, 1)
	require.Equal(t, make([]int, domain.HoursPerDay), grid[0])
}

func TestComputeRecurringHolidayIgnoresYear(t *testing.T) {
	tpl := domain.DefaultCapacityTemplate()
	tpl.RecurringHolidays = []string{"12-25"}

	from, err := ParseDate("2030-12-25")
	require.NoError(t, err)

	grid := Compute(from, from, tpl, nil)
	require.Equal(t, make([]int, domain.HoursPerDay), grid[0])
}

func TestComputeSkipsOutOfRangeBookings(t *testing.T) {
	tpl := templateWithMondayCapacity(10, 3)

	from, err := ParseDate(aMonday)
	require.NoError(t, err)

	bookings := []*domain.Booking{
		{Date: "2025-01-07", StartHour: 10, EndHour: 11, NPeople: 2}, // 范围之后
		{Date: "2025-01-01", StartHour: 10, EndHour: 11, NPeople: 2}, // 范围之前
		{Date: "not-a-date", StartHour: 10, EndHour: 11, NPeople: 2},
	}

	grid := Compute(from, from, tpl, bookings)
	require.Equal(t, 3, grid[0][10])
}

func TestComputeZeroFillsShortPatternRows(t *testing.T) {
	tpl := domain.DefaultCapacityTemplate()
	tpl.WeekPattern[1] = []int{5, 5} // 迁移不完整的配置只有 2 个小时段

	from, err := ParseDate(aMonday)
	require.NoError(t, err)

	grid := Compute(from, from, tpl, nil)
	require.Equal(t, 5, grid[0][0])
	require.Equal(t, 5, grid[0][1])
	for h := 2; h < domain.HoursPerDay; h++ {
		require.Equal(t, 0, grid[0][h])
	}
}

func TestComputeNeverNegative(t *testing.T) {
	tpl := domain.DefaultCapacityTemplate()
	tpl.Holidays = []string{"2025-01-07"}

	from, err := ParseDate(aSunday)
	require.NoError(t, err)
	to := from.AddDate(0, 0, 6)

	bookings := []*domain.Booking{
		{Date: aSunday, StartHour: 0, EndHour: 24, NPeople: 10},
		{Date: aMonday, StartHour: 8, EndHour: 20, NPeople: 3},
		{Date: "2025-01-07", StartHour: 10, EndHour: 12, NPeople: 7},
		{Date: "2025-01-08", StartHour: 22, EndHour: 24, NPeople: 1},
		{Date: "2025-01-08", StartHour: 22, EndHour: 24, NPeople: 1},
	}

	grid := Compute(from, to, tpl, bookings)
	require.Len(t, grid, 7)
	for i, row := range grid {
		require.Len(t, row, domain.HoursPerDay)
		for h, remaining := range row {
			require.GreaterOrEqual(t, remaining, 0, "第 %d 天第 %d 小时出现负容量", i, h)
		}
	}
}

func TestComputeIsDeterministic(t *testing.T) {
	tpl := templateWithMondayCapacity(10, 3)

	from, err := ParseDate(aMonday)
	require.NoError(t, err)

	bookings := []*domain.Booking{
		{Date: aMonday, StartHour: 9, EndHour: 12, NPeople: 1},
	}

	first := Compute(from, from, tpl, bookings)
	second := Compute(from, from, tpl, bookings)
	require.Equal(t, first, second)
}

func TestComputeInvertedRangeIsEmpty(t *testing.T) {
	tpl := domain.DefaultCapacityTemplate()

	from, err := ParseDate(aMonday)
	require.NoError(t, err)
	to, err := ParseDate(aSunday)
	require.NoError(t, err)

	require.Empty(t, Compute(from, to, tpl, nil))
}

func TestMinRemaining(t *testing.T) {
	row := []int{3, 3, 1, 2, 0, 5}

	require.Equal(t, 3, MinRemaining(row, 0, 2))
	require.Equal(t, 1, MinRemaining(row, 0, 4))
	require.Equal(t, 0, MinRemaining(row, 2, 6))
	require.Equal(t, 0, MinRemaining(row, 4, 4), "空区间没有可用名额")
}
