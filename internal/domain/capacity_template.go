package domain

import (
	"time"
)

const (
	DaysPerWeek = 7
	HoursPerDay = 24

	// 容量模板在 capacity_templates 表中的主键，全系统只有这一行配置
	CapacityTemplateKey = "availability"
)

// CapacityTemplate 是管理员配置的每周容量模板。
// WeekPattern 的下标 0 固定表示周日，每天 24 个小时段；
// Holidays 是精确到年月日的闭馆日期，RecurringHolidays 是每年重复的月-日闭馆日期，
// 两者都会把当天全部时段的容量置零。
type CapacityTemplate struct {
	Key               string    `json:"key"`
	WeekPattern       [][]int   `json:"weekPattern"`
	Holidays          []string  `json:"holidays"`
	RecurringHolidays []string  `json:"recurringHolidays"`
	UpdatedAt         time.Time `json:"updatedAt"`
	Version           int32     `json:"-"`
}

// 初始模板：每天每个小时段都开放 1 个名额，没有任何闭馆日
func DefaultCapacityTemplate() *CapacityTemplate {
	pattern := make([][]int, DaysPerWeek)
	for i := range pattern {
		pattern[i] = make([]int, HoursPerDay)
		for j := range pattern[i] {
			pattern[i][j] = 1
		}
	}

	return &CapacityTemplate{
		Key:               CapacityTemplateKey,
		WeekPattern:       pattern,
		Holidays:          make([]string, 0),
		RecurringHolidays: make([]string, 0),
	}
}
