package application

import (
	"math"
	"sort"
	"strings"
	"time"
)

// SortKey 指定列表排序字段。
type SortKey string

const (
	SortByDate       SortKey = "date"
	SortByName       SortKey = "name"
	SortByExperience SortKey = "experience"
	SortBySalary     SortKey = "salary"
)

// SortOrder is either ascending or descending.
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// ParseSortKey 未识别的值回落到按日期排序。
func ParseSortKey(s string) SortKey {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case SortByName:
		return SortByName
	case SortByExperience:
		return SortByExperience
	case SortBySalary:
		return SortBySalary
	default:
		return SortByDate
	}
}

// ParseSortOrder defaults to descending.
func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(strings.TrimSpace(s), string(Ascending)) {
		return Ascending
	}
	return Descending
}

// Filter 按姓名、邮箱、城市做不区分大小写的子串匹配；空查询返回全部。
func Filter(records []Record, query string) []Record {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if q == "" ||
			strings.Contains(strings.ToLower(rec.FullName), q) ||
			strings.Contains(strings.ToLower(rec.Email), q) ||
			strings.Contains(strings.ToLower(rec.City), q) {
			out = append(out, rec)
		}
	}
	return out
}

// Sort returns a sorted copy; ties keep their input order.
func Sort(records []Record, key SortKey, order SortOrder) []Record {
	out := make([]Record, len(records))
	copy(out, records)

	less := func(a, b Record) bool {
		switch key {
		case SortByName:
			return strings.ToLower(a.FullName) < strings.ToLower(b.FullName)
		case SortByExperience:
			return a.SMMExperience < b.SMMExperience
		case SortBySalary:
			return a.ExpectedSalary < b.ExpectedSalary
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if order == Ascending {
			return less(out[i], out[j])
		}
		return less(out[j], out[i])
	})
	return out
}

// Stats 汇总看板指标。
type Stats struct {
	Total          int     `json:"total"`
	Today          int     `json:"today"`
	WithExperience int     `json:"withExperience"`
	HighSalary     int     `json:"highSalary"`
	AvgExperience  float64 `json:"avgExperience"`
}

// ComputeStats counts records for the dashboard. "Today" means the same UTC calendar
// day as now.
func ComputeStats(records []Record, now time.Time) Stats {
	stats := Stats{Total: len(records)}
	if len(records) == 0 {
		return stats
	}

	y, m, d := now.UTC().Date()
	var expSum float64
	for _, rec := range records {
		ry, rm, rd := rec.CreatedAt.UTC().Date()
		if ry == y && rm == m && rd == d {
			stats.Today++
		}
		if rec.SMMExperience > 0 {
			stats.WithExperience++
		}
		if rec.ExpectedSalary >= highSalaryThreshold {
			stats.HighSalary++
		}
		expSum += rec.SMMExperience
	}
	stats.AvgExperience = math.Round(expSum/float64(len(records))*10) / 10
	return stats
}
