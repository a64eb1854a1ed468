package db

import "sort"

// Versioned 是只增版本表的公共视图：按 DedupKey 去重，按 UnixTime 取最新。
type Versioned interface {
	DedupKey() string
	UnixTime() int64
}

// CurrentView 从一组只增记录中为每个去重键挑出时间戳最大的那一条，
// 结果按时间戳从新到旧排列。纯函数：不会修改输入切片。
// 时间戳相同时保留输入中更靠前的记录（稳定排序后先见先得）。
func CurrentView[T Versioned](records []T) []T {
	sorted := make([]T, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].UnixTime() > sorted[j].UnixTime()
	})

	seen := make(map[string]struct{}, len(sorted))
	current := make([]T, 0, len(sorted))
	for _, record := range sorted {
		key := record.DedupKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		current = append(current, record)
	}
	return current
}
