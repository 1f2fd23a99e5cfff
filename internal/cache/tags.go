package cache

import "github.com/carebook/carebook/internal/daykey"

// Tag formats. A day read registers under day+month+owner, a month read under
// month+owner, so invalidating the finer tag's ancestors reaches every cached
// read that could observe the write.

func OwnerTag(ownerKey string) string {
	return "cb:owner:" + ownerKey
}

func MonthTag(ownerKey, month string) string {
	return "cb:month:" + ownerKey + ":" + month
}

func DayTag(ownerKey, dayKey string) string {
	return "cb:day:" + ownerKey + ":" + dayKey
}

func JournalListTag(ownerKey string) string {
	return "cb:journal:" + ownerKey
}

func JournalEntryTag(ownerKey, id string) string {
	return "cb:journal:" + ownerKey + ":" + id
}

func TagsForMonth(ownerKey, month string) []string {
	return []string{OwnerTag(ownerKey), MonthTag(ownerKey, month)}
}

func TagsForDay(ownerKey, dayKey string) []string {
	month := daykey.MonthOf(dayKey)
	return []string{OwnerTag(ownerKey), MonthTag(ownerKey, month), DayTag(ownerKey, dayKey)}
}
