package model

// Activity log levels
const (
	ActivityLevelInfo    = "info"
	ActivityLevelWarning = "warning"
	ActivityLevelError   = "error"
)

// Activity log categories
const (
	ActivityCategoryAuth    = "auth"
	ActivityCategoryContent = "content"
	ActivityCategoryMedia   = "media"
	ActivityCategoryConfig  = "config"
	ActivityCategorySystem  = "system"
)
