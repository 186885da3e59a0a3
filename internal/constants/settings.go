package constants

const (
	SettingTheme          = "theme"
	SettingCategoryFilter = "category_filter"
	SettingSearchQuery    = "search_query"
	SettingEnergyFilter   = "energy_filter"
	SettingSocialFilter   = "social_filter"
	SettingVibeFilter     = "vibe_filter"

	DefaultTheme          = "chill"
	DefaultCategoryFilter = "all"
)
