package models

import (
	"fmt"
	"strings"

	"github.com/kunal-511/weekendly/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingTheme:
			settings.Theme = value
		case constants.SettingCategoryFilter:
			settings.CategoryFilter = value
		case constants.SettingSearchQuery:
			settings.SearchQuery = value
		case constants.SettingEnergyFilter:
			for _, v := range splitList(value) {
				e := Energy(v)
				if !e.Valid() {
					return Settings{}, fmt.Errorf("parsing %s: invalid energy %q", key, v)
				}
				settings.EnergyFilter = append(settings.EnergyFilter, e)
			}
		case constants.SettingSocialFilter:
			for _, v := range splitList(value) {
				s := Social(v)
				if !s.Valid() {
					return Settings{}, fmt.Errorf("parsing %s: invalid social %q", key, v)
				}
				settings.SocialFilter = append(settings.SocialFilter, s)
			}
		case constants.SettingVibeFilter:
			for _, v := range splitList(value) {
				vibe := Vibe(v)
				if !vibe.Valid() {
					return Settings{}, fmt.Errorf("parsing %s: invalid vibe %q", key, v)
				}
				settings.VibeFilter = append(settings.VibeFilter, vibe)
			}
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingTheme:          settings.Theme,
		constants.SettingCategoryFilter: settings.CategoryFilter,
		constants.SettingSearchQuery:    settings.SearchQuery,
		constants.SettingEnergyFilter:   joinList(settings.EnergyFilter),
		constants.SettingSocialFilter:   joinList(settings.SocialFilter),
		constants.SettingVibeFilter:     joinList(settings.VibeFilter),
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.Theme == "" {
		settings.Theme = constants.DefaultTheme
	}
	if settings.CategoryFilter == "" {
		settings.CategoryFilter = constants.DefaultCategoryFilter
	}
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func joinList[T ~string](items []T) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = string(item)
	}
	return strings.Join(parts, ",")
}
