package models

// Settings holds the user's planner preferences
type Settings struct {
	Theme          string   `json:"theme"`           // chill, adventure or social
	CategoryFilter string   `json:"category_filter"` // catalog category id, "all" for no filter
	SearchQuery    string   `json:"search_query"`    // last catalog search
	EnergyFilter   []Energy `json:"energy_filter"`
	SocialFilter   []Social `json:"social_filter"`
	VibeFilter     []Vibe   `json:"vibe_filter"`
}
