package store

// App is a single dashboard shortcut tile.
type App struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Icon string `json:"icon"`
}

// AppGroup is a named bucket of apps. App names and URLs are unique
// across the whole collection, not just within one group.
type AppGroup struct {
	Group string `json:"group"`
	Apps  []App  `json:"apps"`
}

type Bookmark struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Icon string `json:"icon"`
}

// Service is a monitored host reachable by IPv4 address.
type Service struct {
	Name string `json:"name"`
	IP   string `json:"ip"`
}

// Settings is the per-dashboard settings document.
type Settings struct {
	Weather WeatherSettings `json:"weather"`
	Search  SearchSettings  `json:"search"`
	Theme   ThemeSettings   `json:"theme"`
}

type WeatherSettings struct {
	APIKey  string `json:"apiKey"`
	City    string `json:"city"`
	Country string `json:"country"`
}

type SearchSettings struct {
	Provider  string            `json:"provider"`
	Providers map[string]string `json:"providers"`
}

type ThemeSettings struct {
	Mode        string `json:"mode"`
	AccentColor string `json:"accentColor"`
}

// DefaultSettings is persisted lazily the first time settings are read.
func DefaultSettings() Settings {
	return Settings{
		Weather: WeatherSettings{City: "Palmerston North", Country: "NZ"},
		Search: SearchSettings{
			Provider: "duckduckgo",
			Providers: map[string]string{
				"duckduckgo": "https://duckduckgo.com/?q=",
				"google":     "https://www.google.com/search?q=",
				"bing":       "https://www.bing.com/search?q=",
			},
		},
		Theme: ThemeSettings{Mode: "dark", AccentColor: "#00bfa5"},
	}
}
