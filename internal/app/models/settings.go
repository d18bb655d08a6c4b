package models

// Setting keys stored in the 'settings' table
const (
	SettingTheme      = "theme"
	SettingDefaultTab = "default_tab"
)

// Preferences is the typed view of the settings table. It is loaded once at
// start and shared by reference with the components that read it.
type Preferences struct {
	Theme      string `json:"theme"`
	DefaultTab string `json:"defaultTab"`
}

// DefaultPreferences mirrors the rows seeded by the initial migration
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:      "system",
		DefaultTab: "Accounts",
	}
}
