package domain

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

const (
	LocaleZhCN = "zh-CN"
	LocaleEnUS = "en-US"
)

type Settings struct {
	Locale            string `json:"locale" validate:"oneof=zh-CN en-US"`
	DecimalPlaces     int    `json:"decimalPlaces" validate:"oneof=2 4 6 8"`
	ThousandSeparator string `json:"thousandSeparator" validate:"thousand_sep"`
	Theme             Theme  `json:"theme" validate:"oneof=light dark auto"`
	AutoUpdate        bool   `json:"autoUpdate"`
}

func DefaultSettings() Settings {
	return Settings{
		Locale:            LocaleZhCN,
		DecimalPlaces:     2,
		ThousandSeparator: ",",
		Theme:             ThemeAuto,
		AutoUpdate:        true,
	}
}
