package config

var DefaultConfig Config
var DefaultTheme Theme

func init() {
	DefaultTheme = Theme{
		DrawCursorBackground:   true,
		DrawLastMoveBackground: true,
		Colors: ConfigColors{
			LandColor:       107,
			WaterColor:      31,
			TrapColor:       137,
			DenColor:        94,
			Player1Color:    196,
			Player2Color:    21,
			CursorColorFG:   232,
			CursorColorBG:   226,
			LastMoveColorBG: 58,
		},
		Symbols: ConfigSymbols{
			Water: '~',
			Trap:  '#',
			Den:   '@',
		},
	}

	DefaultConfig = Config{
		Theme: DefaultTheme,
		Rules: RulesConfig{
			MaxUndos: 3,
		},
		Storage: StorageConfig{
			Backend:       BackendFile,
			MongoDatabase: "junglequest",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
