package config

type AppConfig struct {
	Bot     BotConfig
	Session SessionConfig
	Log     LogConfig
}

func LoadApp() (AppConfig, error) {
	logCfg, err := LoadLog()
	if err != nil {
		return AppConfig{}, err
	}
	botCfg, err := LoadBot()
	if err != nil {
		return AppConfig{}, err
	}
	sessionCfg, err := LoadSession()
	if err != nil {
		return AppConfig{}, err
	}
	return AppConfig{
		Bot:     botCfg,
		Session: sessionCfg,
		Log:     logCfg,
	}, nil
}
