package config

// Config is the top-level minpai configuration, corresponding to
// .minpai.yml.
type Config struct {
	BaseURL        string `yaml:"base_url" koanf:"base_url"`
	DataDir        string `yaml:"data_dir" koanf:"data_dir"`
	TimeoutSeconds int    `yaml:"timeout_seconds" koanf:"timeout_seconds"`
	Quiz           Quiz   `yaml:"quiz" koanf:"quiz"`
	Serve          Serve  `yaml:"serve" koanf:"serve"`
}

// Quiz holds quiz-page settings.
type Quiz struct {
	ExamMinutes int `yaml:"exam_minutes" koanf:"exam_minutes"`
}

// Serve holds local-gateway settings.
type Serve struct {
	Port     int  `yaml:"port" koanf:"port"`
	AllowAll bool `yaml:"allow_all" koanf:"allow_all"` // allow all CORS origins (dev mode)
}
