package config

// Analyzer names accepted by ranking.analyzer.
const (
	AnalyzerPlain    = "plain"
	AnalyzerStandard = "standard"
)

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.MaxUploadMB == 0 {
		cfg.Server.MaxUploadMB = 32
	}
	if cfg.Server.Title == "" {
		cfg.Server.Title = "Résumé Screening & Ranking"
	}
	if cfg.Ranking.Analyzer == "" {
		cfg.Ranking.Analyzer = AnalyzerPlain
	}
	if cfg.Ranking.MinTokenLength == 0 {
		cfg.Ranking.MinTokenLength = 2
	}
	if cfg.Ranking.PreviewChars == 0 {
		cfg.Ranking.PreviewChars = 160
	}
	if cfg.Extract.Extensions == nil {
		cfg.Extract.Extensions = []string{".pdf", ".docx", ".txt", ".md"}
	}
}
