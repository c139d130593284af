package config

// Settings is the part of the configuration that is safe to show to clients.
type Settings struct {
	Languages    []string `json:"languages"`
	HeaderLimit  int      `json:"header_limit"`
	EntryTimeout string   `json:"entry_timeout"`
}

type Service struct {
	config *Config
}

func NewService(cfg *Config) *Service {
	return &Service{config: cfg}
}

func (s *Service) RetrieveSettings() *Settings {
	return &Settings{
		Languages:    append([]string(nil), s.config.Languages...),
		HeaderLimit:  s.config.HeaderLimit,
		EntryTimeout: s.config.EntryTimeout.String(),
	}
}
