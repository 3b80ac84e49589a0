package models

// Config is the persisted quill configuration.
type Config struct {
	Blog Blog `yaml:"blog"`
	API  API  `yaml:"api"`
}

// Blog identifies the repository that backs the blog and where its
// posts live inside it.
type Blog struct {
	Owner    string `yaml:"owner"`
	Repo     string `yaml:"repo"`
	Branch   string `yaml:"branch"`
	PostsDir string `yaml:"posts_dir,omitempty"`
	Index    string `yaml:"index,omitempty"`
}

// API holds hosting-API endpoints and credentials. Token is stored
// encrypted (ENC[...] envelope) when written to disk; the keyring is
// preferred when available.
type API struct {
	BaseURL    string `yaml:"base_url,omitempty"`
	GraphQLURL string `yaml:"graphql_url,omitempty"`
	Token      string `yaml:"token,omitempty"`
}
