package types

// Config represents the application configuration that can be loaded from a file.
type Config struct {
	APIURL         string `json:"api_url" yaml:"api_url" toml:"api_url"`
	APIURLProd     string `json:"api_url_prod,omitempty" yaml:"api_url_prod,omitempty" toml:"api_url_prod,omitempty"`
	Environment    string `json:"environment,omitempty" yaml:"environment,omitempty" toml:"environment,omitempty"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty" toml:"timeout_seconds,omitempty"`
	ReportDir      string `json:"report_dir,omitempty" yaml:"report_dir,omitempty" toml:"report_dir,omitempty"`
	ListenAddr     string `json:"listen_addr,omitempty" yaml:"listen_addr,omitempty" toml:"listen_addr,omitempty"`
	Verbose        bool   `json:"verbose,omitempty" yaml:"verbose,omitempty" toml:"verbose,omitempty"`

	// CORSOrigins libera origens externas para os endpoints JSON do console web.
	CORSOrigins []string `json:"cors_origins,omitempty" yaml:"cors_origins,omitempty" toml:"cors_origins,omitempty"`
}

const (
	EnvDevelopment = "dev"
	EnvProduction  = "prod"

	DefaultTimeoutSeconds = 30
	DefaultListenAddr     = ":4200"
)

// IsProduction indica se o ambiente selecionado é o de produção.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// ActiveAPIURL devolve a URL base da API para o ambiente selecionado.
func (c *Config) ActiveAPIURL() string {
	if c.IsProduction() {
		return c.APIURLProd
	}
	return c.APIURL
}
