package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/diillson/agro-console/internal/domain/repository"
	"github.com/diillson/agro-console/internal/shared/types"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// Variáveis de ambiente reconhecidas. As NG_APP_* são aceitas por compatibilidade
// com o .env do front-end antigo.
const (
	EnvAPIURL        = "AGRO_API_URL"
	EnvAPIURLProd    = "AGRO_API_URL_PROD"
	EnvEnvironment   = "AGRO_ENV"
	EnvTimeout       = "AGRO_TIMEOUT"
	EnvListenAddr    = "AGRO_LISTEN_ADDR"
	EnvReportDir     = "AGRO_REPORT_DIR"
	EnvCORSOrigins   = "AGRO_CORS_ORIGINS"
	LegacyAPIURL     = "NG_APP_API_URL"
	LegacyAPIURLProd = "NG_APP_API_URL_PROD"
)

// ConfigRepositoryImpl implementa o ConfigRepository.
type ConfigRepositoryImpl struct{}

// NewConfigRepository cria uma nova implementação do ConfigRepository.
func NewConfigRepository() repository.ConfigRepository {
	return &ConfigRepositoryImpl{}
}

// LoadConfigFile carrega um arquivo de configuração TOML, YAML ou JSON.
func (r *ConfigRepositoryImpl) LoadConfigFile(filePath string) (*types.Config, error) {
	fileExtension := strings.ToLower(filepath.Ext(filePath))

	// Verifica se o arquivo existe
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error accessing config file: %w", err)
	}

	if fileInfo.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", filePath)
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config types.Config

	switch fileExtension {
	case ".toml":
		if err := toml.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing TOML file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing YAML file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing JSON file: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", types.ErrUnsupportedFormat, fileExtension)
	}

	return &config, nil
}

// WriteConfigFile grava a configuração no formato indicado pela extensão.
func (r *ConfigRepositoryImpl) WriteConfigFile(filePath string, cfg *types.Config) error {
	var (
		data []byte
		err  error
	)

	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".toml":
		data, err = toml.Marshal(*cfg)
	case ".yaml", ".yml":
		data, err = yaml.Marshal(cfg)
	case ".json":
		data, err = json.MarshalIndent(cfg, "", "  ")
		data = append(data, '\n')
	default:
		return fmt.Errorf("%w: %s", types.ErrUnsupportedFormat, filepath.Ext(filePath))
	}
	if err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}

	if dir := filepath.Dir(filePath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("error creating config directory '%s': %w", dir, err)
		}
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}

// LoadEnv carrega os arquivos .env informados (ou ".env" por padrão) sem
// sobrescrever variáveis já exportadas, e monta a configuração a partir do ambiente.
func (r *ConfigRepositoryImpl) LoadEnv(envFiles ...string) (*types.Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error loading env file %s: %w", f, err)
		}
	}

	cfg := &types.Config{
		APIURL:      firstEnv(EnvAPIURL, LegacyAPIURL),
		APIURLProd:  firstEnv(EnvAPIURLProd, LegacyAPIURLProd),
		Environment: os.Getenv(EnvEnvironment),
		ListenAddr:  os.Getenv(EnvListenAddr),
		ReportDir:   os.Getenv(EnvReportDir),
	}
	if v := os.Getenv(EnvCORSOrigins); v != "" {
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
			}
		}
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		timeout, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", EnvTimeout, v, err)
		}
		cfg.TimeoutSeconds = timeout
	}
	return cfg, nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

// Merge aplica sobre base os valores não vazios de override.
func Merge(base, override *types.Config) *types.Config {
	out := *base
	if override == nil {
		return &out
	}
	if override.APIURL != "" {
		out.APIURL = override.APIURL
	}
	if override.APIURLProd != "" {
		out.APIURLProd = override.APIURLProd
	}
	if override.Environment != "" {
		out.Environment = override.Environment
	}
	if override.TimeoutSeconds > 0 {
		out.TimeoutSeconds = override.TimeoutSeconds
	}
	if override.ReportDir != "" {
		out.ReportDir = override.ReportDir
	}
	if override.ListenAddr != "" {
		out.ListenAddr = override.ListenAddr
	}
	if len(override.CORSOrigins) > 0 {
		out.CORSOrigins = append([]string(nil), override.CORSOrigins...)
	}
	if override.Verbose {
		out.Verbose = true
	}
	return &out
}

// Defaults devolve a configuração padrão.
func Defaults() *types.Config {
	return &types.Config{
		Environment:    types.EnvDevelopment,
		TimeoutSeconds: types.DefaultTimeoutSeconds,
		ListenAddr:     types.DefaultListenAddr,
	}
}
