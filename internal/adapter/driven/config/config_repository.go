package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/diillson/cur2-parquet-sync/internal/domain/repository"
	"github.com/diillson/cur2-parquet-sync/internal/shared/types"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// Variáveis de ambiente lidas na inicialização.
const (
	EnvParquetBucket  = "PARQUET_BUCKET"
	EnvAWSRegion      = "AWS_REGION"
	EnvDBHost         = "DB_HOST"
	EnvDBPort         = "DB_PORT"
	EnvDBUser         = "DB_USER"
	EnvDBPassword     = "DB_PASSWORD"
	EnvDBName         = "DB_NAME"
	EnvDBSSLMode      = "DB_SSLMODE"
	EnvPushgatewayURL = "PUSHGATEWAY_URL"
)

// ConfigRepositoryImpl implementa o ConfigRepository.
type ConfigRepositoryImpl struct {
	lookupEnv func(string) (string, bool)
}

// NewConfigRepository cria uma nova implementação do ConfigRepository.
func NewConfigRepository() repository.ConfigRepository {
	return &ConfigRepositoryImpl{lookupEnv: os.LookupEnv}
}

// LoadConfigFile carrega um arquivo de configuração TOML, YAML ou JSON.
func (r *ConfigRepositoryImpl) LoadConfigFile(filePath string) (*types.Config, error) {
	fileExtension := filepath.Ext(filePath)
	fileExtension = strings.ToLower(fileExtension)

	// Verifica se o arquivo existe
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error accessing config file: %w", err)
	}

	if fileInfo.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", filePath)
	}

	// Lê o arquivo
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
		return nil, fmt.Errorf("unsupported config file format: %s", fileExtension)
	}

	return &config, nil
}

// ResolveEnvironment combina o arquivo de configuração com o ambiente. O ambiente
// tem precedência; todas as variáveis obrigatórias ausentes são reportadas juntas.
func (r *ConfigRepositoryImpl) ResolveEnvironment(fileCfg *types.Config) (*types.Environment, error) {
	if fileCfg == nil {
		fileCfg = &types.Config{}
	}

	env := &types.Environment{
		ParquetBucket:  r.value(EnvParquetBucket, fileCfg.ParquetBucket),
		AWSRegion:      r.value(EnvAWSRegion, fileCfg.AWSRegion),
		DBHost:         r.value(EnvDBHost, fileCfg.DBHost),
		DBUser:         r.value(EnvDBUser, fileCfg.DBUser),
		DBPassword:     r.value(EnvDBPassword, fileCfg.DBPassword),
		DBName:         r.value(EnvDBName, fileCfg.DBName),
		DBSSLMode:      r.value(EnvDBSSLMode, fileCfg.DBSSLMode),
		PushgatewayURL: r.value(EnvPushgatewayURL, fileCfg.PushgatewayURL),
		DBPort:         fileCfg.DBPort,
	}

	if raw := r.value(EnvDBPort, ""); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil || port <= 0 || port > 65535 {
			return nil, fmt.Errorf("invalid %s %q", EnvDBPort, raw)
		}
		env.DBPort = port
	}

	required := []struct {
		name  string
		value string
	}{
		{EnvParquetBucket, env.ParquetBucket},
		{EnvAWSRegion, env.AWSRegion},
		{EnvDBHost, env.DBHost},
		{EnvDBUser, env.DBUser},
		{EnvDBPassword, env.DBPassword},
		{EnvDBName, env.DBName},
	}
	var missing []string
	for _, req := range required {
		if req.value == "" {
			missing = append(missing, req.name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", types.ErrMissingEnv, strings.Join(missing, ", "))
	}

	return env, nil
}

func (r *ConfigRepositoryImpl) value(name, fallback string) string {
	if v, ok := r.lookupEnv(name); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}
