package types

// Config represents the application configuration that can be loaded from a file.
// Valores definidos no ambiente têm precedência.
type Config struct {
	ParquetBucket  string `json:"parquet_bucket" yaml:"parquet_bucket" toml:"parquet_bucket"`
	AWSRegion      string `json:"aws_region" yaml:"aws_region" toml:"aws_region"`
	DBHost         string `json:"db_host" yaml:"db_host" toml:"db_host"`
	DBPort         int    `json:"db_port" yaml:"db_port" toml:"db_port"`
	DBUser         string `json:"db_user" yaml:"db_user" toml:"db_user"`
	DBPassword     string `json:"db_password" yaml:"db_password" toml:"db_password"`
	DBName         string `json:"db_name" yaml:"db_name" toml:"db_name"`
	DBSSLMode      string `json:"db_sslmode" yaml:"db_sslmode" toml:"db_sslmode"`
	PushgatewayURL string `json:"pushgateway_url" yaml:"pushgateway_url" toml:"pushgateway_url"`
}

// Environment é a configuração resolvida e validada usada na execução.
type Environment struct {
	ParquetBucket  string
	AWSRegion      string
	DBHost         string
	DBPort         int
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	PushgatewayURL string
}
