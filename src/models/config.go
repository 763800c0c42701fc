package models

// MConfig Structure
type MConfig struct {
	Name        string             `yaml:"name"`
	Host        string             `yaml:"host"`
	Port        int                `yaml:"port"`
	LogLevel    string             `yaml:"log_level"`
	ObjectStore MObjectStoreConfig `yaml:"object_store"`
	Warehouse   MWarehouseConfig   `yaml:"warehouse"`
	Network     MNetworkConfig     `yaml:"network"`
	Pipeline    MPipelineConfig    `yaml:"pipeline"`
	Scheduler   MSchedulerConfig   `yaml:"scheduler"`
}

type MObjectStoreConfig struct {
	Endpoint        string `yaml:"endpoint"`
	AccessKey       string `yaml:"access_key"`
	SecretKey       string `yaml:"secret_key"`
	UseSSL          bool   `yaml:"use_ssl"`
	RawBucket       string `yaml:"raw_bucket"`
	ProcessedBucket string `yaml:"processed_bucket"`
}

type MWarehouseConfig struct {
	DBPath string `yaml:"db_path"`
}

type MNetworkConfig struct {
	RequestTimeout int    `yaml:"timeout"`
	UserAgent      string `yaml:"user_agent"`
}

type MPipelineConfig struct {
	Symbol       string `yaml:"symbol"`
	StartDate    string `yaml:"start_date"` // YYYY-MM-DD
	NewsFilePath string `yaml:"news_file_path"`
}

type MSchedulerConfig struct {
	Enabled           bool `yaml:"enabled"`
	IntervalHours     int  `yaml:"interval_hours"`
	Retries           int  `yaml:"retries"`
	RetryDelaySeconds int  `yaml:"retry_delay_seconds"`
}
