package config

import "os"

type StorageConfig struct {
	Region string
	Bucket string
}

func LoadStorageConfig() StorageConfig {
	return StorageConfig{
		Region: os.Getenv("AWS_REGION"),
		Bucket: os.Getenv("AWS_S3_BUCKET"),
	}
}

// Enabled reports whether avatar storage is configured.
func (c StorageConfig) Enabled() bool {
	return c.Bucket != ""
}
