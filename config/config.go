package config

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spf13/viper"

	"itube-transcoder/constant"
)

type Config struct {
	App             App
	WorkspaceDir    string
	Packaging       constant.PackagingMode
	SourceBucket    string
	SourceKey       string
	ProcessedBucket string
	Backend         Backend
	Storage         *minio.Client
	AWS             aws.Config
}

type App struct {
	Environment string
}

type Backend struct {
	URL     string
	Service string
}

var requiredSettings = []string{
	"REGION_NAME",
	"AWS_ACCESS_KEY_ID",
	"AWS_SECRET_ACCESS_KEY",
	"S3_BUCKET",
	"S3_KEY",
	"S3_PROCESSED_VIDEOS_BUCKET",
	"BACKEND_URL",
}

// Load reads the process environment (plus an optional .env file) and builds
// the configuration for one job, including the object store client and the
// AWS config used for request signing.
func Load(ctx context.Context) (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	_ = viper.ReadInConfig() // .env is optional, real environment wins
	viper.AutomaticEnv()

	viper.SetDefault("S3_ENDPOINT", "s3.amazonaws.com")
	viper.SetDefault("BACKEND_SERVICE", "execute-api")
	viper.SetDefault("PACKAGING_MODE", string(constant.PackagingDASH))
	viper.SetDefault("WORKSPACE_DIR", "/tmp/workspace")
	viper.SetDefault("APP_ENV", constant.EnvironmentProduction.String())

	for _, key := range requiredSettings {
		if viper.GetString(key) == "" {
			return nil, fmt.Errorf("missing required setting %s", key)
		}
	}

	packaging, err := constant.ParsePackagingMode(viper.GetString("PACKAGING_MODE"))
	if err != nil {
		return nil, err
	}

	region := viper.GetString("REGION_NAME")

	storageClient, err := minio.New(viper.GetString("S3_ENDPOINT"), &minio.Options{
		Creds: credentials.NewStaticV4(
			viper.GetString("AWS_ACCESS_KEY_ID"),
			viper.GetString("AWS_SECRET_ACCESS_KEY"),
			"",
		),
		Secure: true,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("create object store client: %w", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &Config{
		App: App{
			Environment: viper.GetString("APP_ENV"),
		},
		WorkspaceDir:    viper.GetString("WORKSPACE_DIR"),
		Packaging:       packaging,
		SourceBucket:    viper.GetString("S3_BUCKET"),
		SourceKey:       viper.GetString("S3_KEY"),
		ProcessedBucket: viper.GetString("S3_PROCESSED_VIDEOS_BUCKET"),
		Backend: Backend{
			URL:     viper.GetString("BACKEND_URL"),
			Service: viper.GetString("BACKEND_SERVICE"),
		},
		Storage: storageClient,
		AWS:     awsCfg,
	}, nil
}
