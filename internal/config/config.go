package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Local & Github Secrets (Fill up for local development)
	DBConnectionString string `envconfig:"DB_CONNECTION_STRING" required:"true"`
	JWTSecret          string `envconfig:"SUPABASE_JWT_SECRET"`
	S3URL              string `envconfig:"SUPABASE_S3_URL" required:"true"`
	S3Bucket           string `envconfig:"SUPABASE_S3_BUCKET" required:"true"`
	S3Region           string `envconfig:"SUPABASE_S3_REGION" required:"true"`
	S3AccessKey        string `envconfig:"SUPABASE_S3_ACCESS_KEY" required:"true"`
	S3SecretKey        string `envconfig:"SUPABASE_S3_SECRET_KEY" required:"true"`
	Environment        string `envconfig:"ENV" default:"development"`

	// Local Secrets (Fill up for local development)
	Port               string `envconfig:"PORT" default:"8080"`
	PubSubEmulatorHost string `envconfig:"PUBSUB_EMULATOR_HOST"`
	RedisAddr          string `envconfig:"REDIS_ADDR"`

	// Course events
	PubSubCourseEventsTopic string `envconfig:"PUBSUB_COURSE_EVENTS_TOPIC" default:"course-events"`

	// Content delivery
	MediaURLTTL        time.Duration `envconfig:"MEDIA_URL_TTL" default:"15m"`
	CoverUploadURLTTL  time.Duration `envconfig:"COVER_UPLOAD_URL_TTL" default:"15m"`
	EnrollmentCacheTTL time.Duration `envconfig:"ENROLLMENT_CACHE_TTL" default:"5m"`
	ResolveConcurrency int           `envconfig:"RESOLVE_CONCURRENCY" default:"8"`
	JWTSecretName      string        `envconfig:"JWT_SECRET_NAME"`
	CoverObjectPrefix  string        `envconfig:"COVER_OBJECT_PREFIX" default:"covers"`

	// GitHub Secrets (No need to fill up for local development)
	GCPProjectID        string `envconfig:"GCP_PROJECT_ID"`
	GCPProjectIDLocal   string `envconfig:"GCP_PROJECT_ID_LOCAL"`
	GCPProjectIDStaging string `envconfig:"GCP_PROJECT_ID_STAGING"`
	GCPProjectIDProd    string `envconfig:"GCP_PROJECT_ID_PROD"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// GetGCPProjectID returns the appropriate GCP project ID based on the environment.
// Local if the emulator host is set, otherwise the explicit project, then staging, then prod.
func (c *Config) GetGCPProjectID() string {
	if c.PubSubEmulatorHost != "" && c.GCPProjectIDLocal != "" {
		return c.GCPProjectIDLocal
	}
	if c.GCPProjectID != "" {
		return c.GCPProjectID
	}
	if c.GCPProjectIDStaging != "" {
		return c.GCPProjectIDStaging
	}
	return c.GCPProjectIDProd
}
