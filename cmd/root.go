package cmd

import (
	"log"
	"time"

	"github.com/narvas12/mercor-assessment/internal/ai/gemini"
	"github.com/narvas12/mercor-assessment/internal/applicants"
	"github.com/narvas12/mercor-assessment/internal/shortlist"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "applicant-pipeline"
)

type Config struct {
	Airtable *AirtableConfig     `mapstructure:"airtable"`
	Criteria *shortlist.Criteria `mapstructure:"criteria"`
	AI       *AIConfig           `mapstructure:"ai"`
}

type AirtableConfig struct {
	APIKeyFile        string            `mapstructure:"api-key-file"`
	BaseID            string            `mapstructure:"base-id"`
	MaxRetries        int               `mapstructure:"max-retries"`
	BackoffBase       time.Duration     `mapstructure:"backoff-base"`
	RequestsPerSecond float64           `mapstructure:"requests-per-second"`
	Tables            applicants.Tables `mapstructure:"tables"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile     string                `mapstructure:"api-key-file"`
	Model          string                `mapstructure:"model"`
	MaxAttempts    int                   `mapstructure:"max-attempts"`
	MaxLogLength   int                   `mapstructure:"max-log-length"`
	CircuitBreaker *gemini.BreakerConfig `mapstructure:"circuit-breaker"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "applicant-pipeline moves applicant data between normalized tables and a compressed JSON document, shortlists leads and scores applicants with an LLM",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("airtable.api-key-file", "AIRTABLE_API_KEY_FILE"); err != nil {
		log.Fatalf("binding AIRTABLE_API_KEY_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is applicant-pipeline.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// The version command works without a config file.
	if versionCmd.CalledAs() != "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
