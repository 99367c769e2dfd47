package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/hindiname/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hindiname [name]",
		Short: "Hindi names for Uttar Pradesh health facilities",
		Long: `hindiname translates English health facility names from Uttar Pradesh
into Hindi (Devanagari), e.g. "CHC BABHANI (SONBHADRA)".

Facility types (CHC, PHC, district, women, combined and mental hospitals)
are recognized from dictionary templates and the place names are looked up
in the dictionary. Words it does not know are kept as they are and the
result is flagged for review.

Examples:
  hindiname "CHC BABHANI (SONBHADRA)"             # Translate one name
  hindiname --batch hospitals.csv                 # Fill the hindi_name column
  hindiname --batch hospitals.csv --sanitize      # Strip English from hindi_name
  hindiname --batch hospitals.csv --suggest       # Ask for spellings of unknown words
  hindiname --lookup "babhani" --store names.db   # Search earlier results`,
		Args:    cobra.MaximumNArgs(1),
		Version: internal.Version,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.hindiname.yaml)")

	// Local flags
	cmd.Flags().StringSliceVarP(&flags.DictionaryFiles, "dictionary", "d", nil, "Additional dictionary YAML file (repeatable, layered on the built-in one)")
	cmd.Flags().BoolVar(&flags.NoDefaultDictionary, "no-default-dictionary", false, "Do not load the built-in dictionary")
	cmd.Flags().BoolVar(&flags.Explain, "explain", false, "Show facility type, template and unknown words for a single name")
	cmd.Flags().BoolVar(&flags.ListTemplates, "list-templates", false, "List facility templates in the order they are tried")
	cmd.Flags().BoolVar(&flags.ListTerms, "list-terms", false, "List all dictionary terms")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List available OpenAI chat models for the current API key")

	// Batch flags
	cmd.Flags().StringVar(&flags.BatchFile, "batch", "", "Translate the names of a CSV file")
	cmd.Flags().StringVarP(&flags.OutputFile, "output", "o", "", "Output CSV file (default: rewrite the batch file in place)")
	cmd.Flags().StringVar(&flags.NameColumn, "name-column", flags.NameColumn, "CSV column with the English names")
	cmd.Flags().StringVar(&flags.HindiColumn, "hindi-column", flags.HindiColumn, "CSV column for the Hindi names")
	cmd.Flags().StringVar(&flags.FlagColumn, "flag-column", "", "CSV column marking rows that need review (disabled when empty)")
	cmd.Flags().IntVarP(&flags.Workers, "workers", "w", flags.Workers, "Number of rows translated in parallel")
	cmd.Flags().BoolVar(&flags.Overwrite, "overwrite", false, "Recompute rows that already have a Hindi name")
	cmd.Flags().BoolVar(&flags.Sanitize, "sanitize", false, "Strip English fragments from the Hindi column instead of translating")
	cmd.Flags().BoolVar(&flags.NoBackup, "no-backup", false, "Do not archive the batch file before rewriting it in place")

	// Store flags
	cmd.Flags().StringVar(&flags.StorePath, "store", "", "SQLite database to record translations in")
	cmd.Flags().StringVar(&flags.Lookup, "lookup", "", "Search recorded translations (needs --store)")
	cmd.Flags().BoolVar(&flags.ListFlagged, "list-flagged", false, "List recorded translations that need review (needs --store)")

	// Suggestion flags
	cmd.Flags().BoolVar(&flags.Suggest, "suggest", false, "Ask a language model for spellings of unknown words after a batch run")
	cmd.Flags().StringVar(&flags.SuggestProvider, "suggest-provider", flags.SuggestProvider, "Suggestion provider: openai or gemini")
	cmd.Flags().StringVar(&flags.SuggestOutput, "suggest-output", "", "Write suggested terms to this YAML file (default: stdout)")
	cmd.Flags().StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI chat model for suggestions")
	cmd.Flags().StringVar(&flags.GeminiModel, "gemini-model", flags.GeminiModel, "Gemini model for suggestions")

	// Logging and metrics flags
	cmd.Flags().StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn, error")
	cmd.Flags().StringVar(&flags.LogFormat, "log-format", flags.LogFormat, "Log format: text or json")
	cmd.Flags().StringVar(&flags.MetricsFile, "metrics-file", "", "Write batch metrics in Prometheus textfile format")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

// configKeys maps viper keys to flag names.
var configKeys = map[string]string{
	"dictionary.files":      "dictionary",
	"dictionary.no_default": "no-default-dictionary",
	"batch.name_column":     "name-column",
	"batch.hindi_column":    "hindi-column",
	"batch.flag_column":     "flag-column",
	"batch.workers":         "workers",
	"batch.overwrite":       "overwrite",
	"store.path":            "store",
	"log.level":             "log-level",
	"log.format":            "log-format",
	"suggest.provider":      "suggest-provider",
	"suggest.openai_model":  "openai-model",
	"suggest.gemini_model":  "gemini-model",
	"metrics.file":          "metrics-file",
}

func bindFlagsToViper(cmd *cobra.Command) {
	for key, name := range configKeys {
		viper.BindPFlag(key, cmd.Flags().Lookup(name))
	}
}

// ApplyConfig copies the effective settings into flags. Viper resolves
// each key from the command line first, then the environment, then the
// config file, then the flag default.
func ApplyConfig(flags *Flags) {
	flags.DictionaryFiles = viper.GetStringSlice("dictionary.files")
	flags.NoDefaultDictionary = viper.GetBool("dictionary.no_default")
	flags.NameColumn = viper.GetString("batch.name_column")
	flags.HindiColumn = viper.GetString("batch.hindi_column")
	flags.FlagColumn = viper.GetString("batch.flag_column")
	flags.Workers = viper.GetInt("batch.workers")
	flags.Overwrite = viper.GetBool("batch.overwrite")
	flags.StorePath = viper.GetString("store.path")
	flags.LogLevel = viper.GetString("log.level")
	flags.LogFormat = viper.GetString("log.format")
	flags.SuggestProvider = viper.GetString("suggest.provider")
	flags.OpenAIModel = viper.GetString("suggest.openai_model")
	flags.GeminiModel = viper.GetString("suggest.gemini_model")
	flags.MetricsFile = viper.GetString("metrics.file")
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".hindiname" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".hindiname")
	}

	// Environment variables, e.g. HINDINAME_BATCH_WORKERS for batch.workers
	viper.SetEnvPrefix("HINDINAME")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("suggest.openai_key")
}

// GetGeminiKey retrieves the Google API key from environment or config
func GetGeminiKey() string {
	for _, env := range []string{"GOOGLE_API_KEY", "GEMINI_API_KEY"} {
		if key := os.Getenv(env); key != "" {
			return key
		}
	}
	return viper.GetString("suggest.gemini_key")
}
