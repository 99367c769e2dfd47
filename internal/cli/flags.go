package cli

import "runtime"

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile             string
	DictionaryFiles     []string
	NoDefaultDictionary bool
	Explain             bool
	ListTemplates       bool
	ListTerms           bool
	ListModels          bool

	// Batch flags
	BatchFile   string
	OutputFile  string
	NameColumn  string
	HindiColumn string
	FlagColumn  string
	Workers     int
	Overwrite   bool
	Sanitize    bool
	NoBackup    bool

	// Store flags
	StorePath   string
	Lookup      string
	ListFlagged bool

	// Suggestion flags
	Suggest         bool
	SuggestProvider string
	SuggestOutput   string
	OpenAIModel     string
	GeminiModel     string

	// Logging and metrics flags
	LogLevel    string
	LogFormat   string
	MetricsFile string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		NameColumn:      "lab_name",
		HindiColumn:     "hindi_name",
		Workers:         runtime.NumCPU(),
		SuggestProvider: "openai",
		OpenAIModel:     "gpt-4o-mini",
		GeminiModel:     "gemini-2.0-flash",
		LogLevel:        "info",
		LogFormat:       "text",
	}
}
