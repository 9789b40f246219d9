package config

import (
	"errors"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Files          []string          `mapstructure:"files"`
	Write          bool              `mapstructure:"write"`
	Inclusions     bool              `mapstructure:"inclusions"`
	Depopulate     bool              `mapstructure:"depopulate"`
	LogLevel       string            `mapstructure:"log_level"`
	CacheSize      int               `mapstructure:"cache_size"`
	CodeExtensions []string          `mapstructure:"code_extensions"`
	Recipes        map[string]string `mapstructure:"recipes"`
	RemapImports   map[string]string `mapstructure:"remap_imports"`
}

// C is the global config instance
var C Config

// Init initializes configuration with viper
func Init() error {
	viper.SetDefault("files", []string{"README.md"})
	viper.SetDefault("write", true)
	viper.SetDefault("inclusions", true)
	viper.SetDefault("depopulate", false)
	viper.SetDefault("log_level", "warn")
	viper.SetDefault("cache_size", 256) // Files kept in memory per run
	viper.SetDefault("code_extensions", []string{"js", "jsx", "ts", "tsx", "svelte", "go"})
	viper.SetDefault("recipes", map[string]string{})
	viper.SetDefault("remap_imports", map[string]string{})

	viper.SetConfigName("parkdown")
	viper.SetConfigType("yaml")

	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "parkdown"))
		viper.AddConfigPath(home)
	}
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("PARKDOWN")
	viper.AutomaticEnv()

	// A missing config file is fine, a broken one is not
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}

	return viper.Unmarshal(&C)
}

// GetFiles returns the files processed when none are given on the command line
func GetFiles() []string {
	var files []string
	for _, f := range viper.GetStringSlice("files") {
		files = append(files, expandTilde(f))
	}
	return files
}

// expandTilde expands ~ to the user's home directory
func expandTilde(path string) string {
	if len(path) == 0 {
		return path
	}
	if path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetWrite returns whether results are written back to their files
func GetWrite() bool {
	return viper.GetBool("write")
}

// GetInclusions returns whether inclusions are populated
func GetInclusions() bool {
	return viper.GetBool("inclusions")
}

// GetDepopulate returns whether populated inclusions are removed
func GetDepopulate() bool {
	return viper.GetBool("depopulate")
}

// GetLogLevel returns the log level name
func GetLogLevel() string {
	return viper.GetString("log_level")
}

// GetCacheSize returns the number of files cached per run
func GetCacheSize() int {
	return viper.GetInt("cache_size")
}

// GetCodeExtensions returns the extensions fenced as code when included
func GetCodeExtensions() []string {
	return viper.GetStringSlice("code_extensions")
}

// GetRecipes returns recipes preloaded into every register, sorted by id
func GetRecipes() [][2]string {
	recipes := viper.GetStringMapString("recipes")
	ids := make([]string, 0, len(recipes))
	for id := range recipes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	result := make([][2]string, 0, len(ids))
	for _, id := range ids {
		result = append(result, [2]string{id, recipes[id]})
	}
	return result
}

// GetRemapImports returns the import specifier mapping
func GetRemapImports() map[string]string {
	return viper.GetStringMapString("remap_imports")
}

// SetFiles sets files at runtime
func SetFiles(files []string) {
	viper.Set("files", files)
	C.Files = files
}
