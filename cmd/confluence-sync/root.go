/*
Copyright © 2025 pdekker
*/

package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"reflect"
	"strconv"
	"strings"

	"github.com/fatih/structs"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

var (
	// Store the result of binding cobra flags
	Config string
	Debug  bool

	// Command to run to retrieve the Confluence API token; alternative to
	// CONF_TOKEN for people who keep secrets in a password manager.
	AuthTokenCmd []string

	AuthUsername string
	BaseURL      string
	ContentDir   string

	ParsedConfig YamlConfig

	// ConfigActual is the config path after env fallback and homedir
	// expansion; `config which` reports it.
	ConfigActual string
)

// Build the cobra command that handles our command line tool.
var rootCmd = &cobra.Command{
	Use:   "confluence-sync",
	Short: "Synchronise a Confluence page tree with local flat files",
	Long: `
Download a Confluence page and its descendants into flat local files with
front-matter metadata, edit them with whatever tools you like, and upload the
changed ones back.  Change detection is hash-based; updates use the server's
version numbers for optimistic concurrency.
`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// You can bind cobra and a config file in a few locations, but
		// PersistentPreRunE on the root command works well.
		if err := initializeConfig(cmd); err != nil {
			return fmt.Errorf("confluence-sync: failed to initialise config: %w", err)
		}
		return nil
	},
}

func init() {
	// Define cobra flags, the default value has the lowest (least significant) precedence
	rootCmd.PersistentFlags().StringVar(&Config, "config", "", "config file location (default: ~/.config/confluence-sync.yaml, respects CONFLUENCE_SYNC_CONFIG)")
	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "display debug output")
	rootCmd.PersistentFlags().StringSliceVar(&AuthTokenCmd, "auth-token-cmd", []string{}, "shell command to retrieve Atlassian API token")
	rootCmd.PersistentFlags().StringVar(&AuthUsername, "auth-username", "", "your Atlassian account email")
	rootCmd.PersistentFlags().StringVar(&BaseURL, "base-url", "", "your Confluence site, e.g. https://ORG.atlassian.net")
	rootCmd.PersistentFlags().StringVar(&ContentDir, "dir", "", "directory holding confluence.config, .env and the page files (default: current directory)")
}

func initializeConfig(cmd *cobra.Command) error {
	explicit := true
	if Config == "" {
		// Did the user provide an ENV?
		envConfig := os.Getenv("CONFLUENCE_SYNC_CONFIG")
		if envConfig != "" {
			Config = envConfig
		} else {
			// As fallback, search for config in home XDG-ish directory
			Config = "~/.config/confluence-sync.yaml"
			explicit = false
		}
	}
	config, err := homedir.Expand(Config)
	if err != nil {
		return fmt.Errorf("confluence-sync: unable to expand homedir: %w", err)
	}
	ConfigActual = config

	if _, err := os.Stat(ConfigActual); errors.Is(err, os.ErrNotExist) {
		if explicit {
			return fmt.Errorf("confluence-sync: specified config file does not exist: %w", err)
		}
		// no config file is fine; flags, confluence.config and .env remain.
		return nil
	}

	yamlFile, err := os.ReadFile(ConfigActual)
	if err != nil {
		return fmt.Errorf("confluence-sync: error reading config file: %w", err)
	}

	// I'd like to bark if a user sets a flag we don't recognise:
	if err := yaml.UnmarshalStrict(yamlFile, &ParsedConfig); err != nil {
		return fmt.Errorf("confluence-sync: issue parsing config file: %w", err)
	}

	if err := bindFlags(cmd, ParsedConfig); err != nil {
		return fmt.Errorf("confluence-sync: failed to bind flags: %w", err)
	}

	return nil
}

type YamlConfig struct {
	DryRun     *bool `yaml:"dry-run"`
	WithVCR    *bool `yaml:"with-vcr"`
	SinglePage *bool `yaml:"single-page"`

	MaxDepth *int `yaml:"max-depth"`

	BaseURL      string   `yaml:"base-url"`
	AuthUsername string   `yaml:"auth-username"`
	AuthTokenCmd []string `yaml:"auth-token-cmd"`
	Dir          string   `yaml:"dir"`
	Format       string   `yaml:"format"`
}

// Bind each cobra flag to its associated config file entry.  A flag set on
// the command line always beats the file.
func bindFlags(cmd *cobra.Command, v YamlConfig) error {
	for _, field := range structs.Fields(v) {
		key := field.Tag("yaml")
		if key == "" {
			return fmt.Errorf("confluence-sync: could not retrieve struct tag 'yaml'")
		}
		if flag := cmd.Flag(key); flag == nil {
			// hmm... the flag is unknown.  but that can legitimately happen if
			// you're running e.g. `download` which has no `dry-run` flag but
			// your YAML file does define that flag...
			continue
		}
		if !cmd.Flags().Changed(key) {
			switch field.Kind() {
			case reflect.Ptr:
				switch p := field.Value().(type) {
				case *bool:
					if p != nil {
						cmd.Flags().Set(key, fmt.Sprintf("%v", *p))
					}
				case *int:
					if p != nil {
						cmd.Flags().Set(key, strconv.Itoa(*p))
					}
				default:
					return fmt.Errorf("confluence-sync: found unrecognised field: %+v", field)
				}

			case reflect.String:
				s, ok := field.Value().(string)
				if !ok {
					return fmt.Errorf("confluence-sync: found unrecognised field: %+v", field)
				}
				if s != "" {
					cmd.Flags().Set(key, s)
				}

			case reflect.Slice:
				ss, ok := field.Value().([]string)
				if !ok {
					return fmt.Errorf("confluence-sync: found unrecognised field: %+v", field)
				}
				for _, s := range ss {
					// yes, repeatedly calling Set() appends to the slice...
					cmd.Flags().Set(key, s)
				}

			default:
				return fmt.Errorf("confluence-sync: found unrecognised field: %+v", field)
			}
		}
	}

	return nil
}

// resolveToken runs --auth-token-cmd if one was given; the first output line
// is the token.  An empty return means "consult the environment instead".
func resolveToken() (string, error) {
	if len(AuthTokenCmd) == 0 {
		return "", nil
	}

	output, err := exec.Command(AuthTokenCmd[0], AuthTokenCmd[1:]...).Output()
	if err != nil {
		return "", fmt.Errorf("confluence-sync: couldn't execute auth-token-cmd '%v': %w", AuthTokenCmd, err)
	}

	return strings.Split(string(output), "\n")[0], nil
}

// contentDir resolves the content directory: explicit argument, then --dir,
// then the current directory, homedir-expanded.
func contentDir(arg string) (string, error) {
	dir := arg
	if dir == "" {
		dir = ContentDir
	}
	if dir == "" {
		dir = "."
	}

	expanded, err := homedir.Expand(dir)
	if err != nil {
		return "", fmt.Errorf("confluence-sync: unable to expand homedir: %w", err)
	}

	return expanded, nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	// Flags are only available after (or inside, presumably) the .Execute() thing.
	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("confluence-sync: execution error: %w", err)
	}

	return nil
}
