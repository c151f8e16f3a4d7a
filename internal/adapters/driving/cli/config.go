package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/interview-pilot/internal/adapters/driven/config/file"
	"github.com/custodia-labs/interview-pilot/internal/config"
	"github.com/custodia-labs/interview-pilot/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and edit the config file",
	Long: `Reads and writes keys in the TOML config file using dotted names such as
vector.backend or openai.api_key.

Environment variables and .env still take precedence over the file.`,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print the effective value of a key",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Write a key to the config file",
	Long: `Writes a key to the config file. Numbers and booleans are stored as such.
Omit the value for secrets to be prompted without echo.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runConfigSet,
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset [key]",
	Short: "Remove a key from the config file",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigUnset,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every key with its effective value",
	Args:  cobra.NoArgs,
	RunE:  runConfigList,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Println(configPath)
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// knownKeys lists the dotted keys the config struct understands.
func knownKeys() (map[string]any, error) {
	return file.FlattenTOML(config.Default())
}

func checkKey(key string) error {
	keys, err := knownKeys()
	if err != nil {
		return err
	}
	if _, ok := keys[key]; !ok {
		return fmt.Errorf("%w: unknown config key %q (see 'pilot config list')", domain.ErrInvalidInput, key)
	}
	return nil
}

// isSecret reports whether a key holds a credential.
func isSecret(key string) bool {
	return strings.HasSuffix(key, "api_key") || strings.HasSuffix(key, "api_secret")
}

func mask(key string, value any) any {
	s, ok := value.(string)
	if !ok || !isSecret(key) || s == "" {
		return value
	}
	if len(s) <= 8 {
		return "********"
	}
	return s[:4] + "…" + s[len(s)-4:]
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	key := args[0]
	if err := checkKey(key); err != nil {
		return err
	}
	if appConfig == nil {
		return errConfigNotLoaded
	}

	effective, err := file.FlattenTOML(appConfig)
	if err != nil {
		return err
	}
	cmd.Println(fmt.Sprint(mask(key, effective[key])))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	if err := checkKey(key); err != nil {
		return err
	}
	if err := ensureConfigStore(); err != nil {
		return err
	}

	var raw string
	if len(args) == 2 {
		raw = args[1]
	} else {
		cmd.Printf("Value for %s: ", key)
		raw = readSecret(cmd)
	}
	if raw == "" {
		return fmt.Errorf("%w: empty value for %s", domain.ErrInvalidInput, key)
	}

	value := file.ParseValue(raw)
	if isSecret(key) {
		value = raw
	}
	if err := configStore.Set(key, value); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}

	cmd.Printf("Set %s = %v\n", key, mask(key, value))
	return nil
}

func runConfigUnset(cmd *cobra.Command, args []string) error {
	key := args[0]
	if err := checkKey(key); err != nil {
		return err
	}
	if err := ensureConfigStore(); err != nil {
		return err
	}
	if err := configStore.Unset(key); err != nil {
		return fmt.Errorf("removing %s: %w", key, err)
	}
	cmd.Printf("Removed %s\n", key)
	return nil
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	if appConfig == nil {
		return errConfigNotLoaded
	}
	if err := ensureConfigStore(); err != nil {
		return err
	}

	effective, err := file.FlattenTOML(appConfig)
	if err != nil {
		return err
	}
	inFile := make(map[string]bool)
	for _, k := range configStore.Keys() {
		inFile[k] = true
	}

	keys := make([]string, 0, len(effective))
	for k := range effective {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		line := fmt.Sprintf("%s = %v", k, mask(k, effective[k]))
		if inFile[k] {
			line += " " + styled(cmd, mutedStyle, "(file)")
		}
		cmd.Println(line)
	}
	return nil
}
