// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: dotted-key editing of the TOML config file
//   - PromptStore: user-editable interview prompt templates
package file
