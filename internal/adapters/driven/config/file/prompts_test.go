package file

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/interview-pilot/internal/core/ports/driven"
)

func TestPromptStore_ImplementsInterface(t *testing.T) {
	var _ driven.PromptStore = (*PromptStore)(nil)
}

func TestNewPromptStore_WithCustomDir(t *testing.T) {
	dir := t.TempDir()

	store, err := NewPromptStore(dir)

	require.NoError(t, err)
	assert.Equal(t, dir, store.Dir())
}

func TestNewPromptStore_DefaultDir(t *testing.T) {
	// Skip if we can't determine home dir
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home directory")
	}

	store, err := NewPromptStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".interview-pilot", "prompts"), store.Dir())
}

func TestPromptStore_Load_CreatesDefaultFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	// Load triggers lazy init
	_, err = store.Load(driven.PromptBaseSystem)
	require.NoError(t, err)

	// Check files were created
	files := []string{
		"base_system.txt",
		"behavioral.txt",
		"technical.txt",
		"system_design.txt",
		"evaluation.txt",
		"README.md",
	}
	for _, f := range files {
		path := filepath.Join(dir, f)
		_, err := os.Stat(path)
		assert.NoError(t, err, "expected file %s to exist", f)
	}
}

func TestPromptStore_Load_ReturnsDefaultContent(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptBaseSystem)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(prompt, "You are Alex, an expert AI interview coach at InterviewPilot."))
	assert.Contains(t, prompt, "{context}")
	assert.Contains(t, prompt, "{candidate_info}")
}

func TestPromptStore_Load_DefaultsCoverEveryPrompt(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	for name, want := range map[string]string{
		driven.PromptBehavioral:   "## Interview Type: Behavioral",
		driven.PromptTechnical:    "## Interview Type: Technical",
		driven.PromptSystemDesign: "## Interview Type: System Design",
		driven.PromptEvaluation:   "**Score** (1-10)",
	} {
		prompt, err := store.Load(name)
		require.NoError(t, err, name)
		assert.Contains(t, prompt, want, name)
	}
}

func TestPromptStore_Load_ReturnsCustomContent(t *testing.T) {
	dir := t.TempDir()

	// Create custom prompt before store init
	customContent := "My custom persona. {context} {candidate_info}"
	err := os.WriteFile(
		filepath.Join(dir, "base_system.txt"),
		[]byte(customContent),
		0600,
	)
	require.NoError(t, err)

	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptBaseSystem)

	require.NoError(t, err)
	assert.Equal(t, customContent, prompt)
}

func TestPromptStore_Load_FallsBackToDefault(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	// Delete the file after init creates it
	_, _ = store.Load(driven.PromptBaseSystem) // Trigger init
	os.Remove(filepath.Join(dir, "base_system.txt"))
	store.Reload() // Clear cache

	// Should fall back to embedded default
	prompt, err := store.Load(driven.PromptBaseSystem)

	require.NoError(t, err)
	assert.Contains(t, prompt, "You are Alex")
}

func TestPromptStore_Load_UnknownPrompt(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	_, err = store.Load("nonexistent_prompt")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "nonexistent_prompt")
}

func TestPromptStore_Load_CachesResults(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	// First load
	prompt1, err := store.Load(driven.PromptBaseSystem)
	require.NoError(t, err)

	// Modify file on disk
	err = os.WriteFile(
		filepath.Join(dir, "base_system.txt"),
		[]byte("modified content"),
		0600,
	)
	require.NoError(t, err)

	// Second load should return cached value
	prompt2, err := store.Load(driven.PromptBaseSystem)
	require.NoError(t, err)

	assert.Equal(t, prompt1, prompt2)
}

func TestPromptStore_Reload_ClearsCache(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	// First load
	_, err = store.Load(driven.PromptBaseSystem)
	require.NoError(t, err)

	// Modify file on disk
	modifiedContent := "modified content: {context}"
	err = os.WriteFile(
		filepath.Join(dir, "base_system.txt"),
		[]byte(modifiedContent),
		0600,
	)
	require.NoError(t, err)

	// Reload cache
	store.Reload()

	// Should return new content
	prompt, err := store.Load(driven.PromptBaseSystem)
	require.NoError(t, err)

	assert.Equal(t, modifiedContent, prompt)
}

func TestPromptStore_Load_ConcurrentAccess(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	const goroutines = 100
	var wg sync.WaitGroup
	wg.Add(goroutines)

	errors := make(chan error, goroutines)
	prompts := make(chan string, goroutines)

	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			prompt, err := store.Load(driven.PromptBaseSystem)
			if err != nil {
				errors <- err
				return
			}
			prompts <- prompt
		}()
	}

	wg.Wait()
	close(errors)
	close(prompts)

	// Check no errors
	for err := range errors {
		t.Errorf("unexpected error: %v", err)
	}

	// Check all prompts are identical
	var first string
	for prompt := range prompts {
		if first == "" {
			first = prompt
		} else {
			assert.Equal(t, first, prompt)
		}
	}
}

func TestPromptStore_DoesNotOverwriteExistingFiles(t *testing.T) {
	dir := t.TempDir()

	// Create custom prompt before store creation
	customContent := "pre-existing custom prompt"
	err := os.WriteFile(
		filepath.Join(dir, "base_system.txt"),
		[]byte(customContent),
		0600,
	)
	require.NoError(t, err)

	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	// Trigger init
	_, _ = store.Load(driven.PromptEvaluation)

	// Original file should be unchanged
	data, err := os.ReadFile(filepath.Join(dir, "base_system.txt"))
	require.NoError(t, err)
	assert.Equal(t, customContent, string(data))
}

func TestPromptStore_PreservesContent(t *testing.T) {
	dir := t.TempDir()

	content := "\n  prompt content  \n\n"
	err := os.WriteFile(
		filepath.Join(dir, "base_system.txt"),
		[]byte(content),
		0600,
	)
	require.NoError(t, err)

	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptBaseSystem)
	require.NoError(t, err)

	assert.Equal(t, content, prompt)
}

func TestPromptStore_UntouchedFileMatchesDefault(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	_, err = store.Load(driven.PromptEvaluation) // Trigger init
	require.NoError(t, err)
	store.Reload()

	prompt, err := store.Load(driven.PromptBaseSystem)
	require.NoError(t, err)

	want, ok := DefaultPrompt(driven.PromptBaseSystem)
	require.True(t, ok)
	assert.Equal(t, want, prompt)
	assert.True(t, strings.HasSuffix(prompt, "{candidate_info}\n"))
}

func TestPromptStore_InitFailureFallsBackToDefaults(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, nil, 0600))

	store, err := NewPromptStore(filepath.Join(file, "prompts"))
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptTechnical)
	require.NoError(t, err)
	assert.Contains(t, prompt, "Technical")

	_, err = store.Load("unknown")
	assert.Error(t, err)
}
