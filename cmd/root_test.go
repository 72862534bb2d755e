package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()

	// Collect subcommand names.
	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	// Verify expected subcommands are registered.
	expected := []string{"quote", "serve", "templates"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "rfp-pricer", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestQuoteCommand_Flags(t *testing.T) {
	for name, def := range map[string]string{
		"guess-map":   "",
		"templates":   "",
		"out-dir":     ".",
		"format":      "pdf",
		"dry-run":     "false",
		"concurrency": "0",
	} {
		flag := quoteCmd.Flags().Lookup(name)
		require.NotNil(t, flag, "quote command should have --%s flag", name)
		assert.Equal(t, def, flag.DefValue, name)
	}
}

func TestQuoteCommand_RequiresArgs(t *testing.T) {
	assert.Error(t, quoteCmd.Args(quoteCmd, nil))
	assert.NoError(t, quoteCmd.Args(quoteCmd, []string{"rfp.xlsx"}))
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestTemplatesCommand_Flags(t *testing.T) {
	require.NotNil(t, templatesCmd.Flags().Lookup("templates"))
	flag := templatesCmd.Flags().Lookup("json")
	require.NotNil(t, flag)
	assert.Equal(t, "false", flag.DefValue)
}
