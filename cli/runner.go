// Command execution for CLI commands.
//
// Information Hiding:
// - Provider and engine setup hidden
// - Target parsing hidden
// - Output formatting hidden

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/richinex/typecast/config"
	"github.com/richinex/typecast/engine"
	"github.com/richinex/typecast/llm"
	"github.com/richinex/typecast/schema"
)

// Options holds CLI execution options.
type Options struct {
	Provider     string
	Instructions string
	Temperature  float64
	HasTemp      bool
	Verbose      bool
}

// DefaultOptions returns default CLI options.
func DefaultOptions() Options {
	return Options{}
}

// Cast converts data to the named target type and prints the result as JSON.
func Cast(ctx context.Context, data, typeName string, opts Options) error {
	eng, err := createEngine(opts)
	if err != nil {
		return err
	}

	target, err := ParseTarget(typeName)
	if err != nil {
		return err
	}

	value, err := eng.Cast(ctx, data, target, callOptions(opts)...)
	if err != nil {
		return err
	}

	return printValue(value)
}

// Classify picks the best label for data and prints it.
func Classify(ctx context.Context, data string, labels []string, opts Options) error {
	if len(labels) < 2 {
		return fmt.Errorf("classify needs at least two --label flags")
	}

	eng, err := createEngine(opts)
	if err != nil {
		return err
	}

	value, err := eng.Classify(ctx, data, schema.Labels(labels...), callOptions(opts)...)
	if err != nil {
		return err
	}

	fmt.Println(value)
	return nil
}

// Extract pulls all entities of the named type out of data and prints them as JSON.
func Extract(ctx context.Context, data, typeName string, opts Options) error {
	eng, err := createEngine(opts)
	if err != nil {
		return err
	}

	target, err := ParseTarget(typeName)
	if err != nil {
		return err
	}

	values, err := eng.Extract(ctx, data, target, callOptions(opts)...)
	if err != nil {
		return err
	}

	return printValue(values)
}

// Generate synthesizes n examples of the named type and prints them as JSON.
func Generate(ctx context.Context, typeName string, n int, opts Options) error {
	eng, err := createEngine(opts)
	if err != nil {
		return err
	}

	target, err := ParseTarget(typeName)
	if err != nil {
		return err
	}

	values, err := eng.Generate(ctx, target, n, callOptions(opts)...)
	if err != nil {
		return err
	}

	return printValue(values)
}

// ParseTarget resolves a type name from the command line into a Target.
// Supported forms: string, int, float, bool, []T, and map[K]V.
func ParseTarget(name string) (schema.Target, error) {
	name = strings.TrimSpace(name)

	if rest, ok := strings.CutPrefix(name, "[]"); ok {
		elem, err := ParseTarget(rest)
		if err != nil {
			return nil, err
		}
		return schema.List(elem), nil
	}

	if rest, ok := strings.CutPrefix(name, "map["); ok {
		keyName, valueName, ok := strings.Cut(rest, "]")
		if !ok || valueName == "" {
			return nil, fmt.Errorf("malformed map type %q, expected map[K]V", name)
		}
		key, err := ParseTarget(keyName)
		if err != nil {
			return nil, err
		}
		value, err := ParseTarget(valueName)
		if err != nil {
			return nil, err
		}
		return schema.Map(key, value), nil
	}

	switch name {
	case "string", "str":
		return schema.String(), nil
	case "int", "integer":
		return schema.Int(), nil
	case "float", "number":
		return schema.Float(), nil
	case "bool", "boolean":
		return schema.Bool(), nil
	default:
		return nil, fmt.Errorf("unknown type %q (supported: string, int, float, bool, []T, map[K]V)", name)
	}
}

func callOptions(opts Options) []engine.CallOption {
	var callOpts []engine.CallOption
	if opts.Instructions != "" {
		callOpts = append(callOpts, engine.WithInstructions(opts.Instructions))
	}
	if opts.HasTemp {
		callOpts = append(callOpts, engine.WithTemperature(float32(opts.Temperature)))
	}
	return callOpts
}

func printValue(value any) error {
	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	fmt.Println(string(encoded))
	return nil
}

func createEngine(opts Options) (*engine.Engine, error) {
	provider, err := createProvider(opts.Provider)
	if err != nil {
		return nil, err
	}

	settings, err := config.New(opts.Provider)
	if err != nil {
		return nil, err
	}

	if opts.Verbose {
		fmt.Fprintf(os.Stderr, "Using %s (%s)\n", opts.Provider, settings.LLM.Model)
	}

	return engine.New(llm.NewClient(provider), settings), nil
}

func createProvider(providerName string) (llm.Provider, error) {
	if providerName == "" {
		return nil, fmt.Errorf("--provider is required for this command")
	}

	providerType, err := llm.ParseProviderType(providerName)
	if err != nil {
		return nil, err
	}

	settings, err := config.New(providerName)
	if err != nil {
		return nil, err
	}

	apiKey, err := config.APIKeyFor(providerName)
	if err != nil {
		return nil, err
	}

	return providerType.
		Model(settings.LLM.Model).
		MaxTokens(settings.LLM.MaxTokens).
		Temperature(float32(settings.LLM.Temperature)).
		APIKey(apiKey)
}
