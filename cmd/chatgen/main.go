// Package main provides the chatgen CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/richinex/chatgen/cli"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	provider string
	policy   string
	verbose  bool
)

func main() {
	// Load .env file if present (ignore "file not found" errors)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
		}
	}

	rootCmd := &cobra.Command{
		Use:   "chatgen",
		Short: "One chat-completion call against Claude or OpenAI models",
		Long: `A CLI for issuing a single chat-completion request with one generic set of
generation parameters.

Models whose name contains "claude" go to Anthropic; everything else goes to
OpenAI (or an OpenAI-compatible endpoint set with OPENAI_BASE_URL).`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&provider, "provider", "p", "", "Force a backend (openai, anthropic) instead of routing by model name")
	rootCmd.PersistentFlags().StringVar(&policy, "policy", "", "Inclusion policy for optional parameters: falsy (default) or absent; go-openai still drops most explicit zeros, see preview's unsent list")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log dispatch details and token usage to stderr")

	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(previewCmd())
	rootCmd.AddCommand(providersCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// generationFlags holds raw flag values; only flags the user set become settings.
type generationFlags struct {
	model            string
	requestFile      string
	system           string
	maxTokens        int
	temperature      float64
	topP             float64
	topK             int
	stop             []string
	frequencyPenalty float64
	presencePenalty  float64
	n                int
	logitBias        []string
	logProbs         bool
	topLogProbs      int
	seed             int
	serviceTier      string
	responseFormat   string
	jsonOutput       bool
}

func (f *generationFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.model, "model", "M", "", "Model identifier (default from OPENAI_MODEL / ANTHROPIC_MODEL)")
	fs.StringVarP(&f.requestFile, "file", "f", "", "YAML or JSON request document")
	fs.StringVarP(&f.system, "system", "s", "", "System prompt")
	fs.IntVar(&f.maxTokens, "max-tokens", 0, "Maximum output tokens (default LLM_MAX_TOKENS or 1024)")
	fs.Float64VarP(&f.temperature, "temperature", "t", 0, "Temperature on the 0-2 scale (halved for Claude)")
	fs.Float64Var(&f.topP, "top-p", 0, "Nucleus sampling")
	fs.IntVar(&f.topK, "top-k", 0, "Top-k sampling (Claude only)")
	fs.StringArrayVar(&f.stop, "stop", nil, "Stop sequence (repeatable)")
	fs.Float64Var(&f.frequencyPenalty, "frequency-penalty", 0, "Frequency penalty (OpenAI only)")
	fs.Float64Var(&f.presencePenalty, "presence-penalty", 0, "Presence penalty (OpenAI only)")
	fs.IntVar(&f.n, "n", 0, "Number of completions (OpenAI only)")
	fs.StringArrayVar(&f.logitBias, "logit-bias", nil, "Token bias as token=bias (repeatable, OpenAI only)")
	fs.BoolVar(&f.logProbs, "logprobs", false, "Return log probabilities (OpenAI only)")
	fs.IntVar(&f.topLogProbs, "top-logprobs", 0, "Top log probabilities per token (OpenAI only)")
	fs.IntVar(&f.seed, "seed", 0, "Determinism hint (OpenAI only)")
	fs.StringVar(&f.serviceTier, "service-tier", "", "Service tier: auto or default (OpenAI only)")
	fs.StringVar(&f.responseFormat, "response-format", "", "Response format: text or json_object (OpenAI only)")
	fs.BoolVar(&f.jsonOutput, "json", false, "Extract and pretty-print JSON from the response")
}

func (f *generationFlags) options(cmd *cobra.Command, args []string) (cli.Options, error) {
	fs := cmd.Flags()
	opts := cli.Options{
		Model:          f.model,
		Provider:       provider,
		RequestFile:    f.requestFile,
		Prompt:         strings.Join(args, " "),
		Policy:         policy,
		JSON:           f.jsonOutput,
		Verbose:        verbose,
		System:         f.system,
		MaxTokens:      f.maxTokens,
		ServiceTier:    f.serviceTier,
		ResponseFormat: f.responseFormat,
	}

	if fs.Changed("temperature") {
		opts.Temperature = &f.temperature
	}
	if fs.Changed("top-p") {
		opts.TopP = &f.topP
	}
	if fs.Changed("top-k") {
		opts.TopK = &f.topK
	}
	if fs.Changed("stop") {
		opts.StopTokens = f.stop
	}
	if fs.Changed("frequency-penalty") {
		opts.FrequencyPenalty = &f.frequencyPenalty
	}
	if fs.Changed("presence-penalty") {
		opts.PresencePenalty = &f.presencePenalty
	}
	if fs.Changed("n") {
		opts.N = &f.n
	}
	if fs.Changed("logit-bias") {
		bias, err := parseLogitBias(f.logitBias)
		if err != nil {
			return cli.Options{}, err
		}
		opts.LogitBias = bias
	}
	if fs.Changed("logprobs") {
		opts.LogProbs = &f.logProbs
	}
	if fs.Changed("top-logprobs") {
		opts.TopLogProbs = &f.topLogProbs
	}
	if fs.Changed("seed") {
		opts.Seed = &f.seed
	}
	return opts, nil
}

func generateCmd() *cobra.Command {
	var flags generationFlags

	cmd := &cobra.Command{
		Use:   "generate [prompt]",
		Short: "Send one chat-completion request and print the text",
		Long: `Send one chat-completion request and print the generated text.

The prompt, if given, is appended as a user message after any messages from --file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd, args)
			if err != nil {
				return err
			}
			return cli.Generate(context.Background(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	flags.register(cmd)

	return cmd
}

func previewCmd() *cobra.Command {
	var flags generationFlags

	cmd := &cobra.Command{
		Use:   "preview [prompt]",
		Short: "Print the backend request without sending it",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd, args)
			if err != nil {
				return err
			}
			return cli.Preview(opts, cmd.OutOrStdout())
		},
	}
	flags.register(cmd)

	return cmd
}

func providersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List supported providers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.ListProviders(cmd.OutOrStdout())
		},
	}
}
