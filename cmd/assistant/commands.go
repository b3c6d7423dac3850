package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/providervault/ai-service/internal/domain/entities"
)

type assistantTasks interface {
	DescribeSpecialty(ctx context.Context, specialty string) entities.DescribeResult
	RelatedSpecialties(ctx context.Context, specialty string, count int) entities.RelatedResult
	AnalyzeDistribution(ctx context.Context, specialty string, limit int) entities.DistributionResult
	TriageSymptoms(ctx context.Context, symptoms, location string) entities.TriageResult
	SemanticSearch(ctx context.Context, query string, limit int) entities.SearchResult
	FaqTurn(ctx context.Context, question string, history []entities.Turn) entities.FaqResult
}

type networkStats interface {
	Stats(ctx context.Context) (*entities.NetworkStats, error)
}

type backend struct {
	assistant assistantTasks
	network   networkStats
}

// connectFunc opens the backend lazily so that help and flag errors never
// touch the database.
type connectFunc func(ctx context.Context) (*backend, func(), error)

func newRootCmd(connect connectFunc) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "assistant",
		Short:        "Provider Vault assistant tasks from the command line",
		SilenceUsage: true,
	}

	var run runWrapper = func(fn func(cmd *cobra.Command, b *backend, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			b, closeFn, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()
			return fn(cmd, b, args)
		}
	}

	rootCmd.AddCommand(describeCmd(run), relatedCmd(run), analyzeCmd(run), triageCmd(run),
		searchCmd(run), faqCmd(run), statsCmd(run))
	return rootCmd
}

type runWrapper func(fn func(cmd *cobra.Command, b *backend, args []string) error) func(*cobra.Command, []string) error

func describeCmd(run runWrapper) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <specialty>",
		Short: "Describe a medical specialty in plain language",
		Args:  cobra.MinimumNArgs(1),
		RunE: run(func(cmd *cobra.Command, b *backend, args []string) error {
			return printJSON(cmd.OutOrStdout(), b.assistant.DescribeSpecialty(cmd.Context(), strings.Join(args, " ")))
		}),
	}
}

func relatedCmd(run runWrapper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "related <specialty>",
		Short: "Suggest related specialties for referrals",
		Args:  cobra.MinimumNArgs(1),
		RunE: run(func(cmd *cobra.Command, b *backend, args []string) error {
			count, err := boundedIntFlag(cmd, "count", 1, 10)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), b.assistant.RelatedSpecialties(cmd.Context(), strings.Join(args, " "), count))
		}),
	}
	cmd.Flags().Int("count", 3, "Number of related specialties")
	return cmd
}

func analyzeCmd(run runWrapper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <specialty>",
		Short: "Analyze the provider distribution of a specialty",
		Args:  cobra.MinimumNArgs(1),
		RunE: run(func(cmd *cobra.Command, b *backend, args []string) error {
			limit, err := boundedIntFlag(cmd, "limit", 1, 100)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), b.assistant.AnalyzeDistribution(cmd.Context(), strings.Join(args, " "), limit))
		}),
	}
	cmd.Flags().Int("limit", 20, "Number of providers to analyze")
	return cmd
}

func triageCmd(run runWrapper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "triage <symptoms>",
		Short: "Recommend specialties and urgency for symptoms",
		Args:  cobra.MinimumNArgs(1),
		RunE: run(func(cmd *cobra.Command, b *backend, args []string) error {
			state, err := cmd.Flags().GetString("state")
			if err != nil {
				return fmt.Errorf("failed to read --state: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), b.assistant.TriageSymptoms(cmd.Context(), strings.Join(args, " "), strings.TrimSpace(state)))
		}),
	}
	cmd.Flags().String("state", "", "Two-letter state to look up providers in")
	return cmd
}

func searchCmd(run runWrapper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search providers with a natural-language query",
		Args:  cobra.MinimumNArgs(1),
		RunE: run(func(cmd *cobra.Command, b *backend, args []string) error {
			limit, err := boundedIntFlag(cmd, "limit", 1, 50)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), b.assistant.SemanticSearch(cmd.Context(), strings.Join(args, " "), limit))
		}),
	}
	cmd.Flags().Int("limit", 10, "Maximum providers to return")
	return cmd
}

// faqReply is what one interactive turn prints; the history stays in memory.
type faqReply struct {
	Answer              string   `json:"answer"`
	FollowUpSuggestions []string `json:"follow_up_suggestions"`
	Error               string   `json:"error,omitempty"`
}

func faqCmd(run runWrapper) *cobra.Command {
	return &cobra.Command{
		Use:   "faq [question]",
		Short: "Ask questions about the provider network; without arguments, reads questions from stdin",
		RunE: run(func(cmd *cobra.Command, b *backend, args []string) error {
			if len(args) > 0 {
				return printJSON(cmd.OutOrStdout(), b.assistant.FaqTurn(cmd.Context(), strings.Join(args, " "), nil))
			}
			return faqLoop(cmd.Context(), b.assistant, cmd.InOrStdin(), cmd.OutOrStdout())
		}),
	}
}

// faqLoop reads one question per line until EOF or quit, carrying the
// conversation history between turns.
func faqLoop(ctx context.Context, assistant assistantTasks, in io.Reader, out io.Writer) error {
	var history []entities.Turn
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		question := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(question) {
		case "":
			continue
		case "quit", "exit":
			return nil
		}

		result := assistant.FaqTurn(ctx, question, history)
		history = result.ConversationHistory
		if err := printJSON(out, faqReply{
			Answer:              result.Answer,
			FollowUpSuggestions: result.FollowUpSuggestions,
			Error:               result.Error,
		}); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func statsCmd(run runWrapper) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show provider network statistics",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, b *backend, args []string) error {
			stats, err := b.network.Stats(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load stats: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), stats)
		}),
	}
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// boundedIntFlag reads an int flag and checks it lies in [lower, upper].
func boundedIntFlag(cmd *cobra.Command, name string, lower, upper int) (int, error) {
	value, err := cmd.Flags().GetInt(name)
	if err != nil {
		return 0, fmt.Errorf("failed to read --%s: %w", name, err)
	}
	if value < lower || value > upper {
		return 0, fmt.Errorf("--%s must be between %d and %d", name, lower, upper)
	}
	return value, nil
}
