package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/lessonqa/internal/app"
	"github.com/kailas-cloud/lessonqa/internal/domain"
	"github.com/kailas-cloud/lessonqa/internal/version"
)

func newAskCmd(flags *globalFlags) *cobra.Command {
	var noAI bool

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a question with the LLM backend",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := flags.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx := cmd.Context()

			a, err := app.New(ctx, cfg, logger)
			if err != nil {
				return fmt.Errorf("build services: %w", err)
			}
			defer a.Close()

			question := questionArg(args)
			if noAI {
				fmt.Fprintln(cmd.OutOrStdout(), a.Answers.AnswerWithoutAI(ctx, question))
				return nil
			}

			ctx, usage := domain.NewContextWithUsage(ctx)
			fmt.Fprintln(cmd.OutOrStdout(), a.Answers.Answer(ctx, question))
			if usage.Used {
				fmt.Fprintf(cmd.ErrOrStderr(), "tokens: %d\n", usage.TotalTokens)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&noAI, "no-ai", false, "answer from matched records only")
	return cmd
}

func newContextCmd(flags *globalFlags) *cobra.Command {
	var showIntent bool

	cmd := &cobra.Command{
		Use:   "context <question>",
		Short: "Print the retrieval context for a question without calling the LLM",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := flags.load()
			if err != nil {
				return err
			}
			_, svc, err := app.NewRetrieval(cfg, logger)
			if err != nil {
				return err
			}

			res := svc.Retrieve(questionArg(args))
			out := cmd.OutOrStdout()
			if showIntent {
				fields := make([]string, 0, len(res.Intent.Fields()))
				for _, f := range res.Intent.Fields() {
					fields = append(fields, string(f))
				}
				fmt.Fprintf(out, "date: %s\nfields: %s\nmatched: %d\n\n",
					res.Intent.Date(), strings.Join(fields, ", "), len(res.Matches))
			}
			fmt.Fprint(out, res.Context)
			return nil
		},
	}
	cmd.Flags().BoolVar(&showIntent, "intent", false, "print the classified intent before the context")
	return cmd
}

func newFieldsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "List the dataset fields and record count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := flags.load()
			if err != nil {
				return err
			}
			_, svc, err := app.NewRetrieval(cfg, logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, f := range svc.Fields() {
				fmt.Fprintln(out, f)
			}
			fmt.Fprintf(out, "records: %d\n", svc.DatasetSize())
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
