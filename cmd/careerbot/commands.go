package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"strings"

	"github.com/google/uuid"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/hrygo/careerbot/ai/careers"
	"github.com/hrygo/careerbot/internal/profile"
	"github.com/hrygo/careerbot/internal/version"
	"github.com/hrygo/careerbot/plugin/chat_apps"
	"github.com/hrygo/careerbot/plugin/chat_apps/channels"
	"github.com/hrygo/careerbot/plugin/chat_apps/channels/console"
	"github.com/hrygo/careerbot/server"
	"github.com/hrygo/careerbot/server/mcptools"
)

var askJSON bool

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the bot in the terminal",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), terminationSignals...)
		defer stop()
		return runChat(ctx, instanceProfile, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Answer a single message and exit",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAsk(cmd.Context(), instanceProfile, strings.Join(args, " "), askJSON, cmd.OutOrStdout())
	},
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the advisor as MCP tools over stdio",
	RunE: func(_ *cobra.Command, _ []string) error {
		advisor, err := newAdvisor(instanceProfile)
		if err != nil {
			return err
		}
		return mcpserver.ServeStdio(mcptools.NewServer(advisor, version.String()))
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [knowledge.yaml]",
	Short: "Check a knowledge file and print what it defines",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := *instanceProfile
		if len(args) == 1 {
			p.KnowledgePath = args[0]
		}
		return runValidate(&p, cmd.OutOrStdout())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.StringFull())
	},
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "print the reply with its intents and entities as JSON")
}

// runChat serves one console conversation until EOF or cancellation.
func runChat(ctx context.Context, p *profile.Profile, in io.Reader, out io.Writer) error {
	advisor, err := newAdvisor(p)
	if err != nil {
		return err
	}

	router := channels.NewChannelRouter()
	router.Register(console.NewConsoleChannel(console.Config{
		In:          in,
		Out:         out,
		Prompt:      "you> ",
		ReplyPrefix: "bot> ",
	}))
	defer router.Close()

	fmt.Fprintln(out, "CareerBot: ask me about IT careers. Press Ctrl+D to quit.")
	d := server.NewDispatcher(advisor, router, nil, nil, server.DispatcherConfig{MaxConcurrentMessages: 1})
	return d.Run(ctx)
}

// runAsk answers text once, as plain text or as the HTTP API's JSON shape.
func runAsk(ctx context.Context, p *profile.Profile, text string, asJSON bool, out io.Writer) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("message is required")
	}
	advisor, err := newAdvisor(p)
	if err != nil {
		return err
	}

	requestID := uuid.NewString()
	d := server.NewDispatcher(advisor, nil, nil, nil, server.DispatcherConfig{})
	reply := d.Answer(ctx, chat_apps.PlatformConsole, requestID, text)
	if !asJSON {
		_, err = fmt.Fprintln(out, reply.Text)
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(server.ChatResponse{
		RequestID: requestID,
		Reply:     reply.Text,
		Outcome:   reply.Outcome,
		Intents:   reply.Intents,
		Entities:  reply.Entities.Map(),
	})
}

// runValidate compiles the knowledge payload and summarises it.
func runValidate(p *profile.Profile, out io.Writer) error {
	kb, err := loadKnowledge(p)
	if err != nil {
		return err
	}
	advisor, err := careers.NewAdvisor(kb, careers.Options{Threshold: p.Threshold})
	if err != nil {
		return err
	}

	source := p.KnowledgePath
	if source == "" {
		source = "embedded"
	}
	fmt.Fprintf(out, "knowledge: %s\n", source)
	fmt.Fprintf(out, "threshold: %d\n", advisor.Classifier().Threshold())
	fmt.Fprintf(out, "intents: %d\n", len(kb.Intents))
	fmt.Fprintf(out, "entity types: %d\n", len(kb.Entities))
	fmt.Fprintf(out, "roles: %d\n", len(kb.Roles))
	fmt.Fprintf(out, "skill aliases: %d\n", len(kb.SkillAliases))
	fmt.Fprintln(out, "ok")
	return nil
}
