package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/contract"
	promptx "github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/prompt"
)

// Chain renders a prompt template, calls the chat model and returns the reply text.
type Chain struct {
	name   string
	runner compose.Runnable[map[string]any, string]
}

var _ contractx.LanguageModel = (*Chain)(nil)

func NewChain(ctx context.Context, chatModel einomodel.BaseChatModel, tmpl promptx.Template) (*Chain, error) {
	if chatModel == nil {
		return nil, errors.New("chat model is required")
	}
	if strings.TrimSpace(tmpl.Text) == "" {
		return nil, fmt.Errorf("%w: %s", contractx.ErrPromptMissing, tmpl.Name)
	}

	runner, err := compileTextGraph(ctx, chatModel, tmpl.Text, "llm."+tmpl.Name+"_graph")
	if err != nil {
		return nil, fmt.Errorf("compile %s chain: %w", tmpl.Name, err)
	}
	return &Chain{name: tmpl.Name, runner: runner}, nil
}

func (c *Chain) Complete(ctx context.Context, vars map[string]any) (string, error) {
	out, err := c.runner.Invoke(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", contractx.ErrModelInvoke, c.name, err)
	}
	return out, nil
}

func compileTextGraph(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	userTemplate string,
	graphName string,
) (compose.Runnable[map[string]any, string], error) {
	template := einoprompt.FromMessages(
		schema.FString,
		schema.UserMessage(userTemplate),
	)

	graph := compose.NewGraph[map[string]any, string]()
	if err := graph.AddChatTemplateNode("prompt", template); err != nil {
		return nil, fmt.Errorf("add prompt node: %w", err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add model node: %w", err)
	}
	if err := graph.AddLambdaNode("text",
		compose.InvokableLambda(func(ctx context.Context, msg *schema.Message) (string, error) {
			if msg == nil {
				return "", fmt.Errorf("%w: model returned no message", contractx.ErrSchemaViolation)
			}
			return strings.TrimSpace(msg.Content), nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add text node: %w", err)
	}

	edges := [][2]string{
		{compose.START, "prompt"},
		{"prompt", "model"},
		{"model", "text"},
		{"text", compose.END},
	}
	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName(graphName))
	if err != nil {
		return nil, fmt.Errorf("compile graph: %w", err)
	}
	return runner, nil
}
