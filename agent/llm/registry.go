package llm

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"

	contractx "github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/contract"
	promptx "github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/prompt"
)

type registryImpl struct {
	response   contractx.LanguageModel
	sentiment  contractx.LanguageModel
	extraction contractx.LanguageModel
}

func (r *registryImpl) Response() contractx.LanguageModel {
	return r.response
}

func (r *registryImpl) Sentiment() contractx.LanguageModel {
	return r.sentiment
}

func (r *registryImpl) Extraction() contractx.LanguageModel {
	return r.extraction
}

// NewRegistry builds one chat model per role from cfg.
func NewRegistry(ctx context.Context, cfg Config) (contractx.Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	models := make(map[Role]einomodel.BaseChatModel, 3)
	for _, role := range []Role{RoleResponse, RoleSentiment, RoleExtraction} {
		builder, err := cfg.BuilderFor(role)
		if err != nil {
			return nil, err
		}
		m, err := builder.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: create %s model: %v", contractx.ErrModelInvoke, role, err)
		}
		models[role] = m
	}

	return NewRegistryFromModels(ctx, models[RoleResponse], models[RoleSentiment], models[RoleExtraction])
}

// NewRegistryFromModels wires already built chat models to the embedded prompts.
func NewRegistryFromModels(ctx context.Context, response, sentiment, extraction einomodel.BaseChatModel) (contractx.Registry, error) {
	prompts := promptx.LoadPromptSet()

	responseChain, err := NewChain(ctx, response, prompts.Response)
	if err != nil {
		return nil, err
	}
	sentimentChain, err := NewChain(ctx, sentiment, prompts.Sentiment)
	if err != nil {
		return nil, err
	}
	extractionChain, err := NewChain(ctx, extraction, prompts.Extraction)
	if err != nil {
		return nil, err
	}

	return &registryImpl{
		response:   responseChain,
		sentiment:  sentimentChain,
		extraction: extractionChain,
	}, nil
}
