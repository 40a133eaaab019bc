package services

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/genai"

	"github.com/jianancybercoder/nextDoppl/internal/domain/repositories"
)

// genAIClientPool caches one GenAI client per API key. Credentials arrive
// per request, so the pool is keyed rather than a singleton.
type genAIClientPool struct {
	clients map[string]*genai.Client
	mutex   sync.RWMutex
}

func NewGenAIClientPool() repositories.GenAIClientPool {
	return &genAIClientPool{
		clients: make(map[string]*genai.Client),
	}
}

func (p *genAIClientPool) GetClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	p.mutex.RLock()
	if client, ok := p.clients[apiKey]; ok {
		p.mutex.RUnlock()
		return client, nil
	}
	p.mutex.RUnlock()

	p.mutex.Lock()
	defer p.mutex.Unlock()

	// Double-checked locking
	if client, ok := p.clients[apiKey]; ok {
		return client, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	p.clients[apiKey] = client
	return client, nil
}

func (p *genAIClientPool) Close() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	// GenAI clients hold no resources that need explicit cleanup.
	p.clients = make(map[string]*genai.Client)
	return nil
}
