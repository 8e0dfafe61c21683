package configcache

import (
	"context"

	"github.com/ergolab/consulta/internal/models"
)

// Knowledge-base writes go through the cache so that invalidation happens
// before the caller can send its response; call sites cannot forget it.

func (c *Cache) CreateProduct(ctx context.Context, p *models.Product) error {
	if err := c.repo.CreateProduct(ctx, p); err != nil {
		return err
	}
	c.InvalidateKnowledge()
	return nil
}

func (c *Cache) UpdateProduct(ctx context.Context, id uint64, apply func(*models.Product)) (*models.Product, error) {
	p, err := c.repo.UpdateProduct(ctx, id, apply)
	if err != nil {
		return nil, err
	}
	c.InvalidateKnowledge()
	return p, nil
}

func (c *Cache) DeleteProduct(ctx context.Context, id uint64) error {
	if err := c.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	c.InvalidateKnowledge()
	return nil
}

func (c *Cache) CreateProtocol(ctx context.Context, p *models.Protocol) error {
	if err := c.repo.CreateProtocol(ctx, p); err != nil {
		return err
	}
	c.InvalidateKnowledge()
	return nil
}

func (c *Cache) UpdateProtocol(ctx context.Context, id uint64, apply func(*models.Protocol)) (*models.Protocol, error) {
	p, err := c.repo.UpdateProtocol(ctx, id, apply)
	if err != nil {
		return nil, err
	}
	c.InvalidateKnowledge()
	return p, nil
}

func (c *Cache) DeleteProtocol(ctx context.Context, id uint64) error {
	if err := c.repo.DeleteProtocol(ctx, id); err != nil {
		return err
	}
	c.InvalidateKnowledge()
	return nil
}

func (c *Cache) CreateKnowledge(ctx context.Context, k *models.KnowledgeEntry) error {
	if err := c.repo.CreateKnowledge(ctx, k); err != nil {
		return err
	}
	c.InvalidateKnowledge()
	return nil
}

func (c *Cache) UpdateKnowledge(ctx context.Context, id uint64, apply func(*models.KnowledgeEntry)) (*models.KnowledgeEntry, error) {
	k, err := c.repo.UpdateKnowledge(ctx, id, apply)
	if err != nil {
		return nil, err
	}
	c.InvalidateKnowledge()
	return k, nil
}

func (c *Cache) DeleteKnowledge(ctx context.Context, id uint64) error {
	if err := c.repo.DeleteKnowledge(ctx, id); err != nil {
		return err
	}
	c.InvalidateKnowledge()
	return nil
}
