package store

import (
	"context"

	"github.com/ergolab/consulta/internal/models"
)

// Products

func (r *Repo) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *Repo) ActiveProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *Repo) CreateProduct(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// UpdateProduct loads the row, lets apply mutate it and saves it back, so
// partial admin edits keep untouched fields intact.
func (r *Repo) UpdateProduct(ctx context.Context, id uint64, apply func(*models.Product)) (*models.Product, error) {
	var p models.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	apply(&p)
	if err := r.db.WithContext(ctx).Save(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) DeleteProduct(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, id).Error
}

// Protocols

func (r *Repo) ListProtocols(ctx context.Context) ([]models.Protocol, error) {
	var protocols []models.Protocol
	if err := r.db.WithContext(ctx).
		Order("title ASC").
		Find(&protocols).Error; err != nil {
		return nil, err
	}
	return protocols, nil
}

func (r *Repo) ActiveProtocols(ctx context.Context) ([]models.Protocol, error) {
	var protocols []models.Protocol
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("title ASC").
		Find(&protocols).Error; err != nil {
		return nil, err
	}
	return protocols, nil
}

// ProtocolsByProfile filters active protocols by profile targeting: the goal
// must match exactly; gender, when given, matches the protocol's target gender
// or the 'both' sentinel; experience, when given, must fall inside
// [min_experience, max_experience] with a NULL max meaning unbounded.
func (r *Repo) ProtocolsByProfile(ctx context.Context, goal, gender string, experience *int) ([]models.Protocol, error) {
	q := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("target_goal = ?", goal)

	if gender != "" {
		q = q.Where("target_gender = ? OR target_gender = ?", gender, "both")
	}
	if experience != nil {
		q = q.Where("min_experience <= ?", *experience).
			Where("max_experience IS NULL OR max_experience >= ?", *experience)
	}

	var protocols []models.Protocol
	if err := q.Order("title ASC").Find(&protocols).Error; err != nil {
		return nil, err
	}
	return protocols, nil
}

func (r *Repo) CreateProtocol(ctx context.Context, p *models.Protocol) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *Repo) UpdateProtocol(ctx context.Context, id uint64, apply func(*models.Protocol)) (*models.Protocol, error) {
	var p models.Protocol
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	apply(&p)
	if err := r.db.WithContext(ctx).Save(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) DeleteProtocol(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&models.Protocol{}, id).Error
}

// Knowledge base

func (r *Repo) ListKnowledge(ctx context.Context) ([]models.KnowledgeEntry, error) {
	var entries []models.KnowledgeEntry
	if err := r.db.WithContext(ctx).
		Order("priority ASC, title ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *Repo) ActiveKnowledge(ctx context.Context) ([]models.KnowledgeEntry, error) {
	var entries []models.KnowledgeEntry
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("priority ASC, title ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *Repo) KnowledgeByCategory(ctx context.Context, category string) ([]models.KnowledgeEntry, error) {
	var entries []models.KnowledgeEntry
	if err := r.db.WithContext(ctx).
		Where("category = ? AND is_active = ?", category, true).
		Order("priority ASC, title ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *Repo) CreateKnowledge(ctx context.Context, k *models.KnowledgeEntry) error {
	return r.db.WithContext(ctx).Create(k).Error
}

func (r *Repo) UpdateKnowledge(ctx context.Context, id uint64, apply func(*models.KnowledgeEntry)) (*models.KnowledgeEntry, error) {
	var k models.KnowledgeEntry
	if err := r.db.WithContext(ctx).First(&k, id).Error; err != nil {
		return nil, err
	}
	apply(&k)
	if err := r.db.WithContext(ctx).Save(&k).Error; err != nil {
		return nil, err
	}
	return &k, nil
}

func (r *Repo) DeleteKnowledge(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&models.KnowledgeEntry{}, id).Error
}
