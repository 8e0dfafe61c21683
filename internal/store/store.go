package store

import (
	"context"
	"time"

	"github.com/ergolab/consulta/internal/models"
	"gorm.io/gorm"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// User methods

func (r *Repo) GetUser(ctx context.Context, sessionID string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repo) CreateUser(ctx context.Context, u *models.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *Repo) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Conversation methods

func (r *Repo) GetConversations(ctx context.Context, sessionID string) ([]models.Conversation, error) {
	var convs []models.Conversation
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("timestamp ASC").
		Find(&convs).Error; err != nil {
		return nil, err
	}
	return convs, nil
}

func (r *Repo) AddMessage(ctx context.Context, conv *models.Conversation) error {
	return r.db.WithContext(ctx).Create(conv).Error
}

func (r *Repo) ListConversations(ctx context.Context) ([]models.Conversation, error) {
	var convs []models.Conversation
	if err := r.db.WithContext(ctx).
		Order("timestamp DESC").
		Find(&convs).Error; err != nil {
		return nil, err
	}
	return convs, nil
}

// SearchConversations matches message text case-insensitively, optionally
// bounded to [start, end].
func (r *Repo) SearchConversations(ctx context.Context, query string, start, end *time.Time) ([]models.Conversation, error) {
	q := r.db.WithContext(ctx).
		Where("LOWER(message) LIKE LOWER(?)", "%"+query+"%")
	if start != nil && end != nil {
		q = q.Where("timestamp >= ? AND timestamp <= ?", *start, *end)
	}

	var convs []models.Conversation
	if err := q.Order("timestamp DESC").Find(&convs).Error; err != nil {
		return nil, err
	}
	return convs, nil
}

// Admin methods

func (r *Repo) GetAdmin(ctx context.Context, username string) (*models.Admin, error) {
	var a models.Admin
	if err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repo) CreateAdmin(ctx context.Context, a *models.Admin) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *Repo) UpdateAdminLastLogin(ctx context.Context, username string) error {
	return r.db.WithContext(ctx).Model(&models.Admin{}).
		Where("username = ?", username).
		Update("last_login", time.Now()).Error
}

// System settings methods

func (r *Repo) GetSetting(ctx context.Context, key string) (*models.SystemSetting, error) {
	var s models.SystemSetting
	if err := r.db.WithContext(ctx).
		Where("`key` = ?", key).
		First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// SetSetting upserts by key; at most one row per key ever exists.
func (r *Repo) SetSetting(ctx context.Context, s *models.SystemSetting) (*models.SystemSetting, error) {
	if s.Category == "" {
		s.Category = "general"
	}

	_, err := r.GetSetting(ctx, s.Key)
	if err == nil {
		updates := map[string]any{
			"value":       s.Value,
			"description": s.Description,
			"category":    s.Category,
			"updated_at":  time.Now(),
		}
		if err := r.db.WithContext(ctx).Model(&models.SystemSetting{}).
			Where("`key` = ?", s.Key).
			Updates(updates).Error; err != nil {
			return nil, err
		}
		return r.GetSetting(ctx, s.Key)
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

func (r *Repo) ListSettings(ctx context.Context) ([]models.SystemSetting, error) {
	var settings []models.SystemSetting
	if err := r.db.WithContext(ctx).
		Order("`key` ASC").
		Find(&settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

// API usage tracking

func (r *Repo) TrackAPIUsage(ctx context.Context, u *models.APIUsage) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *Repo) GetAPIUsage(ctx context.Context, start, end *time.Time) ([]models.APIUsage, error) {
	q := r.db.WithContext(ctx)
	if start != nil && end != nil {
		q = q.Where("timestamp >= ? AND timestamp <= ?", *start, *end)
	}

	var usage []models.APIUsage
	if err := q.Order("timestamp DESC").Find(&usage).Error; err != nil {
		return nil, err
	}
	return usage, nil
}

// User calculations

func (r *Repo) SaveCalculation(ctx context.Context, calc *models.UserCalculation) error {
	return r.db.WithContext(ctx).Create(calc).Error
}

func (r *Repo) GetUserCalculations(ctx context.Context, sessionID string) ([]models.UserCalculation, error) {
	var calcs []models.UserCalculation
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("timestamp DESC").
		Find(&calcs).Error; err != nil {
		return nil, err
	}
	return calcs, nil
}

// Analytics

func (r *Repo) TotalUsers(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error
	return n, err
}

func (r *Repo) TotalConversations(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Conversation{}).Count(&n).Error
	return n, err
}

func (r *Repo) ActiveUsersToday(ctx context.Context) (int64, error) {
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("created_at >= ?", midnight).
		Count(&n).Error
	return n, err
}

type ObjectiveCount struct {
	Objective string `json:"objective"`
	Count     int64  `json:"count"`
}

func (r *Repo) UsersByObjective(ctx context.Context) ([]ObjectiveCount, error) {
	var out []ObjectiveCount
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Select("goal AS objective, COUNT(*) AS count").
		Group("goal").
		Scan(&out).Error
	return out, err
}
