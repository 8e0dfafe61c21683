package models

import (
	"encoding/json"
	"time"
)

type User struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID   string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"sessionId"`
	Gender      string    `gorm:"type:varchar(16);not null" json:"gender"`
	Goal        string    `gorm:"type:varchar(32);not null" json:"goal"`
	Preferences []string  `gorm:"serializer:json" json:"preferences"`
	Age         int       `gorm:"not null" json:"age"`
	Experience  int       `gorm:"not null" json:"experience"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (User) TableName() string { return "users" }

type Conversation struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID  string    `gorm:"type:varchar(64);index;not null" json:"sessionId"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	Sender     string    `gorm:"type:varchar(8);not null" json:"sender"` // 'user' or 'ai'
	Timestamp  time.Time `gorm:"autoCreateTime" json:"timestamp"`
	TokensUsed int       `gorm:"default:0" json:"tokensUsed"`
}

func (Conversation) TableName() string { return "conversations" }

type Admin struct {
	ID        uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Username  string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"username"`
	Password  string     `gorm:"type:varchar(255);not null" json:"-"`
	LastLogin *time.Time `json:"lastLogin"`
	CreatedAt time.Time  `json:"createdAt"`
}

func (Admin) TableName() string { return "admins" }

type SystemSetting struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Key         string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"key"`
	Value       string    `gorm:"type:text;not null" json:"value"`
	Description string    `gorm:"type:text" json:"description"`
	Category    string    `gorm:"type:varchar(32);default:general" json:"category"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (SystemSetting) TableName() string { return "system_settings" }

type APIUsage struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID  string    `gorm:"type:varchar(64);index;not null" json:"sessionId"`
	Endpoint   string    `gorm:"type:varchar(64);not null" json:"endpoint"`
	TokensUsed int       `gorm:"default:0" json:"tokensUsed"`
	Cost       string    `gorm:"type:varchar(32)" json:"cost"` // string to avoid float precision issues
	Timestamp  time.Time `gorm:"autoCreateTime" json:"timestamp"`
}

func (APIUsage) TableName() string { return "api_usage" }

type UserCalculation struct {
	ID              uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID       string          `gorm:"type:varchar(64);index;not null" json:"sessionId"`
	CalculationType string          `gorm:"type:varchar(16);not null" json:"calculationType"` // 'tmb', 'macros', 'calories'
	Inputs          json.RawMessage `gorm:"type:text" json:"inputs"`
	Results         json.RawMessage `gorm:"type:text" json:"results"`
	Timestamp       time.Time       `gorm:"autoCreateTime" json:"timestamp"`
}

func (UserCalculation) TableName() string { return "user_calculations" }

type Product struct {
	ID                uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name              string    `gorm:"type:varchar(128);not null" json:"name"`
	Category          string    `gorm:"type:varchar(64);not null" json:"category"`
	Description       string    `gorm:"type:text" json:"description"`
	DosageInfo        string    `gorm:"type:text" json:"dosageInfo"`
	Contraindications string    `gorm:"type:text" json:"contraindications"`
	IsActive          *bool     `gorm:"default:true" json:"isActive"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func (Product) TableName() string { return "ai_products" }

type Protocol struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Title         string    `gorm:"type:varchar(128);not null" json:"title"`
	Category      string    `gorm:"type:varchar(64);not null" json:"category"` // 'bulking', 'cutting', 'strength', ...
	TargetGoal    string    `gorm:"type:varchar(32);index;not null" json:"targetGoal"`
	TargetGender  string    `gorm:"type:varchar(8)" json:"targetGender"` // 'male', 'female', 'both' or empty
	MinExperience int       `gorm:"default:0" json:"minExperience"`
	MaxExperience *int      `json:"maxExperience"`
	ProtocolSteps []string  `gorm:"serializer:json" json:"protocolSteps"`
	Duration      string    `gorm:"type:varchar(64)" json:"duration"`
	Warnings      string    `gorm:"type:text" json:"warnings"`
	PCTRequired   bool      `gorm:"default:false" json:"pctRequired"`
	IsActive      *bool     `gorm:"default:true" json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (Protocol) TableName() string { return "ai_protocols" }

type KnowledgeEntry struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Category  string    `gorm:"type:varchar(64);index;not null" json:"category"` // 'general_guidelines', 'safety_info', ...
	Title     string    `gorm:"type:varchar(128);not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Tags      []string  `gorm:"serializer:json" json:"tags"`
	Priority  int       `gorm:"default:1" json:"priority"` // 1=low, 5=high
	IsActive  *bool     `gorm:"default:true" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (KnowledgeEntry) TableName() string { return "ai_knowledge_base" }
