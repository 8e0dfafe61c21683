package configcache

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/ergolab/consulta/internal/models"
	"github.com/ergolab/consulta/internal/store"
)

const (
	DefaultSettingsTTL  = 60 * time.Second
	DefaultKnowledgeTTL = 5 * DefaultSettingsTTL
)

type settingsSnapshot struct {
	values      map[string]string
	refreshedAt time.Time
}

type knowledgeSnapshot struct {
	products    []models.Product
	protocols   []models.Protocol
	entries     []models.KnowledgeEntry
	refreshedAt time.Time
}

// Cache is a read-through cache over system settings (short TTL) and the
// knowledge base (longer TTL; those rows change far less often). Snapshots are
// rebuilt wholesale on expiry. Concurrent readers that both observe an expired
// snapshot may both refresh; the refresh is idempotent and the last pointer
// swap wins, so no serialization is needed.
type Cache struct {
	repo         *store.Repo
	settingsTTL  time.Duration
	knowledgeTTL time.Duration
	now          func() time.Time

	settings  atomic.Pointer[settingsSnapshot]
	knowledge atomic.Pointer[knowledgeSnapshot]
}

func New(repo *store.Repo) *Cache {
	return NewWithTTL(repo, DefaultSettingsTTL, DefaultKnowledgeTTL)
}

func NewWithTTL(repo *store.Repo, settingsTTL, knowledgeTTL time.Duration) *Cache {
	return &Cache{
		repo:         repo,
		settingsTTL:  settingsTTL,
		knowledgeTTL: knowledgeTTL,
		now:          time.Now,
	}
}

// Get returns the cached value for key, refreshing the whole settings snapshot
// first when it is older than the settings TTL. A failed refresh keeps the
// stale snapshot; a cache read never fails because of a refresh error.
func (c *Cache) Get(ctx context.Context, key, def string) string {
	snap := c.settings.Load()
	if snap == nil || c.now().Sub(snap.refreshedAt) > c.settingsTTL {
		c.RefreshSettings(ctx)
		snap = c.settings.Load()
	}
	if snap == nil {
		return def
	}
	if v, ok := snap.values[key]; ok {
		return v
	}
	return def
}

func (c *Cache) RefreshSettings(ctx context.Context) {
	settings, err := c.repo.ListSettings(ctx)
	if err != nil {
		log.Printf("configcache: settings refresh failed: %v", err)
		return
	}
	values := make(map[string]string, len(settings))
	for _, s := range settings {
		values[s.Key] = s.Value
	}
	c.settings.Store(&settingsSnapshot{values: values, refreshedAt: c.now()})
}

func (c *Cache) refreshKnowledge(ctx context.Context) {
	products, err := c.repo.ActiveProducts(ctx)
	if err != nil {
		log.Printf("configcache: knowledge refresh failed: %v", err)
		return
	}
	protocols, err := c.repo.ActiveProtocols(ctx)
	if err != nil {
		log.Printf("configcache: knowledge refresh failed: %v", err)
		return
	}
	entries, err := c.repo.ActiveKnowledge(ctx)
	if err != nil {
		log.Printf("configcache: knowledge refresh failed: %v", err)
		return
	}
	c.knowledge.Store(&knowledgeSnapshot{
		products:    products,
		protocols:   protocols,
		entries:     entries,
		refreshedAt: c.now(),
	})
}

func (c *Cache) knowledgeSnap(ctx context.Context) *knowledgeSnapshot {
	snap := c.knowledge.Load()
	if snap == nil || c.now().Sub(snap.refreshedAt) > c.knowledgeTTL {
		c.refreshKnowledge(ctx)
		snap = c.knowledge.Load()
	}
	return snap
}

func (c *Cache) ActiveProducts(ctx context.Context) []models.Product {
	if snap := c.knowledgeSnap(ctx); snap != nil {
		return snap.products
	}
	return nil
}

func (c *Cache) ActiveProtocols(ctx context.Context) []models.Protocol {
	if snap := c.knowledgeSnap(ctx); snap != nil {
		return snap.protocols
	}
	return nil
}

func (c *Cache) ActiveKnowledge(ctx context.Context) []models.KnowledgeEntry {
	if snap := c.knowledgeSnap(ctx); snap != nil {
		return snap.entries
	}
	return nil
}

// ProtocolsByProfile always queries the store. Admin edits to targeting rules
// must be visible to in-flight consultations immediately, so this lookup is
// deliberately never served from the snapshot. Policy, not an oversight.
func (c *Cache) ProtocolsByProfile(ctx context.Context, goal, gender string, experience *int) ([]models.Protocol, error) {
	return c.repo.ProtocolsByProfile(ctx, goal, gender, experience)
}

// Invalidate forces the next read of either snapshot to refresh regardless of
// TTL.
func (c *Cache) Invalidate() {
	c.settings.Store(nil)
	c.knowledge.Store(nil)
}

func (c *Cache) InvalidateKnowledge() {
	c.knowledge.Store(nil)
}
