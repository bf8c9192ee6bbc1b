// internal/store/shop_store.go

// Package store persists shop listings and maintains the chunk index that
// lets position lookups skip the listings table for empty chunks.
package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arclabs/buttonshop/internal/cache"
	"github.com/arclabs/buttonshop/internal/models"
	"github.com/arclabs/buttonshop/internal/shoperr"
)

const chunkCountTTL = 30 * time.Second

// ShopStore is the gorm-backed listing repository.
type ShopStore struct {
	db    *gorm.DB
	cache cache.Cache
	log   *logrus.Logger
}

func NewShopStore(db *gorm.DB, c cache.Cache, log *logrus.Logger) *ShopStore {
	return &ShopStore{db: db, cache: c, log: log}
}

// Create inserts the listing and bumps its chunk's shop count, in one
// transaction. The position must be free.
func (s *ShopStore) Create(ctx context.Context, shop *models.ShopListing) error {
	shop.ChunkX, shop.ChunkZ = ChunkCoords(shop.X, shop.Z)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.ShopListing{}).
			Where("x = ? AND y = ? AND z = ? AND dimension = ?", shop.X, shop.Y, shop.Z, shop.Dimension).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return shoperr.ErrPositionOccupied
		}
		if err := tx.Create(shop).Error; err != nil {
			return err
		}
		return s.bumpChunk(tx, shop, 1)
	})
	if err != nil {
		if errors.Is(err, shoperr.ErrPositionOccupied) || errors.Is(err, gorm.ErrDuplicatedKey) {
			return shoperr.ErrPositionOccupied
		}
		return fmt.Errorf("create shop: %w", err)
	}
	s.invalidateChunk(ctx, shop.Dimension, shop.ChunkX, shop.ChunkZ)
	return nil
}

// GetByUUID loads a listing by its public identifier.
func (s *ShopStore) GetByUUID(ctx context.Context, shopUUID string) (*models.ShopListing, error) {
	var shop models.ShopListing
	err := s.db.WithContext(ctx).First(&shop, "shop_uuid = ?", shopUUID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shoperr.ErrShopNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load shop %s: %w", shopUUID, err)
	}
	return &shop, nil
}

// GetByPosition resolves the listing at a block position. The chunk index is
// consulted first: interaction events fire for every button in the world, so
// the common case is "no shop here" and must not touch the listings table.
func (s *ShopStore) GetByPosition(ctx context.Context, pos models.Position) (*models.ShopListing, error) {
	cx, cz := ChunkCoords(pos.X, pos.Z)
	n, err := s.chunkCount(ctx, pos.Dimension, cx, cz)
	if err != nil {
		s.log.WithError(err).Warn("chunk index lookup failed, falling through to table scan")
	} else if n == 0 {
		return nil, shoperr.ErrShopNotFound
	}

	var shop models.ShopListing
	err = s.db.WithContext(ctx).
		Where("x = ? AND y = ? AND z = ? AND dimension = ?", pos.X, pos.Y, pos.Z, pos.Dimension).
		First(&shop).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shoperr.ErrShopNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load shop at %v: %w", pos, err)
	}
	return &shop, nil
}

// ListByOwner returns the owner's listings, newest first.
func (s *ShopStore) ListByOwner(ctx context.Context, ownerID string) ([]models.ShopListing, error) {
	var shops []models.ShopListing
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&shops).Error
	if err != nil {
		return nil, fmt.Errorf("list shops for %s: %w", ownerID, err)
	}
	return shops, nil
}

// ListNearby returns the listings within a square chunk radius of a block
// position, nearest chunks first by simple ordering on chunk coordinates.
func (s *ShopStore) ListNearby(ctx context.Context, pos models.Position, chunkRadius int) ([]models.ShopListing, error) {
	if chunkRadius < 0 {
		chunkRadius = 0
	}
	cx, cz := ChunkCoords(pos.X, pos.Z)
	var shops []models.ShopListing
	err := s.db.WithContext(ctx).
		Where("dimension = ? AND chunk_x BETWEEN ? AND ? AND chunk_z BETWEEN ? AND ?",
			pos.Dimension, cx-chunkRadius, cx+chunkRadius, cz-chunkRadius, cz+chunkRadius).
		Order("chunk_x ASC, chunk_z ASC, id ASC").
		Find(&shops).Error
	if err != nil {
		return nil, fmt.Errorf("list nearby shops: %w", err)
	}
	return shops, nil
}

// CountByOwner reports how many listings the owner currently has.
func (s *ShopStore) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.ShopListing{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count shops for %s: %w", ownerID, err)
	}
	return count, nil
}

// ListAll pages through every listing. offset/limit of 0 means no paging.
func (s *ShopStore) ListAll(ctx context.Context, offset, limit int) ([]models.ShopListing, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.ShopListing{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count shops: %w", err)
	}
	q := s.db.WithContext(ctx).Order("id ASC")
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}
	var shops []models.ShopListing
	if err := q.Find(&shops).Error; err != nil {
		return nil, 0, fmt.Errorf("list shops: %w", err)
	}
	return shops, total, nil
}

// Save persists the full listing row.
func (s *ShopStore) Save(ctx context.Context, shop *models.ShopListing) error {
	if err := s.db.WithContext(ctx).Save(shop).Error; err != nil {
		return fmt.Errorf("save shop %s: %w", shop.ShopUUID, err)
	}
	return nil
}

// SaveTx is Save inside an existing transaction handle.
func (s *ShopStore) SaveTx(tx *gorm.DB, shop *models.ShopListing) error {
	return tx.Save(shop).Error
}

// Delete removes the listing and decrements its chunk count.
func (s *ShopStore) Delete(ctx context.Context, shop *models.ShopListing) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.ShopListing{}, shop.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return shoperr.ErrShopNotFound
		}
		return s.bumpChunk(tx, shop, -1)
	})
	if err != nil {
		if errors.Is(err, shoperr.ErrShopNotFound) {
			return err
		}
		return fmt.Errorf("delete shop %s: %w", shop.ShopUUID, err)
	}
	s.invalidateChunk(ctx, shop.Dimension, shop.ChunkX, shop.ChunkZ)
	return nil
}

// ClearAll wipes every listing and zeroes the chunk index. Returns the number
// of listings removed.
func (s *ShopStore) ClearAll(ctx context.Context) (int64, error) {
	var removed int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("1 = 1").Delete(&models.ShopListing{})
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected
		return tx.Model(&models.ChunkIndexEntry{}).Where("1 = 1").Update("shop_count", 0).Error
	})
	if err != nil {
		return 0, fmt.Errorf("clear shops: %w", err)
	}
	if err := s.cache.Clear(ctx); err != nil {
		s.log.WithError(err).Warn("failed to clear chunk cache")
	}
	return removed, nil
}

// RebuildChunkIndex recounts every chunk from the listings table. Admin
// reload runs this to repair drift.
func (s *ShopStore) RebuildChunkIndex(ctx context.Context) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ChunkIndexEntry{}).Where("1 = 1").Update("shop_count", 0).Error; err != nil {
			return err
		}
		type row struct {
			ChunkX    int
			ChunkZ    int
			Dimension string
			N         int
		}
		var rows []row
		if err := tx.Model(&models.ShopListing{}).
			Select("chunk_x, chunk_z, dimension, COUNT(*) AS n").
			Group("chunk_x, chunk_z, dimension").
			Scan(&rows).Error; err != nil {
			return err
		}
		for _, r := range rows {
			entry := models.ChunkIndexEntry{ChunkX: r.ChunkX, ChunkZ: r.ChunkZ, Dimension: r.Dimension, ShopCount: r.N}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "chunk_x"}, {Name: "chunk_z"}, {Name: "dimension"}},
				DoUpdates: clause.Assignments(map[string]interface{}{"shop_count": r.N}),
			}).Create(&entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("rebuild chunk index: %w", err)
	}
	if err := s.cache.Clear(ctx); err != nil {
		s.log.WithError(err).Warn("failed to clear chunk cache")
	}
	return nil
}

// RecordTransaction appends one row to the trade log.
func (s *ShopStore) RecordTransaction(ctx context.Context, rec *models.ShopTransaction) error {
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("record transaction: %w", err)
	}
	return nil
}

// ListTransactions returns the most recent trades for a shop.
func (s *ShopStore) ListTransactions(ctx context.Context, shopID int64, limit int) ([]models.ShopTransaction, error) {
	if limit <= 0 {
		limit = 20
	}
	var recs []models.ShopTransaction
	err := s.db.WithContext(ctx).
		Where("shop_id = ?", shopID).
		Order("created_at DESC").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return recs, nil
}

// ListRecentTransactions returns the newest trades across all shops, for the
// admin feed.
func (s *ShopStore) ListRecentTransactions(ctx context.Context, limit int) ([]models.ShopTransaction, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var recs []models.ShopTransaction
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("list recent transactions: %w", err)
	}
	return recs, nil
}

// DB exposes the underlying handle for multi-table transactions owned by the
// trade processor.
func (s *ShopStore) DB() *gorm.DB { return s.db }

func (s *ShopStore) bumpChunk(tx *gorm.DB, shop *models.ShopListing, delta int) error {
	entry := models.ChunkIndexEntry{
		ChunkX:    shop.ChunkX,
		ChunkZ:    shop.ChunkZ,
		Dimension: shop.Dimension,
		ShopCount: 0,
	}
	if delta > 0 {
		entry.ShopCount = delta
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "chunk_x"}, {Name: "chunk_z"}, {Name: "dimension"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"shop_count": gorm.Expr("chunk_index.shop_count + ?", delta)}),
		}).Create(&entry).Error
	}
	return tx.Model(&models.ChunkIndexEntry{}).
		Where("chunk_x = ? AND chunk_z = ? AND dimension = ? AND shop_count > 0", shop.ChunkX, shop.ChunkZ, shop.Dimension).
		Update("shop_count", gorm.Expr("shop_count - ?", -delta)).Error
}

func chunkKey(dimension string, cx, cz int) string {
	return fmt.Sprintf("chunk:%s:%d:%d", dimension, cx, cz)
}

func (s *ShopStore) chunkCount(ctx context.Context, dimension string, cx, cz int) (int, error) {
	key := chunkKey(dimension, cx, cz)
	if b, err := s.cache.Get(ctx, key); err == nil {
		if n, perr := strconv.Atoi(string(b)); perr == nil {
			return n, nil
		}
	}
	var entry models.ChunkIndexEntry
	err := s.db.WithContext(ctx).
		Where("chunk_x = ? AND chunk_z = ? AND dimension = ?", cx, cz, dimension).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		entry.ShopCount = 0
	} else if err != nil {
		return 0, err
	}
	if cerr := s.cache.Set(ctx, key, []byte(strconv.Itoa(entry.ShopCount)), chunkCountTTL); cerr != nil {
		s.log.WithError(cerr).Debug("failed to cache chunk count")
	}
	return entry.ShopCount, nil
}

func (s *ShopStore) invalidateChunk(ctx context.Context, dimension string, cx, cz int) {
	if err := s.cache.Delete(ctx, chunkKey(dimension, cx, cz)); err != nil {
		s.log.WithError(err).Debug("failed to invalidate chunk cache")
	}
}
