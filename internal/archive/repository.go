// Package archive persists periodic snapshots of the in-memory session state
// to PostgreSQL. The archive is write-behind and read-only for the API: it is
// there so operations can inspect or replay sessions, never to serve requests.
package archive

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tubetrade/rfq-api/internal/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Repository handles database operations for session snapshots
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SaveRFQ appends a snapshot of the RFQ unless it is identical to the latest
// one already archived. Keeps the archive append-only without filling it with
// no-op rows on every job run.
func (r *Repository) SaveRFQ(ctx context.Context, rfq *domain.RFQ) error {
	payload, err := json.Marshal(rfq)
	if err != nil {
		return fmt.Errorf("marshal rfq: %w", err)
	}

	latest, err := r.LatestRFQ(ctx, rfq.RFQID)
	if err != nil {
		return err
	}
	if latest != nil && string(latest.Payload) == string(payload) {
		return nil
	}

	snapshot := domain.RFQSnapshot{
		RFQID:     rfq.RFQID,
		Payload:   datatypes.JSON(payload),
		ItemCount: len(rfq.LineItems),
	}
	return r.db.WithContext(ctx).Create(&snapshot).Error
}

// SaveQuote archives one received quote. Quotes are immutable, so a quote
// already archived for the same RFQ, arrival time and payload is skipped.
// The payload hash keeps distinct quotes landing in the same timestamp tick
// apart.
func (r *Repository) SaveQuote(ctx context.Context, quote *domain.Quote) error {
	payload, err := json.Marshal(quote.Payload)
	if err != nil {
		return fmt.Errorf("marshal quote payload: %w", err)
	}
	hash := fmt.Sprintf("%x", sha256.Sum256(payload))

	var count int64
	err = r.db.WithContext(ctx).
		Model(&domain.QuoteSnapshot{}).
		Where("rfq_id = ? AND received_at = ? AND payload_hash = ?", quote.RFQID, quote.ReceivedAt, hash).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	snapshot := domain.QuoteSnapshot{
		RFQID:       quote.RFQID,
		Payload:     datatypes.JSON(payload),
		PayloadHash: hash,
		ReceivedAt:  quote.ReceivedAt,
	}
	return r.db.WithContext(ctx).Create(&snapshot).Error
}

// LatestRFQ returns the most recent snapshot for an RFQ, or nil if none exists
func (r *Repository) LatestRFQ(ctx context.Context, rfqID string) (*domain.RFQSnapshot, error) {
	var snapshot domain.RFQSnapshot
	err := r.db.WithContext(ctx).
		Where("rfq_id = ?", rfqID).
		Order("id DESC").
		First(&snapshot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &snapshot, nil
}

// History returns all snapshots for an RFQ in chronological order
func (r *Repository) History(ctx context.Context, rfqID string) ([]domain.RFQSnapshot, error) {
	var snapshots []domain.RFQSnapshot
	err := r.db.WithContext(ctx).
		Where("rfq_id = ?", rfqID).
		Order("id ASC").
		Find(&snapshots).Error
	return snapshots, err
}
