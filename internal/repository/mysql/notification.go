package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/Guyuepp/social-blog/domain"
	"github.com/Guyuepp/social-blog/internal/repository/mysql/model"
)

const notificationInsertBatch = 100

type notificationRepository struct {
	DB *gorm.DB
}

var _ domain.NotificationRepository = (*notificationRepository)(nil)

func NewNotificationRepository(db *gorm.DB) *notificationRepository {
	return &notificationRepository{DB: db}
}

func (m *notificationRepository) StoreBatch(ctx context.Context, ns []domain.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	rows := make([]model.Notification, len(ns))
	for i := range ns {
		rows[i] = model.NewNotificationFromDomain(&ns[i])
	}
	return m.DB.WithContext(ctx).CreateInBatches(&rows, notificationInsertBatch).Error
}

func (m *notificationRepository) FetchByReceiver(ctx context.Context, receiverID int64, limit int64) ([]domain.Notification, error) {
	var rows []model.Notification
	err := m.DB.WithContext(ctx).
		Where("receiver_id = ?", receiverID).
		Order("id DESC").
		Limit(int(limit)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	res := make([]domain.Notification, len(rows))
	for i := range rows {
		res[i] = rows[i].ToDomain()
	}
	return res, nil
}

func (m *notificationRepository) MarkRead(ctx context.Context, receiverID, id int64) error {
	db := m.DB.WithContext(ctx)
	var n int64
	if err := db.Model(&model.Notification{}).Where("id = ? AND receiver_id = ?", id, receiverID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return db.Model(&model.Notification{}).Where("id = ?", id).Update("is_read", true).Error
}

func (m *notificationRepository) MarkAllRead(ctx context.Context, receiverID int64) (int64, error) {
	result := m.DB.WithContext(ctx).
		Model(&model.Notification{}).
		Where("receiver_id = ? AND is_read = ?", receiverID, false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}
