package repositories

import (
	"context"
	"time"

	"github.com/peerlaunch/launchpad_api/model"
	"gorm.io/gorm"
)

type CommentRepository struct {
	BaseRepository
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (ds *CommentRepository) CreateComment(ctx context.Context, comment *model.Comment) error {
	if comment.ID == "" {
		comment.ID = newID()
	}
	return ds.db.WithContext(ctx).Create(comment).Error
}

func (ds *CommentRepository) GetComment(ctx context.Context, id string) (*model.Comment, error) {
	var comment model.Comment
	if err := ds.db.WithContext(ctx).Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListTopLevel returns up to limit root comments of an organization, newest
// first, strictly after cursor when one is given.
func (ds *CommentRepository) ListTopLevel(ctx context.Context, orgID string, cursor *model.Comment, limit int) ([]model.Comment, error) {
	q := ds.db.WithContext(ctx).Where("organization_id = ? AND parent_id IS NULL", orgID)
	if cursor != nil {
		q = q.Where("created_at < ? OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var comments []model.Comment
	err := q.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&comments).Error
	return comments, err
}

// ListChildren returns every direct reply of the given parents, newest first.
func (ds *CommentRepository) ListChildren(ctx context.Context, parentIDs []string) ([]model.Comment, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}

	var comments []model.Comment
	err := ds.db.WithContext(ctx).
		Where("parent_id IN ?", parentIDs).
		Order("created_at DESC").Order("id DESC").
		Find(&comments).Error
	return comments, err
}

func (ds *CommentRepository) LikeCounts(ctx context.Context, commentIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(commentIDs))
	if len(commentIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		CommentID string
		Count     int64
	}
	if err := ds.db.WithContext(ctx).Model(&model.CommentLike{}).
		Select("comment_id, COUNT(*) AS count").
		Where("comment_id IN ?", commentIDs).
		Group("comment_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		counts[r.CommentID] = r.Count
	}
	return counts, nil
}

// LikedBy returns which of commentIDs userID has liked.
func (ds *CommentRepository) LikedBy(ctx context.Context, userID string, commentIDs []string) (map[string]bool, error) {
	liked := make(map[string]bool)
	if userID == "" || len(commentIDs) == 0 {
		return liked, nil
	}

	var ids []string
	if err := ds.db.WithContext(ctx).Model(&model.CommentLike{}).
		Where("user_id = ? AND comment_id IN ?", userID, commentIDs).
		Pluck("comment_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

// UpdateContent only touches a comment owned by userID and reports whether one matched.
func (ds *CommentRepository) UpdateContent(ctx context.Context, id, userID, content string) (bool, error) {
	res := ds.db.WithContext(ctx).Model(&model.Comment{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{"content": content, "updated_at": time.Now()})
	return res.RowsAffected > 0, res.Error
}

// DeleteTree removes a comment, every descendant and all their likes in one
// transaction. Likes go first, then one statement per level, deepest first.
func (ds *CommentRepository) DeleteTree(ctx context.Context, rootID string) (int, error) {
	deleted := 0
	err := ds.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		levels := [][]string{{rootID}}
		ids := []string{rootID}
		seen := map[string]bool{rootID: true}

		for frontier := levels[0]; len(frontier) > 0; {
			var children []string
			if err := tx.Model(&model.Comment{}).Where("parent_id IN ?", frontier).Pluck("id", &children).Error; err != nil {
				return err
			}

			var next []string
			for _, id := range children {
				if !seen[id] {
					seen[id] = true
					next = append(next, id)
				}
			}
			if len(next) > 0 {
				levels = append(levels, next)
				ids = append(ids, next...)
			}
			frontier = next
		}

		if err := tx.Where("comment_id IN ?", ids).Delete(&model.CommentLike{}).Error; err != nil {
			return err
		}

		// Leaves first so a parent_id foreign key never sees a dangling child.
		for i := len(levels) - 1; i >= 0; i-- {
			res := tx.Where("id IN ?", levels[i]).Delete(&model.Comment{})
			if res.Error != nil {
				return res.Error
			}
			deleted += int(res.RowsAffected)
		}
		return nil
	})
	return deleted, err
}

// ToggleLike removes the viewer's like if there is one and adds it otherwise.
// The check and the write share a transaction but nothing at the storage level
// prevents two concurrent inserts.
func (ds *CommentRepository) ToggleLike(ctx context.Context, commentID, userID string) (bool, int64, error) {
	var liked bool
	var count int64

	err := ds.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.CommentLike
		res := tx.Where("comment_id = ? AND user_id = ?", commentID, userID).Limit(1).Find(&existing)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected > 0 {
			if err := tx.Where("comment_id = ? AND user_id = ?", commentID, userID).Delete(&model.CommentLike{}).Error; err != nil {
				return err
			}
		} else {
			like := &model.CommentLike{ID: newID(), CommentID: commentID, UserID: userID}
			if err := tx.Create(like).Error; err != nil {
				return err
			}
			liked = true
		}

		return tx.Model(&model.CommentLike{}).Where("comment_id = ?", commentID).Count(&count).Error
	})
	return liked, count, err
}

func (ds *CommentRepository) CountInWindow(ctx context.Context, orgID string, w Window) (int64, error) {
	var count int64
	err := ds.db.WithContext(ctx).Model(&model.Comment{}).
		Where("organization_id = ? AND created_at >= ? AND created_at < ?", orgID, w.From, w.To).
		Count(&count).Error
	return count, err
}
