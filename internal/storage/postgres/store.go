package postgres

import (
	"context"
	"database/sql"
	"strings"

	"github.com/UkralStul/threaded-board/internal/dataloader"
	"github.com/UkralStul/threaded-board/internal/domain"
	"github.com/UkralStul/threaded-board/internal/storage"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store реализует storage.Storage поверх PostgreSQL. Каждая единица работы -
// одна транзакция на одном соединении из пула.
type Store struct {
	db *gorm.DB
}

// New создает хранилище над открытым соединением gorm.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate создает или обновляет таблицы постов и комментариев, внешние ключи
// и индексы.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&domain.Post{}, &domain.Comment{}); err != nil {
		return errors.Wrap(err, "postgres: migrate schema")
	}
	return nil
}

func (s *Store) View(ctx context.Context, fn func(tx storage.Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(newTx(db))
	}, &sql.TxOptions{ReadOnly: true})
}

func (s *Store) Update(ctx context.Context, fn func(tx storage.Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(newTx(db))
	})
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// tx хранит identity map одной транзакции.
type tx struct {
	db       *gorm.DB
	posts    map[int64]*domain.Post
	comments map[int64]*domain.Comment
}

func newTx(db *gorm.DB) *tx {
	return &tx{
		db:       db,
		posts:    make(map[int64]*domain.Post),
		comments: make(map[int64]*domain.Comment),
	}
}

func (t *tx) managePost(p *domain.Post) *domain.Post {
	if managed, ok := t.posts[p.ID]; ok {
		return managed
	}
	t.posts[p.ID] = p
	return p
}

func (t *tx) manageComment(c *domain.Comment) *domain.Comment {
	if managed, ok := t.comments[c.ID]; ok {
		return managed
	}
	t.comments[c.ID] = c
	return c
}

// translate переводит ошибки драйвера в ошибки storage.
func translate(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return storage.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated) {
		return errors.Wrap(storage.ErrConstraint, msg)
	}
	// Класс 23: нарушение ограничения целостности
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "23") {
		return errors.Wrapf(storage.ErrConstraint, "%s: %s", msg, pgErr.ConstraintName)
	}
	return errors.Wrap(err, msg)
}

// === Post Methods ===

func (t *tx) PostByID(ctx context.Context, id int64) (*domain.Post, error) {
	if p, ok := t.posts[id]; ok {
		return p, nil
	}
	var rows []*domain.Post
	if err := t.db.WithContext(ctx).Where("id = ?", id).Find(&rows).Error; err != nil {
		return nil, translate(err, "postgres: load post")
	}
	if len(rows) == 0 {
		return nil, storage.ErrNotFound
	}
	return t.managePost(rows[0]), nil
}

func (t *tx) SavePost(ctx context.Context, post *domain.Post) error {
	if err := t.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error; err != nil {
		return translate(err, "postgres: insert post")
	}
	t.posts[post.ID] = post
	return nil
}

func (t *tx) UpdatePost(ctx context.Context, post *domain.Post) error {
	res := t.db.WithContext(ctx).Model(&domain.Post{}).Where("id = ?", post.ID).Updates(map[string]interface{}{
		"title":      post.Title,
		"content":    post.Content,
		"updated_at": post.UpdatedAt,
	})
	if res.Error != nil {
		return translate(res.Error, "postgres: update post")
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (t *tx) DeletePost(ctx context.Context, post *domain.Post) error {
	db := t.db.WithContext(ctx)
	if err := db.Where("post_id = ?", post.ID).Delete(&domain.Comment{}).Error; err != nil {
		return translate(err, "postgres: delete comments of post")
	}
	if err := db.Where("id = ?", post.ID).Delete(&domain.Post{}).Error; err != nil {
		return translate(err, "postgres: delete post")
	}

	for id, c := range t.comments {
		if c.PostID == post.ID {
			delete(t.comments, id)
		}
	}
	delete(t.posts, post.ID)
	return nil
}

func (t *tx) ListPosts(ctx context.Context, req domain.PageRequest) (*domain.Page[*domain.Post], error) {
	db := t.db.WithContext(ctx)

	var total int64
	if err := db.Model(&domain.Post{}).Count(&total).Error; err != nil {
		return nil, translate(err, "postgres: count posts")
	}
	if total == 0 || int64(req.Offset()) >= total {
		return domain.NewPage[*domain.Post](nil, total, req), nil
	}

	orders := req.Orders()
	columns := make([]clause.OrderByColumn, 0, len(orders))
	for _, o := range orders {
		columns = append(columns, clause.OrderByColumn{
			Column: clause.Column{Name: o.Column()},
			Desc:   o.Direction == domain.Desc,
		})
	}

	var rows []*domain.Post
	// Order принимает только одиночные колонки, поэтому весь OrderBy через Clauses
	err := db.Clauses(clause.OrderBy{Columns: columns}).
		Limit(req.Size).
		Offset(req.Offset()).
		Find(&rows).Error
	if err != nil {
		return nil, translate(err, "postgres: list posts")
	}

	for i, p := range rows {
		rows[i] = t.managePost(p)
	}
	return domain.NewPage(rows, total, req), nil
}

// === Comment Methods ===

func (t *tx) CommentByID(ctx context.Context, id int64) (*domain.Comment, error) {
	if c, ok := t.comments[id]; ok {
		return c, nil
	}
	var rows []*domain.Comment
	if err := t.db.WithContext(ctx).Where("id = ?", id).Find(&rows).Error; err != nil {
		return nil, translate(err, "postgres: load comment")
	}
	if len(rows) == 0 {
		return nil, storage.ErrNotFound
	}
	return t.manageComment(rows[0]), nil
}

func (t *tx) SaveComment(ctx context.Context, comment *domain.Comment) error {
	if err := t.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error; err != nil {
		return translate(err, "postgres: insert comment")
	}
	t.comments[comment.ID] = comment
	return nil
}

func (t *tx) UpdateComment(ctx context.Context, comment *domain.Comment) error {
	res := t.db.WithContext(ctx).Model(&domain.Comment{}).Where("id = ?", comment.ID).Update("content", comment.Content)
	if res.Error != nil {
		return translate(res.Error, "postgres: update comment")
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (t *tx) DeleteComment(ctx context.Context, comment *domain.Comment) error {
	db := t.db.WithContext(ctx)
	if err := db.Where("parent_id = ?", comment.ID).Delete(&domain.Comment{}).Error; err != nil {
		return translate(err, "postgres: delete replies")
	}
	if err := db.Where("id = ?", comment.ID).Delete(&domain.Comment{}).Error; err != nil {
		return translate(err, "postgres: delete comment")
	}

	for id, c := range t.comments {
		if c.ParentID != nil && *c.ParentID == comment.ID {
			delete(t.comments, id)
		}
	}
	delete(t.comments, comment.ID)

	if comment.ParentID != nil {
		if parent, ok := t.comments[*comment.ParentID]; ok && parent.Replies != nil {
			kept := parent.Replies[:0]
			for _, r := range parent.Replies {
				if r.ID != comment.ID {
					kept = append(kept, r)
				}
			}
			parent.Replies = kept
		}
	}
	return nil
}

// TopLevelCommentsByPost делает ровно два запроса: корневые комментарии и
// ОДИН батч-запрос за всеми их ответами.
func (t *tx) TopLevelCommentsByPost(ctx context.Context, postID int64) ([]*domain.Comment, error) {
	var roots []*domain.Comment
	err := t.db.WithContext(ctx).
		Where("post_id = ? AND parent_id IS NULL", postID).
		Order("created_at ASC, id ASC").
		Find(&roots).Error
	if err != nil {
		return nil, translate(err, "postgres: load top-level comments")
	}

	for i, c := range roots {
		roots[i] = t.manageComment(c)
	}
	if err := dataloader.AttachReplies(ctx, t.RepliesByParentIDs, roots); err != nil {
		return nil, err
	}
	if roots == nil {
		roots = []*domain.Comment{}
	}
	return roots, nil
}

func (t *tx) RepliesByParentIDs(ctx context.Context, parentIDs []int64) (map[int64][]*domain.Comment, error) {
	result := make(map[int64][]*domain.Comment, len(parentIDs))
	if len(parentIDs) == 0 {
		return result, nil
	}

	var replies []*domain.Comment
	err := t.db.WithContext(ctx).
		Where("parent_id IN ?", parentIDs).
		Order("created_at ASC, id ASC").
		Find(&replies).Error
	if err != nil {
		return nil, translate(err, "postgres: load replies")
	}

	for _, c := range replies {
		if c.ParentID != nil {
			result[*c.ParentID] = append(result[*c.ParentID], t.manageComment(c))
		}
	}
	return result, nil
}
