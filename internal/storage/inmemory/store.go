package inmemory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"unicode/utf8"

	"github.com/UkralStul/threaded-board/internal/dataloader"
	"github.com/UkralStul/threaded-board/internal/domain"
	"github.com/UkralStul/threaded-board/internal/storage"
)

var errReadOnly = errors.New("inmemory: write in read-only unit of work")

// state - одна согласованная версия данных.
type state struct {
	posts         map[int64]*domain.Post
	comments      map[int64]*domain.Comment
	nextPostID    int64
	nextCommentID int64
}

func (st *state) clone() *state {
	out := &state{
		posts:         make(map[int64]*domain.Post, len(st.posts)),
		comments:      make(map[int64]*domain.Comment, len(st.comments)),
		nextPostID:    st.nextPostID,
		nextCommentID: st.nextCommentID,
	}
	for id, p := range st.posts {
		out.posts[id] = copyPost(p)
	}
	for id, c := range st.comments {
		out.comments[id] = copyComment(c)
	}
	return out
}

// Store реализует интерфейс Storage в памяти. Записи выполняются по одной,
// каждая над своей копией состояния, которая подменяет общее только при
// фиксации.
type Store struct {
	mu sync.RWMutex
	st *state
}

// New создает новый экземпляр in-memory хранилища.
func New() *Store {
	return &Store{st: &state{
		posts:    make(map[int64]*domain.Post),
		comments: make(map[int64]*domain.Comment),
	}}
}

func (s *Store) View(ctx context.Context, fn func(tx storage.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	return fn(newTx(s.st, true))
}

func (s *Store) Update(ctx context.Context, fn func(tx storage.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(newTx(work, false)); err != nil {
		return err
	}
	// Контекст отменен до фиксации, копию выбрасываем
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = work
	return nil
}

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

func (s *Store) Close() error { return nil }

// tx выдает управляемые копии записей из st.
type tx struct {
	st       *state
	readOnly bool
	posts    map[int64]*domain.Post
	comments map[int64]*domain.Comment
}

func newTx(st *state, readOnly bool) *tx {
	return &tx{
		st:       st,
		readOnly: readOnly,
		posts:    make(map[int64]*domain.Post),
		comments: make(map[int64]*domain.Comment),
	}
}

func (t *tx) managePost(row *domain.Post) *domain.Post {
	if p, ok := t.posts[row.ID]; ok {
		return p
	}
	p := copyPost(row)
	t.posts[p.ID] = p
	return p
}

func (t *tx) manageComment(row *domain.Comment) *domain.Comment {
	if c, ok := t.comments[row.ID]; ok {
		return c
	}
	c := copyComment(row)
	t.comments[c.ID] = c
	return c
}

// === Post Methods ===

func (t *tx) PostByID(ctx context.Context, id int64) (*domain.Post, error) {
	if p, ok := t.posts[id]; ok {
		return p, nil
	}
	row, ok := t.st.posts[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return t.managePost(row), nil
}

func (t *tx) SavePost(ctx context.Context, post *domain.Post) error {
	if t.readOnly {
		return errReadOnly
	}
	if err := checkPost(post); err != nil {
		return err
	}
	t.st.nextPostID++
	post.ID = t.st.nextPostID
	t.st.posts[post.ID] = copyPost(post)
	t.posts[post.ID] = post
	return nil
}

func (t *tx) UpdatePost(ctx context.Context, post *domain.Post) error {
	if t.readOnly {
		return errReadOnly
	}
	row, ok := t.st.posts[post.ID]
	if !ok {
		return storage.ErrNotFound
	}
	if err := checkPost(post); err != nil {
		return err
	}
	row.Title = post.Title
	row.Content = post.Content
	row.UpdatedAt = post.UpdatedAt
	return nil
}

func (t *tx) DeletePost(ctx context.Context, post *domain.Post) error {
	if t.readOnly {
		return errReadOnly
	}
	for id, c := range t.st.comments {
		if c.PostID == post.ID {
			delete(t.st.comments, id)
			delete(t.comments, id)
		}
	}
	delete(t.st.posts, post.ID)
	delete(t.posts, post.ID)
	return nil
}

func (t *tx) ListPosts(ctx context.Context, req domain.PageRequest) (*domain.Page[*domain.Post], error) {
	all := make([]*domain.Post, 0, len(t.st.posts))
	for _, p := range t.st.posts {
		all = append(all, p)
	}

	orders := req.Orders()
	sort.SliceStable(all, func(i, j int) bool {
		return lessPost(all[i], all[j], orders)
	})

	total := int64(len(all))
	start := min(max(req.Offset(), 0), len(all))
	end := start + min(max(req.Size, 0), len(all)-start)

	items := make([]*domain.Post, 0, end-start)
	for _, p := range all[start:end] {
		items = append(items, t.managePost(p))
	}
	return domain.NewPage(items, total, req), nil
}

// === Comment Methods ===

func (t *tx) CommentByID(ctx context.Context, id int64) (*domain.Comment, error) {
	if c, ok := t.comments[id]; ok {
		return c, nil
	}
	row, ok := t.st.comments[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return t.manageComment(row), nil
}

func (t *tx) SaveComment(ctx context.Context, comment *domain.Comment) error {
	if t.readOnly {
		return errReadOnly
	}
	if utf8.RuneCountInString(comment.Author) > 100 {
		return storage.ErrConstraint
	}
	// Проверка поста и родителя
	if _, ok := t.st.posts[comment.PostID]; !ok {
		return storage.ErrConstraint
	}
	if comment.ParentID != nil {
		if _, ok := t.st.comments[*comment.ParentID]; !ok {
			return storage.ErrConstraint
		}
	}

	t.st.nextCommentID++
	comment.ID = t.st.nextCommentID
	t.st.comments[comment.ID] = copyComment(comment)
	t.comments[comment.ID] = comment
	return nil
}

func (t *tx) UpdateComment(ctx context.Context, comment *domain.Comment) error {
	if t.readOnly {
		return errReadOnly
	}
	row, ok := t.st.comments[comment.ID]
	if !ok {
		return storage.ErrNotFound
	}
	row.Content = comment.Content
	return nil
}

func (t *tx) DeleteComment(ctx context.Context, comment *domain.Comment) error {
	if t.readOnly {
		return errReadOnly
	}
	for id, c := range t.st.comments {
		if c.ParentID != nil && *c.ParentID == comment.ID {
			delete(t.st.comments, id)
			delete(t.comments, id)
		}
	}
	delete(t.st.comments, comment.ID)
	delete(t.comments, comment.ID)

	// Убираем из ответов загруженного родителя
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

func (t *tx) TopLevelCommentsByPost(ctx context.Context, postID int64) ([]*domain.Comment, error) {
	roots := make([]*domain.Comment, 0)
	for _, c := range t.st.comments {
		if c.PostID == postID && c.ParentID == nil {
			roots = append(roots, c)
		}
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i].Before(roots[j]) })

	for i, c := range roots {
		roots[i] = t.manageComment(c)
	}
	if err := dataloader.AttachReplies(ctx, t.RepliesByParentIDs, roots); err != nil {
		return nil, err
	}
	return roots, nil
}

func (t *tx) RepliesByParentIDs(ctx context.Context, parentIDs []int64) (map[int64][]*domain.Comment, error) {
	wanted := make(map[int64]struct{}, len(parentIDs))
	for _, id := range parentIDs {
		wanted[id] = struct{}{}
	}

	replies := make([]*domain.Comment, 0)
	for _, c := range t.st.comments {
		if c.ParentID == nil {
			continue
		}
		if _, ok := wanted[*c.ParentID]; ok {
			replies = append(replies, c)
		}
	}
	sort.Slice(replies, func(i, j int) bool { return replies[i].Before(replies[j]) })

	result := make(map[int64][]*domain.Comment, len(parentIDs))
	for _, c := range replies {
		result[*c.ParentID] = append(result[*c.ParentID], t.manageComment(c))
	}
	return result, nil
}

// === helpers ===

func checkPost(p *domain.Post) error {
	if utf8.RuneCountInString(p.Title) > 200 || utf8.RuneCountInString(p.Author) > 100 {
		return storage.ErrConstraint
	}
	return nil
}

func copyPost(p *domain.Post) *domain.Post {
	cp := *p
	cp.Comments = nil
	return &cp
}

func copyComment(c *domain.Comment) *domain.Comment {
	cp := *c
	if c.ParentID != nil {
		parentID := *c.ParentID
		cp.ParentID = &parentID
	}
	cp.Replies = nil
	return &cp
}

func lessPost(a, b *domain.Post, orders []domain.SortOrder) bool {
	for _, o := range orders {
		c := comparePost(a, b, o.Property)
		if c == 0 {
			continue
		}
		if o.Direction == domain.Desc {
			return c > 0
		}
		return c < 0
	}
	return false
}

func comparePost(a, b *domain.Post, property string) int {
	switch property {
	case "title":
		return compareStrings(a.Title, b.Title)
	case "author":
		return compareStrings(a.Author, b.Author)
	case "createdAt":
		return a.CreatedAt.Compare(b.CreatedAt)
	case "updatedAt":
		return a.UpdatedAt.Compare(b.UpdatedAt)
	default:
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	}
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
