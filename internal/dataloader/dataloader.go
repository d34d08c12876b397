package dataloader

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/UkralStul/threaded-board/internal/domain"
	"github.com/graph-gophers/dataloader"
)

// RepliesFetcher загружает ответы многих родителей за один запрос.
type RepliesFetcher func(ctx context.Context, parentIDs []int64) (map[int64][]*domain.Comment, error)

// commentKey - ключ дата-лоадера на основе id комментария.
type commentKey int64

func (k commentKey) String() string   { return strconv.FormatInt(int64(k), 10) }
func (k commentKey) Raw() interface{} { return int64(k) }

// NewRepliesLoader создает лоадер, батчи которого идут через fetch.
// Батч срабатывает, как только набралось capacity ключей, поэтому загрузка
// ровно capacity ключей стоит одного вызова fetch.
func NewRepliesLoader(fetch RepliesFetcher, capacity int) *dataloader.Loader {
	batchFn := func(ctx context.Context, keys dataloader.Keys) []*dataloader.Result {
		parentIDs := make([]int64, len(keys))
		for i, key := range keys {
			parentIDs[i] = key.Raw().(int64)
		}

		repliesMap, err := fetch(ctx, parentIDs)
		if err != nil {
			results := make([]*dataloader.Result, len(keys))
			for i := range results {
				results[i] = &dataloader.Result{Error: err}
			}
			return results
		}

		// Формируем результат в том же порядке, что и ключи
		results := make([]*dataloader.Result, len(keys))
		for i, parentID := range parentIDs {
			results[i] = &dataloader.Result{Data: repliesMap[parentID]}
		}
		return results
	}

	return dataloader.NewBatchedLoader(batchFn,
		dataloader.WithBatchCapacity(capacity),
		dataloader.WithWait(16*time.Millisecond),
		dataloader.WithCache(&dataloader.NoCache{}),
	)
}

// AttachReplies загружает ответы всех корней одним батчем и кладет их в
// root.Replies в порядке, который вернул fetch. Корням без ответов достается
// пустой слайс.
func AttachReplies(ctx context.Context, fetch RepliesFetcher, roots []*domain.Comment) error {
	if len(roots) == 0 {
		return nil
	}

	keys := make(dataloader.Keys, len(roots))
	for i, root := range roots {
		keys[i] = commentKey(root.ID)
	}

	loader := NewRepliesLoader(fetch, len(keys))
	data, errs := loader.LoadMany(ctx, keys)()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	for i, root := range roots {
		replies, ok := data[i].([]*domain.Comment)
		if data[i] != nil && !ok {
			return fmt.Errorf("dataloader: unexpected replies type %T", data[i])
		}
		if replies == nil {
			replies = []*domain.Comment{}
		}
		root.Replies = replies
	}
	return nil
}
